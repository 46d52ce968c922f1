package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// ReLU is the rectified linear unit with optional clamping.
type ReLU struct {
	MaxValue      float64 `mapstructure:"max_value"`
	NegativeSlope float64 `mapstructure:"negative_slope"`
	Threshold     float64 `mapstructure:"threshold"`
	Name          string  `mapstructure:"name"`
}

func (l *ReLU) Kind() string { return "ReLU" }

func (l *ReLU) Validate() error {
	if l.MaxValue < 0 {
		return fmt.Errorf("re_lu: max_value must be non-negative, got %v", l.MaxValue)
	}
	if l.NegativeSlope < 0 {
		return fmt.Errorf("re_lu: negative_slope must be non-negative, got %v", l.NegativeSlope)
	}
	return nil
}

func (l *ReLU) Config() (component.Params, error) {
	return component.Params{
		"max_value":      l.MaxValue,
		"negative_slope": l.NegativeSlope,
		"threshold":      l.Threshold,
		"name":           l.Name,
	}, nil
}

// LeakyReLU allows a small gradient when the unit is inactive.
type LeakyReLU struct {
	Alpha float64 `mapstructure:"alpha"`
	Name  string  `mapstructure:"name"`
}

func (l *LeakyReLU) Kind() string { return "LeakyReLU" }

func (l *LeakyReLU) Defaults() { l.Alpha = 0.3 }

func (l *LeakyReLU) Config() (component.Params, error) {
	return component.Params{
		"alpha": l.Alpha,
		"name":  l.Name,
	}, nil
}

// ELU is the exponential linear unit.
type ELU struct {
	Alpha float64 `mapstructure:"alpha"`
	Name  string  `mapstructure:"name"`
}

func (l *ELU) Kind() string { return "ELU" }

func (l *ELU) Defaults() { l.Alpha = 1.0 }

func (l *ELU) Config() (component.Params, error) {
	return component.Params{
		"alpha": l.Alpha,
		"name":  l.Name,
	}, nil
}

// Softmax normalizes along an axis to a probability distribution.
type Softmax struct {
	Axis int    `mapstructure:"axis"`
	Name string `mapstructure:"name"`
}

func (l *Softmax) Kind() string { return "Softmax" }

func (l *Softmax) Defaults() { l.Axis = -1 }

func (l *Softmax) Config() (component.Params, error) {
	return component.Params{
		"axis": l.Axis,
		"name": l.Name,
	}, nil
}

// Activations returns the namespace of standalone activation layers.
func Activations() registry.Namespace {
	return registry.Namespace{
		Name: "activations",
		Bindings: []registry.Binding{
			{Name: "ReLU", Value: component.Describe("ReLU", "Rectified linear unit with optional clamping.", component.Build[ReLU])},
			{Name: "LeakyReLU", Value: component.Describe("LeakyReLU", "ReLU with a small slope for negative values.", component.Build[LeakyReLU])},
			{Name: "ELU", Value: component.Describe("ELU", "Exponential linear unit.", component.Build[ELU])},
			{Name: "Softmax", Value: component.Describe("Softmax", "Normalizes along `axis` to a probability distribution.", component.Build[Softmax])},
		},
	}
}
