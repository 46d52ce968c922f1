package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// BatchNormalization normalizes activations over the batch.
type BatchNormalization struct {
	Axis     int     `mapstructure:"axis"`
	Momentum float64 `mapstructure:"momentum"`
	Epsilon  float64 `mapstructure:"epsilon"`
	Center   bool    `mapstructure:"center"`
	Scale    bool    `mapstructure:"scale"`
	Name     string  `mapstructure:"name"`
}

func (l *BatchNormalization) Kind() string { return "BatchNormalization" }

func (l *BatchNormalization) Defaults() {
	l.Axis = -1
	l.Momentum = 0.99
	l.Epsilon = 1e-3
	l.Center = true
	l.Scale = true
}

func (l *BatchNormalization) Validate() error {
	if l.Momentum < 0 || l.Momentum > 1 {
		return fmt.Errorf("batch_normalization: momentum must be in [0, 1], got %v", l.Momentum)
	}
	return nil
}

func (l *BatchNormalization) Config() (component.Params, error) {
	return component.Params{
		"axis":     l.Axis,
		"momentum": l.Momentum,
		"epsilon":  l.Epsilon,
		"center":   l.Center,
		"scale":    l.Scale,
		"name":     l.Name,
	}, nil
}

// LayerNormalization normalizes activations within each sample.
type LayerNormalization struct {
	Axis    int     `mapstructure:"axis"`
	Epsilon float64 `mapstructure:"epsilon"`
	Center  bool    `mapstructure:"center"`
	Scale   bool    `mapstructure:"scale"`
	Name    string  `mapstructure:"name"`
}

func (l *LayerNormalization) Kind() string { return "LayerNormalization" }

func (l *LayerNormalization) Defaults() {
	l.Axis = -1
	l.Epsilon = 1e-3
	l.Center = true
	l.Scale = true
}

func (l *LayerNormalization) Config() (component.Params, error) {
	return component.Params{
		"axis":    l.Axis,
		"epsilon": l.Epsilon,
		"center":  l.Center,
		"scale":   l.Scale,
		"name":    l.Name,
	}, nil
}

// Normalization returns the namespace of normalization layers.
func Normalization() registry.Namespace {
	return registry.Namespace{
		Name: "normalization",
		Bindings: []registry.Binding{
			{Name: "BatchNormalization", Value: component.Describe("BatchNormalization", "Normalizes activations over the batch.", component.Build[BatchNormalization])},
			{Name: "LayerNormalization", Value: component.Describe("LayerNormalization", "Normalizes activations within each sample.", component.Build[LayerNormalization])},
		},
	}
}
