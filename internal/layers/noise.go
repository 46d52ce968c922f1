package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// GaussianNoise adds zero-centered gaussian noise during training.
type GaussianNoise struct {
	Stddev float64 `mapstructure:"stddev"`
	Name   string  `mapstructure:"name"`
}

func (l *GaussianNoise) Kind() string { return "GaussianNoise" }

func (l *GaussianNoise) Validate() error {
	if l.Stddev < 0 {
		return fmt.Errorf("gaussian_noise: stddev must be non-negative, got %v", l.Stddev)
	}
	return nil
}

func (l *GaussianNoise) Config() (component.Params, error) {
	return component.Params{
		"stddev": l.Stddev,
		"name":   l.Name,
	}, nil
}

// GaussianDropout multiplies inputs by 1-centered gaussian noise.
type GaussianDropout struct {
	Rate float64 `mapstructure:"rate"`
	Name string  `mapstructure:"name"`
}

func (l *GaussianDropout) Kind() string { return "GaussianDropout" }

func (l *GaussianDropout) Validate() error {
	if l.Rate < 0 || l.Rate >= 1 {
		return fmt.Errorf("gaussian_dropout: rate must be in [0, 1), got %v", l.Rate)
	}
	return nil
}

func (l *GaussianDropout) Config() (component.Params, error) {
	return component.Params{
		"rate": l.Rate,
		"name": l.Name,
	}, nil
}

// Noise returns the namespace of regularization noise layers.
func Noise() registry.Namespace {
	return registry.Namespace{
		Name: "noise",
		Bindings: []registry.Binding{
			{Name: "GaussianNoise", Value: component.Describe("GaussianNoise", "Adds zero-centered gaussian noise during training.", component.Build[GaussianNoise])},
			{Name: "GaussianDropout", Value: component.Describe("GaussianDropout", "Multiplies inputs by 1-centered gaussian noise.", component.Build[GaussianDropout])},
		},
	}
}
