package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// MaxPooling2D downsamples by taking the maximum over a window.
type MaxPooling2D struct {
	PoolSize []int  `mapstructure:"pool_size"`
	Strides  []int  `mapstructure:"strides"`
	Padding  string `mapstructure:"padding"`
	Name     string `mapstructure:"name"`
}

func (l *MaxPooling2D) Kind() string { return "MaxPooling2D" }

func (l *MaxPooling2D) Defaults() {
	l.PoolSize = []int{2, 2}
	l.Padding = "valid"
}

func (l *MaxPooling2D) Validate() error {
	if len(l.PoolSize) != 2 {
		return fmt.Errorf("max_pooling2d: pool_size must have rank 2, got %v", l.PoolSize)
	}
	if err := validPadding(l.Padding, false); err != nil {
		return fmt.Errorf("max_pooling2d: %w", err)
	}
	return nil
}

func (l *MaxPooling2D) Config() (component.Params, error) {
	return component.Params{
		"pool_size": l.PoolSize,
		"strides":   l.Strides,
		"padding":   l.Padding,
		"name":      l.Name,
	}, nil
}

// AveragePooling2D downsamples by averaging over a window.
type AveragePooling2D struct {
	PoolSize []int  `mapstructure:"pool_size"`
	Strides  []int  `mapstructure:"strides"`
	Padding  string `mapstructure:"padding"`
	Name     string `mapstructure:"name"`
}

func (l *AveragePooling2D) Kind() string { return "AveragePooling2D" }

func (l *AveragePooling2D) Defaults() {
	l.PoolSize = []int{2, 2}
	l.Padding = "valid"
}

func (l *AveragePooling2D) Validate() error {
	if len(l.PoolSize) != 2 {
		return fmt.Errorf("average_pooling2d: pool_size must have rank 2, got %v", l.PoolSize)
	}
	if err := validPadding(l.Padding, false); err != nil {
		return fmt.Errorf("average_pooling2d: %w", err)
	}
	return nil
}

func (l *AveragePooling2D) Config() (component.Params, error) {
	return component.Params{
		"pool_size": l.PoolSize,
		"strides":   l.Strides,
		"padding":   l.Padding,
		"name":      l.Name,
	}, nil
}

// GlobalMaxPooling2D takes the maximum over all spatial dimensions.
type GlobalMaxPooling2D struct {
	DataFormat string `mapstructure:"data_format"`
	Name       string `mapstructure:"name"`
}

func (l *GlobalMaxPooling2D) Kind() string { return "GlobalMaxPooling2D" }

func (l *GlobalMaxPooling2D) Defaults() { l.DataFormat = "channels_last" }

func (l *GlobalMaxPooling2D) Config() (component.Params, error) {
	return component.Params{
		"data_format": l.DataFormat,
		"name":        l.Name,
	}, nil
}

// Pooling returns the namespace of pooling layers.
func Pooling() registry.Namespace {
	return registry.Namespace{
		Name: "pooling",
		Bindings: []registry.Binding{
			{Name: "MaxPooling2D", Value: component.Describe("MaxPooling2D", "Max pooling over a 2D window.", component.Build[MaxPooling2D])},
			{Name: "AveragePooling2D", Value: component.Describe("AveragePooling2D", "Average pooling over a 2D window.", component.Build[AveragePooling2D])},
			{Name: "GlobalMaxPooling2D", Value: component.Describe("GlobalMaxPooling2D", "Max over all spatial dimensions.", component.Build[GlobalMaxPooling2D])},
		},
	}
}
