package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

func validPadding(padding string, allowCausal bool) error {
	switch padding {
	case "valid", "same":
		return nil
	case "causal":
		if allowCausal {
			return nil
		}
	}
	return fmt.Errorf("padding must be one of valid, same: got %q", padding)
}

// Conv1D is a temporal convolution.
type Conv1D struct {
	Filters    int    `mapstructure:"filters"`
	KernelSize []int  `mapstructure:"kernel_size"`
	Strides    []int  `mapstructure:"strides"`
	Padding    string `mapstructure:"padding"`
	Activation string `mapstructure:"activation"`
	UseBias    bool   `mapstructure:"use_bias"`
	Name       string `mapstructure:"name"`
}

func (l *Conv1D) Kind() string { return "Conv1D" }

func (l *Conv1D) Defaults() {
	l.Strides = []int{1}
	l.Padding = "valid"
	l.UseBias = true
}

func (l *Conv1D) Validate() error {
	if l.Filters <= 0 {
		return fmt.Errorf("conv1d: filters must be positive, got %d", l.Filters)
	}
	if len(l.KernelSize) != 1 {
		return fmt.Errorf("conv1d: kernel_size must have rank 1, got %v", l.KernelSize)
	}
	if err := validPadding(l.Padding, true); err != nil {
		return fmt.Errorf("conv1d: %w", err)
	}
	return nil
}

func (l *Conv1D) Config() (component.Params, error) {
	return component.Params{
		"filters":     l.Filters,
		"kernel_size": l.KernelSize,
		"strides":     l.Strides,
		"padding":     l.Padding,
		"activation":  l.Activation,
		"use_bias":    l.UseBias,
		"name":        l.Name,
	}, nil
}

// Conv2D is a spatial convolution over images.
type Conv2D struct {
	Filters    int    `mapstructure:"filters"`
	KernelSize []int  `mapstructure:"kernel_size"`
	Strides    []int  `mapstructure:"strides"`
	Padding    string `mapstructure:"padding"`
	Activation string `mapstructure:"activation"`
	UseBias    bool   `mapstructure:"use_bias"`
	Name       string `mapstructure:"name"`
}

func (l *Conv2D) Kind() string { return "Conv2D" }

func (l *Conv2D) Defaults() {
	l.Strides = []int{1, 1}
	l.Padding = "valid"
	l.UseBias = true
}

func (l *Conv2D) Validate() error {
	if l.Filters <= 0 {
		return fmt.Errorf("conv2d: filters must be positive, got %d", l.Filters)
	}
	if len(l.KernelSize) != 2 {
		return fmt.Errorf("conv2d: kernel_size must have rank 2, got %v", l.KernelSize)
	}
	if err := validPadding(l.Padding, false); err != nil {
		return fmt.Errorf("conv2d: %w", err)
	}
	return nil
}

func (l *Conv2D) Config() (component.Params, error) {
	return component.Params{
		"filters":     l.Filters,
		"kernel_size": l.KernelSize,
		"strides":     l.Strides,
		"padding":     l.Padding,
		"activation":  l.Activation,
		"use_bias":    l.UseBias,
		"name":        l.Name,
	}, nil
}

// Convolutional returns the namespace of convolution layers.
func Convolutional() registry.Namespace {
	return registry.Namespace{
		Name: "convolutional",
		Bindings: []registry.Binding{
			{Name: "Conv1D", Value: component.Describe("Conv1D", "Temporal convolution.", component.Build[Conv1D])},
			{Name: "Conv2D", Value: component.Describe("Conv2D", "Spatial convolution over images.", component.Build[Conv2D])},
		},
	}
}
