// Package layers is the built-in kind catalog. Each layer is a plain
// config struct implementing component.Component; the namespaces in this
// package feed the registry's baseline population phase.
package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// InputLayer declares the shape and dtype of a graph entry point.
type InputLayer struct {
	Shape []int  `mapstructure:"shape"`
	DType string `mapstructure:"dtype"`
	Name  string `mapstructure:"name"`
}

func (l *InputLayer) Kind() string { return "InputLayer" }

func (l *InputLayer) Defaults() { l.DType = "float32" }

func (l *InputLayer) Config() (component.Params, error) {
	return component.Params{
		"shape": l.Shape,
		"dtype": l.DType,
		"name":  l.Name,
	}, nil
}

// Dense is a fully connected transform.
type Dense struct {
	Units      int    `mapstructure:"units"`
	Activation string `mapstructure:"activation"`
	UseBias    bool   `mapstructure:"use_bias"`
	Name       string `mapstructure:"name"`
}

func (l *Dense) Kind() string { return "Dense" }

func (l *Dense) Defaults() { l.UseBias = true }

func (l *Dense) Validate() error {
	if l.Units <= 0 {
		return fmt.Errorf("dense: units must be positive, got %d", l.Units)
	}
	return nil
}

func (l *Dense) Config() (component.Params, error) {
	return component.Params{
		"units":      l.Units,
		"activation": l.Activation,
		"use_bias":   l.UseBias,
		"name":       l.Name,
	}, nil
}

// Dropout randomly zeroes a fraction of its inputs during training.
type Dropout struct {
	Rate float64 `mapstructure:"rate"`
	Seed int     `mapstructure:"seed"`
	Name string  `mapstructure:"name"`
}

func (l *Dropout) Kind() string { return "Dropout" }

func (l *Dropout) Validate() error {
	if l.Rate < 0 || l.Rate >= 1 {
		return fmt.Errorf("dropout: rate must be in [0, 1), got %v", l.Rate)
	}
	return nil
}

func (l *Dropout) Config() (component.Params, error) {
	return component.Params{
		"rate": l.Rate,
		"seed": l.Seed,
		"name": l.Name,
	}, nil
}

// Activation applies a named activation function.
type Activation struct {
	Function string `mapstructure:"activation"`
	Name     string `mapstructure:"name"`
}

func (l *Activation) Kind() string { return "Activation" }

func (l *Activation) Validate() error {
	if l.Function == "" {
		return fmt.Errorf("activation: activation function is required")
	}
	return nil
}

func (l *Activation) Config() (component.Params, error) {
	return component.Params{
		"activation": l.Function,
		"name":       l.Name,
	}, nil
}

// Flatten collapses all non-batch dimensions.
type Flatten struct {
	DataFormat string `mapstructure:"data_format"`
	Name       string `mapstructure:"name"`
}

func (l *Flatten) Kind() string { return "Flatten" }

func (l *Flatten) Config() (component.Params, error) {
	return component.Params{
		"data_format": l.DataFormat,
		"name":        l.Name,
	}, nil
}

// Reshape rearranges its input into a target shape.
type Reshape struct {
	TargetShape []int  `mapstructure:"target_shape"`
	Name        string `mapstructure:"name"`
}

func (l *Reshape) Kind() string { return "Reshape" }

func (l *Reshape) Validate() error {
	if len(l.TargetShape) == 0 {
		return fmt.Errorf("reshape: target_shape is required")
	}
	return nil
}

func (l *Reshape) Config() (component.Params, error) {
	return component.Params{
		"target_shape": l.TargetShape,
		"name":         l.Name,
	}, nil
}

// RepeatVector repeats its input n times along a new axis.
type RepeatVector struct {
	N    int    `mapstructure:"n"`
	Name string `mapstructure:"name"`
}

func (l *RepeatVector) Kind() string { return "RepeatVector" }

func (l *RepeatVector) Validate() error {
	if l.N <= 0 {
		return fmt.Errorf("repeat_vector: n must be positive, got %d", l.N)
	}
	return nil
}

func (l *RepeatVector) Config() (component.Params, error) {
	return component.Params{
		"n":    l.N,
		"name": l.Name,
	}, nil
}

// Masking skips timesteps equal to the mask value.
type Masking struct {
	MaskValue float64 `mapstructure:"mask_value"`
	Name      string  `mapstructure:"name"`
}

func (l *Masking) Kind() string { return "Masking" }

func (l *Masking) Config() (component.Params, error) {
	return component.Params{
		"mask_value": l.MaskValue,
		"name":       l.Name,
	}, nil
}

// Core returns the namespace of structural layers.
func Core() registry.Namespace {
	return registry.Namespace{
		Name: "core",
		Bindings: []registry.Binding{
			{Name: "InputLayer", Value: component.Describe("InputLayer", "Entry point declaring shape and dtype.", component.Build[InputLayer])},
			{Name: "Activation", Value: component.Describe("Activation", "Applies a named activation function.", component.Build[Activation])},
			{Name: "Dense", Value: component.Describe("Dense", "Fully connected layer: `output = activation(dot(input, kernel) + bias)`.", component.Build[Dense])},
			{Name: "Dropout", Value: component.Describe("Dropout", "Randomly zeroes a fraction of inputs during training.", component.Build[Dropout])},
			{Name: "Flatten", Value: component.Describe("Flatten", "Collapses all non-batch dimensions.", component.Build[Flatten])},
			{Name: "Masking", Value: component.Describe("Masking", "Skips timesteps equal to `mask_value`.", component.Build[Masking])},
			{Name: "RepeatVector", Value: component.Describe("RepeatVector", "Repeats the input `n` times.", component.Build[RepeatVector])},
			{Name: "Reshape", Value: component.Describe("Reshape", "Rearranges the input into `target_shape`.", component.Build[Reshape])},
		},
	}
}
