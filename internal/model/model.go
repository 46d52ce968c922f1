// Package model holds the container kinds: linear stacks, layer graphs,
// and the input declaration helpers. They register through a deferred
// source because containers nest arbitrary layer kinds and must not take
// part in the namespace merge itself.
package model

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/layers"
	"github.com/strataml/strata/internal/registry"
)

// Sequential is a linear stack of layers.
type Sequential struct {
	Layers []component.Component `mapstructure:"-"`
	Name   string                `mapstructure:"name"`
}

func (m *Sequential) Kind() string { return "Sequential" }

func (m *Sequential) Config() (component.Params, error) {
	specs := make([]any, len(m.Layers))
	for i, l := range m.Layers {
		spec, err := component.SpecOf(l)
		if err != nil {
			return nil, fmt.Errorf("sequential: layer %d: %w", i, err)
		}
		specs[i] = spec
	}
	return component.Params{
		"name":   m.Name,
		"layers": specs,
	}, nil
}

func buildSequential(p component.Params) (component.Component, error) {
	var m Sequential
	if err := component.DecodeParams(p, &m); err != nil {
		return nil, err
	}
	children, err := component.Children(p, "layers")
	if err != nil {
		return nil, fmt.Errorf("sequential: %w", err)
	}
	m.Layers = children
	return &m, nil
}

// Functional is a graph of layers with named inputs and outputs.
type Functional struct {
	Layers       []component.Component `mapstructure:"-"`
	InputLayers  []string              `mapstructure:"input_layers"`
	OutputLayers []string              `mapstructure:"output_layers"`
	Name         string                `mapstructure:"name"`
}

func (m *Functional) Kind() string { return "Functional" }

func (m *Functional) Config() (component.Params, error) {
	specs := make([]any, len(m.Layers))
	for i, l := range m.Layers {
		spec, err := component.SpecOf(l)
		if err != nil {
			return nil, fmt.Errorf("functional: layer %d: %w", i, err)
		}
		specs[i] = spec
	}
	return component.Params{
		"name":          m.Name,
		"layers":        specs,
		"input_layers":  m.InputLayers,
		"output_layers": m.OutputLayers,
	}, nil
}

func buildFunctional(p component.Params) (component.Component, error) {
	var m Functional
	if err := component.DecodeParams(p, &m); err != nil {
		return nil, err
	}
	children, err := component.Children(p, "layers")
	if err != nil {
		return nil, fmt.Errorf("functional: %w", err)
	}
	m.Layers = children
	return &m, nil
}

// InputSpec is the shape and dtype contract a layer places on its input.
type InputSpec struct {
	DType   string `mapstructure:"dtype"`
	Shape   []int  `mapstructure:"shape"`
	NDim    int    `mapstructure:"ndim"`
	MinNDim int    `mapstructure:"min_ndim"`
	MaxNDim int    `mapstructure:"max_ndim"`
}

func (s *InputSpec) Kind() string { return "InputSpec" }

func (s *InputSpec) Config() (component.Params, error) {
	return component.Params{
		"dtype":    s.DType,
		"shape":    s.Shape,
		"ndim":     s.NDim,
		"min_ndim": s.MinNDim,
		"max_ndim": s.MaxNDim,
	}, nil
}

// Input is the functional form of InputLayer.
func Input(p component.Params) (component.Component, error) {
	return component.Build[layers.InputLayer](p)
}

// Source returns the deferred bindings for the container kinds.
// Model deliberately shares the Functional descriptor: a Model record
// deserializes as a layer graph.
func Source() registry.DeferredSource {
	return func(v2 bool) ([]registry.Binding, error) {
		functional := component.Describe("Functional", "Graph of layers with named inputs and outputs.", buildFunctional)
		return []registry.Binding{
			{Name: "Input", Value: component.Builder(Input)},
			{Name: "InputSpec", Value: component.Describe("InputSpec", "Shape and dtype contract for a layer input.", component.Build[InputSpec])},
			{Name: "Functional", Value: functional},
			{Name: "Model", Value: functional},
			{Name: "Sequential", Value: component.Describe("Sequential", "Linear stack of layers.", buildSequential)},
		}, nil
	}
}
