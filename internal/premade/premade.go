// Package premade holds ready-made model kinds built from the container
// and layer primitives.
package premade

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// LinearModel is a regression or classification head over flat features.
type LinearModel struct {
	Units      int    `mapstructure:"units"`
	Activation string `mapstructure:"activation"`
	UseBias    bool   `mapstructure:"use_bias"`
	Name       string `mapstructure:"name"`
}

func (m *LinearModel) Kind() string { return "LinearModel" }

func (m *LinearModel) Defaults() {
	m.Units = 1
	m.UseBias = true
}

func (m *LinearModel) Validate() error {
	if m.Units <= 0 {
		return fmt.Errorf("linear_model: units must be positive, got %d", m.Units)
	}
	return nil
}

func (m *LinearModel) Config() (component.Params, error) {
	return component.Params{
		"units":      m.Units,
		"activation": m.Activation,
		"use_bias":   m.UseBias,
		"name":       m.Name,
	}, nil
}

// WideDeepModel jointly trains a linear model and a deep model.
// Both sub-models arrive as already-resolved components.
type WideDeepModel struct {
	Linear     component.Component `mapstructure:"-"`
	DNN        component.Component `mapstructure:"-"`
	Activation string              `mapstructure:"activation"`
	Name       string              `mapstructure:"name"`
}

func (m *WideDeepModel) Kind() string { return "WideDeepModel" }

func (m *WideDeepModel) Config() (component.Params, error) {
	linear, err := component.SpecOf(m.Linear)
	if err != nil {
		return nil, fmt.Errorf("wide_deep_model: linear_model: %w", err)
	}
	dnn, err := component.SpecOf(m.DNN)
	if err != nil {
		return nil, fmt.Errorf("wide_deep_model: dnn_model: %w", err)
	}
	return component.Params{
		"linear_model": linear,
		"dnn_model":    dnn,
		"activation":   m.Activation,
		"name":         m.Name,
	}, nil
}

func buildWideDeep(p component.Params) (component.Component, error) {
	var m WideDeepModel
	if err := component.DecodeParams(p, &m); err != nil {
		return nil, err
	}
	linear, err := component.Child(p, "linear_model")
	if err != nil {
		return nil, fmt.Errorf("wide_deep_model: %w", err)
	}
	dnn, err := component.Child(p, "dnn_model")
	if err != nil {
		return nil, fmt.Errorf("wide_deep_model: %w", err)
	}
	m.Linear = linear
	m.DNN = dnn
	return &m, nil
}

// Source returns the deferred bindings for the premade model kinds.
func Source() registry.DeferredSource {
	return func(v2 bool) ([]registry.Binding, error) {
		return []registry.Binding{
			{Name: "LinearModel", Value: component.Describe("LinearModel", "Linear head over flat features.", component.Build[LinearModel])},
			{Name: "WideDeepModel", Value: component.Describe("WideDeepModel", "Jointly trained wide and deep sub-models.", buildWideDeep)},
		}, nil
	}
}
