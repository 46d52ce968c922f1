// Package v2 holds the layer kinds that replace their baseline
// counterparts when v2 mode is active. Kinds here reuse the baseline
// names on purpose: population merges them over the baseline table.
package v2

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// BatchNormalization is the fused batch normalization variant.
type BatchNormalization struct {
	Axis     int     `mapstructure:"axis"`
	Momentum float64 `mapstructure:"momentum"`
	Epsilon  float64 `mapstructure:"epsilon"`
	Center   bool    `mapstructure:"center"`
	Scale    bool    `mapstructure:"scale"`
	Fused    bool    `mapstructure:"fused"`
	Name     string  `mapstructure:"name"`
}

func (l *BatchNormalization) Kind() string { return "BatchNormalization" }

func (l *BatchNormalization) Defaults() {
	l.Axis = -1
	l.Momentum = 0.99
	l.Epsilon = 1e-3
	l.Center = true
	l.Scale = true
	l.Fused = true
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
		"fused":    l.Fused,
		"name":     l.Name,
	}, nil
}

// LSTM is the unified long short-term memory variant.
type LSTM struct {
	Units               int    `mapstructure:"units"`
	Activation          string `mapstructure:"activation"`
	RecurrentActivation string `mapstructure:"recurrent_activation"`
	UseBias             bool   `mapstructure:"use_bias"`
	ReturnSequences     bool   `mapstructure:"return_sequences"`
	ReturnState         bool   `mapstructure:"return_state"`
	Implementation      int    `mapstructure:"implementation"`
	Name                string `mapstructure:"name"`
}

func (l *LSTM) Kind() string { return "LSTM" }

func (l *LSTM) Defaults() {
	l.Activation = "tanh"
	l.RecurrentActivation = "sigmoid"
	l.UseBias = true
	l.Implementation = 2
}

func (l *LSTM) Validate() error {
	if l.Units <= 0 {
		return fmt.Errorf("lstm: units must be positive, got %d", l.Units)
	}
	return nil
}

func (l *LSTM) Config() (component.Params, error) {
	return component.Params{
		"units":                l.Units,
		"activation":           l.Activation,
		"recurrent_activation": l.RecurrentActivation,
		"use_bias":             l.UseBias,
		"return_sequences":     l.ReturnSequences,
		"return_state":         l.ReturnState,
		"implementation":       l.Implementation,
		"name":                 l.Name,
	}, nil
}

// GRU is the unified gated recurrent unit variant.
type GRU struct {
	Units               int    `mapstructure:"units"`
	Activation          string `mapstructure:"activation"`
	RecurrentActivation string `mapstructure:"recurrent_activation"`
	UseBias             bool   `mapstructure:"use_bias"`
	ReturnSequences     bool   `mapstructure:"return_sequences"`
	ResetAfter          bool   `mapstructure:"reset_after"`
	Implementation      int    `mapstructure:"implementation"`
	Name                string `mapstructure:"name"`
}

func (l *GRU) Kind() string { return "GRU" }

func (l *GRU) Defaults() {
	l.Activation = "tanh"
	l.RecurrentActivation = "sigmoid"
	l.UseBias = true
	l.ResetAfter = true
	l.Implementation = 2
}

func (l *GRU) Validate() error {
	if l.Units <= 0 {
		return fmt.Errorf("gru: units must be positive, got %d", l.Units)
	}
	return nil
}

func (l *GRU) Config() (component.Params, error) {
	return component.Params{
		"units":                l.Units,
		"activation":           l.Activation,
		"recurrent_activation": l.RecurrentActivation,
		"use_bias":             l.UseBias,
		"return_sequences":     l.ReturnSequences,
		"reset_after":          l.ResetAfter,
		"implementation":       l.Implementation,
		"name":                 l.Name,
	}, nil
}

// Normalization is the preprocessing normalization variant that accepts
// precomputed statistics.
type Normalization struct {
	Axis     int       `mapstructure:"axis"`
	Mean     []float64 `mapstructure:"mean"`
	Variance []float64 `mapstructure:"variance"`
	Name     string    `mapstructure:"name"`
}

func (l *Normalization) Kind() string { return "Normalization" }

func (l *Normalization) Defaults() { l.Axis = -1 }

func (l *Normalization) Validate() error {
	if len(l.Mean) != len(l.Variance) {
		return fmt.Errorf("normalization: mean and variance must have the same length, got %d and %d",
			len(l.Mean), len(l.Variance))
	}
	return nil
}

func (l *Normalization) Config() (component.Params, error) {
	return component.Params{
		"axis":     l.Axis,
		"mean":     l.Mean,
		"variance": l.Variance,
		"name":     l.Name,
	}, nil
}

// StringLookup is the vocabulary lookup variant with inversion support.
type StringLookup struct {
	MaxTokens     int    `mapstructure:"max_tokens"`
	NumOOVIndices int    `mapstructure:"num_oov_indices"`
	MaskToken     string `mapstructure:"mask_token"`
	Invert        bool   `mapstructure:"invert"`
	Encoding      string `mapstructure:"encoding"`
	Name          string `mapstructure:"name"`
}

func (l *StringLookup) Kind() string { return "StringLookup" }

func (l *StringLookup) Defaults() {
	l.NumOOVIndices = 1
	l.Encoding = "utf-8"
}

func (l *StringLookup) Validate() error {
	if l.NumOOVIndices < 0 {
		return fmt.Errorf("string_lookup: num_oov_indices must be non-negative, got %d", l.NumOOVIndices)
	}
	return nil
}

func (l *StringLookup) Config() (component.Params, error) {
	return component.Params{
		"max_tokens":      l.MaxTokens,
		"num_oov_indices": l.NumOOVIndices,
		"mask_token":      l.MaskToken,
		"invert":          l.Invert,
		"encoding":        l.Encoding,
		"name":            l.Name,
	}, nil
}

// Overrides returns the v2 namespaces in population order. They merge
// over the baseline table when the mode probe reports v2.
func Overrides() []registry.Namespace {
	return []registry.Namespace{
		{
			Name: "normalization_v2",
			Bindings: []registry.Binding{
				{Name: "BatchNormalization", Value: component.Describe("BatchNormalization", "Fused batch normalization.", component.Build[BatchNormalization])},
			},
		},
		{
			Name: "recurrent_v2",
			Bindings: []registry.Binding{
				{Name: "LSTM", Value: component.Describe("LSTM", "Unified LSTM with runtime kernel selection.", component.Build[LSTM])},
				{Name: "GRU", Value: component.Describe("GRU", "Unified GRU with runtime kernel selection.", component.Build[GRU])},
			},
		},
		{
			Name: "preprocessing_v2",
			Bindings: []registry.Binding{
				{Name: "Normalization", Value: component.Describe("Normalization", "Feature normalization with precomputed statistics.", component.Build[Normalization])},
				{Name: "StringLookup", Value: component.Describe("StringLookup", "Vocabulary lookup with inversion support.", component.Build[StringLookup])},
			},
		},
	}
}
