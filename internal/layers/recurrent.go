package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// SimpleRNN is a fully connected recurrent layer.
type SimpleRNN struct {
	Units           int    `mapstructure:"units"`
	Activation      string `mapstructure:"activation"`
	UseBias         bool   `mapstructure:"use_bias"`
	ReturnSequences bool   `mapstructure:"return_sequences"`
	Name            string `mapstructure:"name"`
}

func (l *SimpleRNN) Kind() string { return "SimpleRNN" }

func (l *SimpleRNN) Defaults() {
	l.Activation = "tanh"
	l.UseBias = true
}

func (l *SimpleRNN) Validate() error {
	if l.Units <= 0 {
		return fmt.Errorf("simple_rnn: units must be positive, got %d", l.Units)
	}
	return nil
}

func (l *SimpleRNN) Config() (component.Params, error) {
	return component.Params{
		"units":            l.Units,
		"activation":       l.Activation,
		"use_bias":         l.UseBias,
		"return_sequences": l.ReturnSequences,
		"name":             l.Name,
	}, nil
}

// LSTM is the long short-term memory layer.
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
	l.RecurrentActivation = "hard_sigmoid"
	l.UseBias = true
	l.Implementation = 1
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

// GRU is the gated recurrent unit layer.
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
	l.RecurrentActivation = "hard_sigmoid"
	l.UseBias = true
	l.Implementation = 1
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

// Recurrent returns the namespace of recurrent layers.
func Recurrent() registry.Namespace {
	return registry.Namespace{
		Name: "recurrent",
		Bindings: []registry.Binding{
			{Name: "SimpleRNN", Value: component.Describe("SimpleRNN", "Fully connected recurrent layer.", component.Build[SimpleRNN])},
			{Name: "LSTM", Value: component.Describe("LSTM", "Long short-term memory layer.", component.Build[LSTM])},
			{Name: "GRU", Value: component.Describe("GRU", "Gated recurrent unit layer.", component.Build[GRU])},
		},
	}
}
