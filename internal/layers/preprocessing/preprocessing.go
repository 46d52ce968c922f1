// Package preprocessing holds the feature preprocessing layer kinds.
// They live in their own namespace so mode overrides can swap them
// wholesale.
package preprocessing

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// Normalization shifts and scales features to zero mean, unit variance.
type Normalization struct {
	Axis int    `mapstructure:"axis"`
	Name string `mapstructure:"name"`
}

func (l *Normalization) Kind() string { return "Normalization" }

func (l *Normalization) Defaults() { l.Axis = -1 }

func (l *Normalization) Config() (component.Params, error) {
	return component.Params{
		"axis": l.Axis,
		"name": l.Name,
	}, nil
}

// StringLookup maps strings to integer indices through a vocabulary.
type StringLookup struct {
	MaxTokens     int    `mapstructure:"max_tokens"`
	NumOOVIndices int    `mapstructure:"num_oov_indices"`
	MaskToken     string `mapstructure:"mask_token"`
	Name          string `mapstructure:"name"`
}

func (l *StringLookup) Kind() string { return "StringLookup" }

func (l *StringLookup) Defaults() {
	l.NumOOVIndices = 1
	l.MaskToken = ""
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
		"name":            l.Name,
	}, nil
}

// Namespace returns the preprocessing layer namespace.
func Namespace() registry.Namespace {
	return registry.Namespace{
		Name: "preprocessing",
		Bindings: []registry.Binding{
			{Name: "Normalization", Value: component.Describe("Normalization", "Shifts and scales features to zero mean, unit variance.", component.Build[Normalization])},
			{Name: "StringLookup", Value: component.Describe("StringLookup", "Maps strings to integer indices through a vocabulary.", component.Build[StringLookup])},
		},
	}
}
