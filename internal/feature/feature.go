// Package feature holds the feature-column input kinds. DenseFeatures is
// mode-conditional: population binds the graph flavor under legacy mode
// and the eager flavor under v2.
package feature

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// DenseFeatures produces a dense tensor from feature columns.
type DenseFeatures struct {
	Columns   []string `mapstructure:"columns"`
	Trainable bool     `mapstructure:"trainable"`
	Name      string   `mapstructure:"name"`
}

func (l *DenseFeatures) Kind() string { return "DenseFeatures" }

func (l *DenseFeatures) Defaults() { l.Trainable = true }

func (l *DenseFeatures) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("dense_features: columns is required")
	}
	return nil
}

func (l *DenseFeatures) Config() (component.Params, error) {
	return component.Params{
		"columns":   l.Columns,
		"trainable": l.Trainable,
		"name":      l.Name,
	}, nil
}

// GraphDenseFeatures is the legacy graph-mode flavor of DenseFeatures.
// It serializes under the same tag.
type GraphDenseFeatures struct {
	Columns     []string `mapstructure:"columns"`
	Partitioner string   `mapstructure:"partitioner"`
	Name        string   `mapstructure:"name"`
}

func (l *GraphDenseFeatures) Kind() string { return "DenseFeatures" }

func (l *GraphDenseFeatures) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("dense_features: columns is required")
	}
	return nil
}

func (l *GraphDenseFeatures) Config() (component.Params, error) {
	return component.Params{
		"columns":     l.Columns,
		"partitioner": l.Partitioner,
		"name":        l.Name,
	}, nil
}

// SequenceFeatures produces a sequence tensor from feature columns.
type SequenceFeatures struct {
	Columns []string `mapstructure:"columns"`
	Name    string   `mapstructure:"name"`
}

func (l *SequenceFeatures) Kind() string { return "SequenceFeatures" }

func (l *SequenceFeatures) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("sequence_features: columns is required")
	}
	return nil
}

func (l *SequenceFeatures) Config() (component.Params, error) {
	return component.Params{
		"columns": l.Columns,
		"name":    l.Name,
	}, nil
}

// Source returns the deferred bindings for the feature-column kinds.
// The DenseFeatures flavor is chosen by the mode flag at population time.
func Source() registry.DeferredSource {
	return func(v2 bool) ([]registry.Binding, error) {
		bindings := []registry.Binding{
			{Name: "SequenceFeatures", Value: component.Describe("SequenceFeatures", "Sequence tensor from feature columns.", component.Build[SequenceFeatures])},
		}
		if v2 {
			bindings = append(bindings, registry.Binding{
				Name:  "DenseFeatures",
				Value: component.Describe("DenseFeatures", "Dense tensor from feature columns.", component.Build[DenseFeatures]),
			})
		} else {
			bindings = append(bindings, registry.Binding{
				Name:  "DenseFeatures",
				Value: component.Describe("DenseFeatures", "Dense tensor from feature columns (graph mode).", component.Build[GraphDenseFeatures]),
			})
		}
		return bindings, nil
	}
}
