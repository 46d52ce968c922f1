package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// Embedding maps integer indices into dense vectors.
type Embedding struct {
	InputDim    int    `mapstructure:"input_dim"`
	OutputDim   int    `mapstructure:"output_dim"`
	MaskZero    bool   `mapstructure:"mask_zero"`
	InputLength int    `mapstructure:"input_length"`
	Name        string `mapstructure:"name"`
}

func (l *Embedding) Kind() string { return "Embedding" }

func (l *Embedding) Validate() error {
	if l.InputDim <= 0 {
		return fmt.Errorf("embedding: input_dim must be positive, got %d", l.InputDim)
	}
	if l.OutputDim <= 0 {
		return fmt.Errorf("embedding: output_dim must be positive, got %d", l.OutputDim)
	}
	return nil
}

func (l *Embedding) Config() (component.Params, error) {
	return component.Params{
		"input_dim":    l.InputDim,
		"output_dim":   l.OutputDim,
		"mask_zero":    l.MaskZero,
		"input_length": l.InputLength,
		"name":         l.Name,
	}, nil
}

// Embeddings returns the namespace of embedding layers.
func Embeddings() registry.Namespace {
	return registry.Namespace{
		Name: "embeddings",
		Bindings: []registry.Binding{
			{Name: "Embedding", Value: component.Describe("Embedding", "Maps integer indices to dense vectors.", component.Build[Embedding])},
		},
	}
}
