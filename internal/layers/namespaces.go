package layers

import (
	"github.com/strataml/strata/internal/layers/preprocessing"
	"github.com/strataml/strata/internal/registry"
)

// Baseline returns every built-in namespace in population order. Later
// namespaces win name collisions, so the order is part of the contract.
func Baseline() []registry.Namespace {
	return []registry.Namespace{
		Activations(),
		Convolutional(),
		Core(),
		Embeddings(),
		Merge(),
		Noise(),
		Normalization(),
		Pooling(),
		preprocessing.Namespace(),
		Recurrent(),
		Wrappers(),
	}
}
