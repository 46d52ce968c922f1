package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/layers"
	"github.com/strataml/strata/internal/registry"
)

func TestSequential_BuildsFromResolvedChildren(t *testing.T) {
	dense := &layers.Dense{Units: 4, UseBias: true}
	dropout := &layers.Dropout{Rate: 0.5}

	c, err := buildSequential(component.Params{
		"name":   "mlp",
		"layers": []any{dense, dropout},
	})
	require.NoError(t, err)

	m := c.(*Sequential)
	require.Equal(t, "mlp", m.Name)
	require.Len(t, m.Layers, 2)
	require.Same(t, dense, m.Layers[0])
	require.Same(t, dropout, m.Layers[1])
}

func TestSequential_EmptyStackIsAllowed(t *testing.T) {
	c, err := buildSequential(component.Params{"name": "empty"})
	require.NoError(t, err)
	require.Empty(t, c.(*Sequential).Layers)
}

func TestSequential_ConfigNestsLayerSpecs(t *testing.T) {
	m := &Sequential{
		Name: "mlp",
		Layers: []component.Component{
			&layers.Dense{Units: 4, UseBias: true},
			&layers.Dropout{Rate: 0.5},
		},
	}

	params, err := m.Config()
	require.NoError(t, err)
	require.Equal(t, "mlp", params["name"])

	specs := params["layers"].([]any)
	require.Len(t, specs, 2)
	require.Equal(t, "Dense", specs[0].(component.Spec).Tag)
	require.Equal(t, "Dropout", specs[1].(component.Spec).Tag)
}

func TestFunctional_ConfigCarriesGraphEndpoints(t *testing.T) {
	m := &Functional{
		Name:         "graph",
		Layers:       []component.Component{&layers.InputLayer{Shape: []int{8}, DType: "float32", Name: "in"}},
		InputLayers:  []string{"in"},
		OutputLayers: []string{"out"},
	}

	params, err := m.Config()
	require.NoError(t, err)
	require.Equal(t, []string{"in"}, params["input_layers"])
	require.Equal(t, []string{"out"}, params["output_layers"])
}

func TestInput_BuildsAnInputLayer(t *testing.T) {
	c, err := Input(component.Params{"shape": []any{32}, "name": "in"})
	require.NoError(t, err)

	in, ok := c.(*layers.InputLayer)
	require.True(t, ok, "Input constructs the InputLayer kind")
	require.Equal(t, []int{32}, in.Shape)
	require.Equal(t, "float32", in.DType)
}

func TestSource_ModelSharesFunctionalDescriptor(t *testing.T) {
	reg := registry.New(registry.Config{
		Probe:    func() bool { return false },
		Deferred: []registry.DeferredSource{Source()},
	})
	require.NoError(t, reg.Ensure())

	functional, ok := reg.Resolve("Functional")
	require.True(t, ok)
	model, ok := reg.Resolve("Model")
	require.True(t, ok)

	require.Same(t, functional.Descriptor, model.Descriptor,
		"Model records deserialize as layer graphs")

	input, ok := reg.Resolve("Input")
	require.True(t, ok)
	require.Nil(t, input.Descriptor, "Input registers as a bare builder")
	require.Equal(t, registry.SourceDeferred, input.Source)

	for _, name := range []string{"InputSpec", "Sequential"} {
		_, ok := reg.Resolve(name)
		require.True(t, ok, "%s should be registered", name)
	}
}
