package builtins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/feature"
	"github.com/strataml/strata/internal/layers"
	layersv2 "github.com/strataml/strata/internal/layers/v2"
	"github.com/strataml/strata/internal/model"
	"github.com/strataml/strata/internal/premade"
	"github.com/strataml/strata/internal/registry"
)

// === Probe ===

func TestEnvProbe(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run("value="+tc.value, func(t *testing.T) {
			t.Setenv(EnvVar, tc.value)
			require.Equal(t, tc.want, EnvProbe())
		})
	}
}

func TestNew_DefaultsToEnvProbe(t *testing.T) {
	t.Setenv(EnvVar, "true")

	_, cd := New(Options{})
	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag:    "LSTM",
		Params: component.Params{"units": 8},
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &layersv2.LSTM{}, built)
}

// === Round-trip ===

func TestRoundTrip_AcrossCatalog(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})
	ctx := context.Background()

	cases := []struct {
		name string
		comp component.Component
	}{
		{"dense", &layers.Dense{Units: 64, Activation: "relu", UseBias: true, Name: "head"}},
		{"dropout", &layers.Dropout{Rate: 0.5, Seed: 7}},
		{"batch_norm", &layers.BatchNormalization{Axis: -1, Momentum: 0.99, Epsilon: 1e-3, Center: true, Scale: true}},
		{"lstm_v1", &layers.LSTM{Units: 16, Activation: "tanh", RecurrentActivation: "hard_sigmoid", UseBias: true, Implementation: 1}},
		{"concatenate", &layers.Concatenate{Axis: -1}},
		{"input_spec", &model.InputSpec{DType: "float32", NDim: 4}},
		{"linear_model", &premade.LinearModel{Units: 1, UseBias: true}},
		{"wrapper", &layers.TimeDistributed{
			Layer: &layers.Dense{Units: 4, UseBias: true},
			Name:  "td",
		}},
		{"sequential", &model.Sequential{
			Name: "net",
			Layers: []component.Component{
				&layers.Dense{Units: 32, Activation: "relu", UseBias: true},
				&layers.Dropout{Rate: 0.25},
				&layers.Dense{Units: 10, Activation: "softmax", UseBias: true},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := cd.Serialize(ctx, tc.comp)
			require.NoError(t, err)

			rebuilt, err := cd.Deserialize(ctx, spec, nil)
			require.NoError(t, err)
			require.Equal(t, tc.comp, rebuilt)
		})
	}
}

// === Override precedence ===

type customDense struct {
	Units int `mapstructure:"units"`
}

func (c *customDense) Kind() string { return "Dense" }
func (c *customDense) Config() (component.Params, error) {
	return component.Params{"units": c.Units}, nil
}

func TestDeserialize_CustomObjectsShadowBuiltins(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag:    "Dense",
		Params: component.Params{"units": 3},
	}, codec.CustomObjects{"Dense": component.Build[customDense]})
	require.NoError(t, err)
	require.IsType(t, &customDense{}, built)
	require.Equal(t, 3, built.(*customDense).Units)
}

// === Recursive resolution ===

func TestDeserialize_NestedRecordBecomesLiveComponent(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag: "TimeDistributed",
		Params: component.Params{
			"layer": map[string]any{
				"tag":    "Dense",
				"params": map[string]any{"units": 4},
			},
		},
	}, nil)
	require.NoError(t, err)

	td := built.(*layers.TimeDistributed)
	inner, ok := td.Layer.(*layers.Dense)
	require.True(t, ok, "nested record should resolve to a live layer")
	require.Equal(t, 4, inner.Units)
}

func TestDeserialize_CustomObjectsApplyAtEveryDepth(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag: "TimeDistributed",
		Params: component.Params{
			"layer": map[string]any{
				"tag":    "Dense",
				"params": map[string]any{"units": 4},
			},
		},
	}, codec.CustomObjects{"Dense": component.Build[customDense]})
	require.NoError(t, err)

	td := built.(*layers.TimeDistributed)
	require.IsType(t, &customDense{}, td.Layer)
}

// === Aliases ===

func TestAliases_LegacyTagsShareTheCanonicalDescriptor(t *testing.T) {
	reg, _ := New(Options{Probe: func() bool { return false }})
	require.NoError(t, reg.Ensure())

	canonical, ok := reg.Resolve("BatchNormalization")
	require.True(t, ok)

	for _, legacy := range []string{"BatchNormalizationV1", "BatchNormalizationV2"} {
		entry, ok := reg.Resolve(legacy)
		require.True(t, ok, legacy)
		require.Same(t, canonical.Descriptor, entry.Descriptor)
		require.Equal(t, registry.SourceAlias, entry.Source)
	}
}

func TestDeserialize_LegacyTagBuildsCanonicalKind(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag:    "BatchNormalizationV1",
		Params: component.Params{"axis": -1},
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &layers.BatchNormalization{}, built)
	require.Equal(t, "BatchNormalization", built.Kind())
}

// === Unknown tags ===

func TestDeserialize_UnknownTagNamesTagAndLabel(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	_, err := cd.Deserialize(context.Background(), component.Spec{Tag: "NoSuchType"}, nil)
	require.Error(t, err)

	var unknown *codec.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "NoSuchType", unknown.Name)
	require.Equal(t, Label, unknown.Label)
}

// === Mode-sensitive rebuild ===

func TestModeFlip_SwapsOverriddenKinds(t *testing.T) {
	mode := false
	_, cd := New(Options{Probe: func() bool { return mode }})
	ctx := context.Background()

	lstmSpec := component.Spec{Tag: "LSTM", Params: component.Params{"units": 8}}

	built, err := cd.Deserialize(ctx, lstmSpec, nil)
	require.NoError(t, err)
	v1 := built.(*layers.LSTM)
	require.Equal(t, "hard_sigmoid", v1.RecurrentActivation)
	require.Equal(t, 1, v1.Implementation)

	mode = true

	built, err = cd.Deserialize(ctx, lstmSpec, nil)
	require.NoError(t, err)
	v2 := built.(*layersv2.LSTM)
	require.Equal(t, "sigmoid", v2.RecurrentActivation)
	require.Equal(t, 2, v2.Implementation)
}

func TestModeFlip_SwapsLateBoundProviders(t *testing.T) {
	mode := false
	_, cd := New(Options{Probe: func() bool { return mode }})
	ctx := context.Background()

	spec := component.Spec{
		Tag:    "DenseFeatures",
		Params: component.Params{"columns": []any{"age", "income"}},
	}

	built, err := cd.Deserialize(ctx, spec, nil)
	require.NoError(t, err)
	require.IsType(t, &feature.GraphDenseFeatures{}, built)

	mode = true

	built, err = cd.Deserialize(ctx, spec, nil)
	require.NoError(t, err)
	require.IsType(t, &feature.DenseFeatures{}, built)
}

// === Idempotent population ===

func TestEnsure_SecondCallKeepsEntryIdentity(t *testing.T) {
	reg, _ := New(Options{Probe: func() bool { return false }})

	require.NoError(t, reg.Ensure())
	before, ok := reg.Resolve("Dense")
	require.True(t, ok)
	count := reg.Len()

	require.NoError(t, reg.Ensure())
	after, ok := reg.Resolve("Dense")
	require.True(t, ok)

	require.Same(t, before.Descriptor, after.Descriptor)
	require.Equal(t, count, reg.Len())
}

// === Late-bound providers ===

func TestLateBound_ContainerKindsResolve(t *testing.T) {
	reg, _ := New(Options{Probe: func() bool { return false }})
	require.NoError(t, reg.Ensure())

	for _, name := range []string{"Input", "InputSpec", "Functional", "Model", "Sequential", "LinearModel", "WideDeepModel", "SequenceFeatures", "DenseFeatures"} {
		entry, ok := reg.Resolve(name)
		require.True(t, ok, name)
		require.Equal(t, registry.SourceDeferred, entry.Source, name)
	}

	functional, _ := reg.Resolve("Functional")
	alias, _ := reg.Resolve("Model")
	require.Same(t, functional.Descriptor, alias.Descriptor, "Model records deserialize as layer graphs")
}

func TestLateBound_InputBuildsAnInputLayer(t *testing.T) {
	_, cd := New(Options{Probe: func() bool { return false }})

	built, err := cd.Deserialize(context.Background(), component.Spec{
		Tag:    "Input",
		Params: component.Params{"shape": []any{28, 28}, "name": "pixels"},
	}, nil)
	require.NoError(t, err)

	in := built.(*layers.InputLayer)
	require.Equal(t, []int{28, 28}, in.Shape)
	require.Equal(t, "float32", in.DType)
}

// === Shortcuts ===

func TestShortcuts_LowercaseMergeFunctionsResolve(t *testing.T) {
	reg, cd := New(Options{Probe: func() bool { return false }})
	require.NoError(t, reg.Ensure())

	entry, ok := reg.Resolve("add")
	require.True(t, ok)
	require.Equal(t, registry.SourceShortcut, entry.Source)

	built, err := cd.Deserialize(context.Background(), component.Spec{Tag: "add"}, nil)
	require.NoError(t, err)
	require.IsType(t, &layers.Add{}, built)
}

// === Kind packs ===

func TestPackDirs_DerivedKindsJoinTheCatalog(t *testing.T) {
	dir := t.TempDir()
	manifest := `
kinds:
  - name: ReluDense
    target: Dense
    doc: Dense with relu baked in.
    params:
      activation: relu
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(manifest), 0o600))

	_, cd := New(Options{Probe: func() bool { return false }, PackDirs: []string{dir}})
	ctx := context.Background()

	built, err := cd.Deserialize(ctx, component.Spec{
		Tag:    "ReluDense",
		Params: component.Params{"units": 32},
	}, nil)
	require.NoError(t, err)

	d := built.(*layers.Dense)
	require.Equal(t, 32, d.Units)
	require.Equal(t, "relu", d.Activation)
	require.True(t, d.UseBias)

	spec, err := cd.Serialize(ctx, built)
	require.NoError(t, err)
	require.Equal(t, "Dense", spec.Tag, "derived kinds normalize to their target tag")
}
