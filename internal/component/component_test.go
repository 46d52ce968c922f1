package component

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubComponent is a minimal Component for exercising SpecOf.
type stubComponent struct {
	kind   string
	params Params
	err    error
}

func (s *stubComponent) Kind() string { return s.kind }

func (s *stubComponent) Config() (Params, error) { return s.params, s.err }

func TestSpecOf_DelegatesToConfig(t *testing.T) {
	c := &stubComponent{kind: "Stub", params: Params{"units": 4}}

	spec, err := SpecOf(c)
	require.NoError(t, err)
	require.Equal(t, "Stub", spec.Tag)
	require.Equal(t, Params{"units": 4}, spec.Params)
}

func TestSpecOf_PropagatesConfigError(t *testing.T) {
	wantErr := errors.New("no config for you")
	c := &stubComponent{kind: "Stub", err: wantErr}

	_, err := SpecOf(c)
	require.ErrorIs(t, err, wantErr, "config failures must propagate unchanged")
}

func TestSpecOf_NilComponent(t *testing.T) {
	_, err := SpecOf(nil)
	require.ErrorIs(t, err, ErrNilComponent)
}

func TestDescribe_BuildsDescriptor(t *testing.T) {
	desc := Describe("Stub", "a stub kind", func(p Params) (Component, error) {
		return &stubComponent{kind: "Stub", params: p}, nil
	})

	require.Equal(t, "Stub", desc.Kind())

	doc, ok := desc.(Documented)
	require.True(t, ok, "Describe descriptors carry docs")
	require.Equal(t, "a stub kind", doc.Doc())

	c, err := desc.New(Params{"x": 1})
	require.NoError(t, err)
	require.Equal(t, "Stub", c.Kind())
}

func TestDecodeParams_WeaklyTyped(t *testing.T) {
	type cfg struct {
		Units      int     `mapstructure:"units"`
		Rate       float64 `mapstructure:"rate"`
		UseBias    bool    `mapstructure:"use_bias"`
		Activation string  `mapstructure:"activation"`
	}

	// JSON decoding hands every number over as float64.
	p := Params{
		"units":      float64(16),
		"rate":       0.5,
		"use_bias":   true,
		"activation": "relu",
	}

	var got cfg
	require.NoError(t, DecodeParams(p, &got))
	require.Equal(t, cfg{Units: 16, Rate: 0.5, UseBias: true, Activation: "relu"}, got)
}

func TestDecodeParams_IgnoresUnknownKeys(t *testing.T) {
	type cfg struct {
		Units int `mapstructure:"units"`
	}

	var got cfg
	err := DecodeParams(Params{"units": 8, "from_the_future": "ignored"}, &got)
	require.NoError(t, err)
	require.Equal(t, 8, got.Units)
}

// hooked exercises the Defaulted and Validated hooks of Build.
type hooked struct {
	Units   int  `mapstructure:"units"`
	UseBias bool `mapstructure:"use_bias"`
}

func (h *hooked) Kind() string { return "Hooked" }

func (h *hooked) Config() (Params, error) {
	return Params{"units": h.Units, "use_bias": h.UseBias}, nil
}

func (h *hooked) Defaults() { h.UseBias = true }

func (h *hooked) Validate() error {
	if h.Units <= 0 {
		return errors.New("units must be positive")
	}
	return nil
}

func TestBuild_AppliesDefaultsThenDecodesThenValidates(t *testing.T) {
	c, err := Build[hooked](Params{"units": 3})
	require.NoError(t, err)

	h := c.(*hooked)
	require.Equal(t, 3, h.Units)
	require.True(t, h.UseBias, "defaults run before decoding")

	c, err = Build[hooked](Params{"units": 3, "use_bias": false})
	require.NoError(t, err)
	require.False(t, c.(*hooked).UseBias, "explicit params override defaults")

	_, err = Build[hooked](Params{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "units must be positive")
}

func TestChild_ExtractsResolvedComponent(t *testing.T) {
	inner := &stubComponent{kind: "Inner"}

	c, err := Child(Params{"layer": inner}, "layer")
	require.NoError(t, err)
	require.Equal(t, "Inner", c.Kind())

	_, err = Child(Params{}, "layer")
	require.Error(t, err)
	require.Contains(t, err.Error(), `missing "layer"`)

	_, err = Child(Params{"layer": "raw"}, "layer")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a component")
}

func TestChildren_ExtractsResolvedSequence(t *testing.T) {
	a := &stubComponent{kind: "A"}
	b := &stubComponent{kind: "B"}

	got, err := Children(Params{"layers": []any{a, b}}, "layers")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Kind())
	require.Equal(t, "B", got[1].Kind())

	got, err = Children(Params{}, "layers")
	require.NoError(t, err)
	require.Empty(t, got, "missing key means no children")

	_, err = Children(Params{"layers": "nope"}, "layers")
	require.Error(t, err)

	_, err = Children(Params{"layers": []any{a, 42}}, "layers")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"layers"[1]`)
}
