package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// TimeDistributed applies a layer to every temporal slice of its input.
// Its child arrives in the parameter bag as an already-resolved component.
type TimeDistributed struct {
	Layer component.Component `mapstructure:"-"`
	Name  string              `mapstructure:"name"`
}

func (l *TimeDistributed) Kind() string { return "TimeDistributed" }

func (l *TimeDistributed) Config() (component.Params, error) {
	layer, err := component.SpecOf(l.Layer)
	if err != nil {
		return nil, fmt.Errorf("time_distributed: %w", err)
	}
	return component.Params{
		"layer": layer,
		"name":  l.Name,
	}, nil
}

func buildTimeDistributed(p component.Params) (component.Component, error) {
	var l TimeDistributed
	if err := component.DecodeParams(p, &l); err != nil {
		return nil, err
	}
	layer, err := component.Child(p, "layer")
	if err != nil {
		return nil, fmt.Errorf("time_distributed: %w", err)
	}
	l.Layer = layer
	return &l, nil
}

// Bidirectional runs a recurrent layer forwards and backwards and merges
// the two passes.
type Bidirectional struct {
	Layer     component.Component `mapstructure:"-"`
	MergeMode string              `mapstructure:"merge_mode"`
	Name      string              `mapstructure:"name"`
}

func (l *Bidirectional) Kind() string { return "Bidirectional" }

func (l *Bidirectional) Defaults() { l.MergeMode = "concat" }

func (l *Bidirectional) Validate() error {
	switch l.MergeMode {
	case "sum", "mul", "concat", "ave":
		return nil
	default:
		return fmt.Errorf("bidirectional: merge_mode must be one of sum, mul, concat, ave: got %q", l.MergeMode)
	}
}

func (l *Bidirectional) Config() (component.Params, error) {
	layer, err := component.SpecOf(l.Layer)
	if err != nil {
		return nil, fmt.Errorf("bidirectional: %w", err)
	}
	return component.Params{
		"layer":      layer,
		"merge_mode": l.MergeMode,
		"name":       l.Name,
	}, nil
}

func buildBidirectional(p component.Params) (component.Component, error) {
	l := Bidirectional{}
	l.Defaults()
	if err := component.DecodeParams(p, &l); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	layer, err := component.Child(p, "layer")
	if err != nil {
		return nil, fmt.Errorf("bidirectional: %w", err)
	}
	l.Layer = layer
	return &l, nil
}

// Wrappers returns the namespace of layer wrappers.
func Wrappers() registry.Namespace {
	return registry.Namespace{
		Name: "wrappers",
		Bindings: []registry.Binding{
			{Name: "TimeDistributed", Value: component.Describe("TimeDistributed", "Applies `layer` to every temporal slice.", buildTimeDistributed)},
			{Name: "Bidirectional", Value: component.Describe("Bidirectional", "Runs `layer` forwards and backwards and merges the passes.", buildBidirectional)},
		},
	}
}
