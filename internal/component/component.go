// Package component defines the data model shared by the registry and the
// codec: the tagged config record (Spec), the parameter bag (Params), and
// the capability interfaces every constructible kind implements.
package component

import (
	"errors"
)

// Params is the parameter bag of a tagged config record. Values are
// primitive scalars, ordered sequences, nested bags, or nested Specs.
// The shape is JSON-representable end to end.
type Params map[string]any

// Spec is the tagged config record: the serializable blueprint of a
// constructible object. The wire shape is {"tag": "...", "params": {...}}.
type Spec struct {
	Tag    string `json:"tag" yaml:"tag"`
	Params Params `json:"params" yaml:"params"`
}

// Component is the base capability marker. Every constructible kind
// implements it: Kind reports the canonical tag the object serializes
// under, and Config reports the object's own declared configuration.
type Component interface {
	Kind() string
	Config() (Params, error)
}

// Builder is the construction capability: it instantiates a component
// from a parameter bag. Nested config records in the bag have already
// been resolved into live components by the time a builder runs.
type Builder func(Params) (Component, error)

// Descriptor is an opaque handle to a registrable kind. Values that
// satisfy Descriptor pass the registry's population filter.
type Descriptor interface {
	Kind() string
	New(Params) (Component, error)
}

// Documented is an optional capability descriptors may implement to
// surface a markdown doc string for list and browse tooling.
type Documented interface {
	Doc() string
}

// descriptor is the plain Descriptor implementation built by Describe.
// Identity matters: aliases in the registry point at the same
// *descriptor value as the canonical name.
type descriptor struct {
	kind  string
	doc   string
	build Builder
}

// Describe builds a Descriptor for a kind with a one-line markdown doc.
func Describe(kind, doc string, build Builder) Descriptor {
	return &descriptor{kind: kind, doc: doc, build: build}
}

func (d *descriptor) Kind() string { return d.kind }

func (d *descriptor) Doc() string { return d.doc }

func (d *descriptor) New(p Params) (Component, error) {
	return d.build(p)
}

// ErrNilComponent is returned by SpecOf for a nil component.
var ErrNilComponent = errors.New("component is nil")

// SpecOf produces the tagged config record for a live component by
// delegating to its own configuration capability. Failures from Config
// propagate unchanged.
func SpecOf(c Component) (Spec, error) {
	if c == nil {
		return Spec{}, ErrNilComponent
	}
	params, err := c.Config()
	if err != nil {
		return Spec{}, err
	}
	return Spec{Tag: c.Kind(), Params: params}, nil
}
