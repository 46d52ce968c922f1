// Package testutil provides spec fixtures and store helpers for tests.
package testutil

import (
	"github.com/strataml/strata/internal/component"
)

// SpecBuilder accumulates parameters for a tagged config record.
type SpecBuilder struct {
	tag    string
	params component.Params
}

// Spec starts a builder for the given tag.
func Spec(tag string) *SpecBuilder {
	return &SpecBuilder{tag: tag, params: component.Params{}}
}

// With sets a parameter.
func (b *SpecBuilder) With(key string, value any) *SpecBuilder {
	b.params[key] = value
	return b
}

// WithSpec nests a child record under key in wire form.
func (b *SpecBuilder) WithSpec(key string, child *SpecBuilder) *SpecBuilder {
	b.params[key] = child.Record()
	return b
}

// WithSpecs nests a list of child records under key in wire form.
func (b *SpecBuilder) WithSpecs(key string, children ...*SpecBuilder) *SpecBuilder {
	records := make([]any, len(children))
	for i, c := range children {
		records[i] = c.Record()
	}
	b.params[key] = records
	return b
}

// Build produces the Spec. The parameter bag is copied shallowly, so a
// builder stays reusable after Build.
func (b *SpecBuilder) Build() component.Spec {
	return component.Spec{Tag: b.tag, Params: b.cloneParams()}
}

// Record returns the untyped wire form, the shape nested records take
// inside a parameter bag.
func (b *SpecBuilder) Record() map[string]any {
	return map[string]any{
		"tag":    b.tag,
		"params": map[string]any(b.cloneParams()),
	}
}

func (b *SpecBuilder) cloneParams() component.Params {
	params := make(component.Params, len(b.params))
	for k, v := range b.params {
		params[k] = v
	}
	return params
}
