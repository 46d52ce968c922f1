package registry

import (
	"github.com/strataml/strata/internal/component"
)

// Source identifies which population phase produced an entry.
type Source string

const (
	SourceBaseline Source = "baseline"
	SourceV2       Source = "v2"
	SourceAlias    Source = "alias"
	SourceDeferred Source = "deferred"
	SourceShortcut Source = "shortcut"
)

// Binding pairs a public name with a candidate value. Namespace bindings
// admit only values implementing component.Descriptor; everything else is
// skipped during population. Deferred bindings additionally accept a bare
// component.Builder.
type Binding struct {
	Name  string
	Value any
}

// Namespace is an ordered group of bindings contributed by one catalog
// package. Namespaces merge in declared order with last-write-wins.
type Namespace struct {
	Name     string
	Bindings []Binding
}

// DeferredSource supplies bindings that are only known at population time,
// such as kinds whose availability depends on the active mode. An error
// aborts population and keeps the previous table.
type DeferredSource func(v2 bool) ([]Binding, error)

// Shortcut registers a free builder function under a public name.
type Shortcut struct {
	Name  string
	Build component.Builder
	Doc   string
}

// Entry is a resolved registration. Alias entries share the canonical
// entry's descriptor value.
type Entry struct {
	Name       string
	Descriptor component.Descriptor // nil for function bindings
	Build      component.Builder
	Doc        string
	Source     Source
}
