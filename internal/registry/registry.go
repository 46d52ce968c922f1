// Package registry maintains the name-to-builder table that config
// resolution consults. The table is rebuilt from its configured sources
// whenever the active mode changes and swapped in only after the whole
// rebuild succeeds.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/tracing"
)

// Registry errors
var (
	ErrNilProbe    = errors.New("mode probe cannot be nil")
	ErrAliasTarget = errors.New("alias target not registered")
	ErrBadBinding  = errors.New("binding is neither a descriptor nor a builder")
)

// Config declares the sources a Registry populates from.
type Config struct {
	// Probe reports whether v2 kinds are active. Evaluated exactly once
	// per Ensure.
	Probe func() bool

	// Baseline namespaces, merged in declared order.
	Baseline []Namespace

	// V2 namespaces, merged after Baseline when Probe reports true.
	V2 []Namespace

	// Aliases maps legacy names to canonical ones. Applied after the
	// namespaces in sorted key order; an unregistered canonical aborts
	// population.
	Aliases map[string]string

	// Deferred sources run after aliases, in declared order.
	Deferred []DeferredSource

	// Shortcuts are free builder functions, applied last.
	Shortcuts []Shortcut

	// Tracer instruments population. Defaults to a noop tracer.
	Tracer trace.Tracer
}

// Registry resolves public names to entries.
//
// A Registry is owned by a single goroutine: Ensure mutates the table and
// must not race with Resolve or Entries.
type Registry struct {
	cfg      Config
	table    map[string]Entry
	built    bool
	lastMode bool
}

// New creates a registry. The table stays empty until the first Ensure.
func New(cfg Config) *Registry {
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("registry")
	}
	return &Registry{cfg: cfg}
}

// Ensure populates the table if it has never been built or if the active
// mode changed since the last build. On failure the previous table, along
// with its recorded mode, is kept.
//
// Population spans are roots: a populate is a lifecycle event, not part
// of the resolve call that happened to trigger it.
func (r *Registry) Ensure() error {
	if r.cfg.Probe == nil {
		return ErrNilProbe
	}
	mode := r.cfg.Probe()
	if r.built && r.lastMode == mode {
		return nil
	}

	_, span := r.cfg.Tracer.Start(context.Background(), tracing.SpanEnsure, trace.WithAttributes(
		attribute.Bool(tracing.AttrModeV2, mode),
		attribute.Bool(tracing.AttrRebuilt, r.built),
		attribute.Int(tracing.AttrAliasCount, len(r.cfg.Aliases)),
	))
	defer span.End()

	table, err := r.populate(mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	r.table = table
	r.built = true
	r.lastMode = mode
	span.SetAttributes(attribute.Int(tracing.AttrEntries, len(table)))
	log.Debug(log.CatRegistry, "table populated", "entries", len(table), "v2", mode)
	return nil
}

func (r *Registry) populate(mode bool) (map[string]Entry, error) {
	table := make(map[string]Entry)

	for _, ns := range r.cfg.Baseline {
		mergeNamespace(table, ns, SourceBaseline)
	}
	if mode {
		for _, ns := range r.cfg.V2 {
			mergeNamespace(table, ns, SourceV2)
		}
	}

	// Aliases capture whatever the canonical name resolves to right now;
	// later deferred overrides do not retarget them.
	names := make([]string, 0, len(r.cfg.Aliases))
	for name := range r.cfg.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		canonical := r.cfg.Aliases[name]
		entry, ok := table[canonical]
		if !ok {
			return nil, fmt.Errorf("alias %q -> %q: %w", name, canonical, ErrAliasTarget)
		}
		entry.Name = name
		entry.Source = SourceAlias
		table[name] = entry
	}

	for i, src := range r.cfg.Deferred {
		bindings, err := src(mode)
		if err != nil {
			return nil, fmt.Errorf("deferred source %d: %w", i, err)
		}
		for _, b := range bindings {
			entry, err := deferredEntry(b)
			if err != nil {
				return nil, fmt.Errorf("deferred source %d: %w", i, err)
			}
			table[b.Name] = entry
		}
	}

	for _, s := range r.cfg.Shortcuts {
		table[s.Name] = Entry{
			Name:   s.Name,
			Build:  s.Build,
			Doc:    s.Doc,
			Source: SourceShortcut,
		}
	}

	return table, nil
}

// mergeNamespace admits descriptor bindings and skips everything else.
func mergeNamespace(table map[string]Entry, ns Namespace, src Source) {
	for _, b := range ns.Bindings {
		d, ok := b.Value.(component.Descriptor)
		if !ok {
			continue
		}
		table[b.Name] = descriptorEntry(b.Name, d, src)
	}
}

func deferredEntry(b Binding) (Entry, error) {
	switch v := b.Value.(type) {
	case component.Descriptor:
		return descriptorEntry(b.Name, v, SourceDeferred), nil
	case component.Builder:
		return Entry{Name: b.Name, Build: v, Source: SourceDeferred}, nil
	case func(component.Params) (component.Component, error):
		return Entry{Name: b.Name, Build: v, Source: SourceDeferred}, nil
	default:
		return Entry{}, fmt.Errorf("%q: %w", b.Name, ErrBadBinding)
	}
}

func descriptorEntry(name string, d component.Descriptor, src Source) Entry {
	e := Entry{
		Name:       name,
		Descriptor: d,
		Build:      d.New,
		Source:     src,
	}
	if doc, ok := d.(component.Documented); ok {
		e.Doc = doc.Doc()
	}
	return e
}

// Resolve looks up a name in the current table.
func (r *Registry) Resolve(name string) (Entry, bool) {
	e, ok := r.table[name]
	return e, ok
}

// Entries returns all entries sorted by name.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.table))
	for _, e := range r.table {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.table)
}

// LastMode reports the mode recorded by the most recent successful build.
// ok is false until the table has been built once.
func (r *Registry) LastMode() (mode, ok bool) {
	return r.lastMode, r.built
}
