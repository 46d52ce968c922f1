// Package codec turns live components into tagged config records and back.
// Deserialization resolves tags through a registry table, gives caller
// supplied custom objects unconditional precedence, and recursively
// resolves nested records before a builder runs.
package codec

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/registry"
	"github.com/strataml/strata/internal/tracing"
)

// CustomObjects maps tags to caller-supplied builders. During a
// deserialize call they shadow the registry table at every nesting level.
type CustomObjects map[string]component.Builder

// Codec resolves config records against a registry table.
type Codec struct {
	reg    *registry.Registry
	label  string
	tracer trace.Tracer
}

// Option configures a Codec.
type Option func(*Codec)

// WithLabel sets the human name used in unknown-type errors, e.g. "layer".
func WithLabel(label string) Option {
	return func(c *Codec) { c.label = label }
}

// WithTracer sets the tracer used for serialize/deserialize spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Codec) { c.tracer = tracer }
}

// New creates a codec over a registry table.
func New(reg *registry.Registry, opts ...Option) *Codec {
	c := &Codec{
		reg:    reg,
		label:  "component",
		tracer: noop.NewTracerProvider().Tracer("codec"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the table this codec resolves against.
func (c *Codec) Registry() *registry.Registry {
	return c.reg
}

// Serialize produces the tagged config record for a live component.
// Failures from the component's own Config propagate unchanged.
func (c *Codec) Serialize(ctx context.Context, comp component.Component) (component.Spec, error) {
	_, span := c.tracer.Start(ctx, tracing.SpanSerialize)
	defer span.End()

	spec, err := component.SpecOf(comp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return component.Spec{}, err
	}
	span.SetAttributes(attribute.String(tracing.AttrTag, spec.Tag))
	return spec, nil
}

// Deserialize builds a live component from a tagged config record.
// The table is populated on demand before lookup; nested records in the
// params are resolved with the same custom objects before the builder runs.
// Builder failures surface unchanged.
func (c *Codec) Deserialize(ctx context.Context, spec component.Spec, custom CustomObjects) (component.Component, error) {
	return c.deserialize(ctx, spec, custom, false)
}

func (c *Codec) deserialize(ctx context.Context, spec component.Spec, custom CustomObjects, nested bool) (component.Component, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanDeserialize, trace.WithAttributes(
		attribute.String(tracing.AttrTag, spec.Tag),
		attribute.String(tracing.AttrLabel, c.label),
		attribute.Int(tracing.AttrCustomCount, len(custom)),
		attribute.Bool(tracing.AttrNested, nested),
	))
	defer span.End()

	if spec.Tag == "" {
		return c.fail(span, &MalformedConfigError{Reason: "record is missing a tag"})
	}
	if err := c.reg.Ensure(); err != nil {
		return c.fail(span, err)
	}

	build, err := c.lookup(spec.Tag, custom)
	if err != nil {
		return c.fail(span, err)
	}

	params, err := c.resolveParams(ctx, spec.Params, custom)
	if err != nil {
		return c.fail(span, err)
	}

	comp, err := build(params)
	if err != nil {
		return c.fail(span, err)
	}
	return comp, nil
}

func (c *Codec) fail(span trace.Span, err error) (component.Component, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

// lookup finds a builder for a tag. Custom objects win over the table
// unconditionally, even when the table has an entry for the same tag.
func (c *Codec) lookup(tag string, custom CustomObjects) (component.Builder, error) {
	if build, ok := custom[tag]; ok {
		return build, nil
	}
	if entry, ok := c.reg.Resolve(tag); ok {
		return entry.Build, nil
	}
	log.Debug(log.CatCodec, "unknown tag", "tag", tag, "label", c.label)
	return nil, &UnknownTypeError{Label: c.label, Name: tag}
}

// resolveParams walks a parameter bag and replaces every nested record
// with the live component it describes. The input bag is not mutated.
func (c *Codec) resolveParams(ctx context.Context, params component.Params, custom CustomObjects) (component.Params, error) {
	resolved := make(component.Params, len(params))
	for key, value := range params {
		v, err := c.resolveValue(ctx, value, custom)
		if err != nil {
			return nil, err
		}
		resolved[key] = v
	}
	return resolved, nil
}

func (c *Codec) resolveValue(ctx context.Context, value any, custom CustomObjects) (any, error) {
	switch v := value.(type) {
	case component.Spec:
		return c.deserialize(ctx, v, custom, true)
	case component.Params:
		return c.resolveMap(ctx, v, custom)
	case map[string]any:
		return c.resolveMap(ctx, v, custom)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			r, err := c.resolveValue(ctx, item, custom)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return value, nil
	}
}

func (c *Codec) resolveMap(ctx context.Context, m map[string]any, custom CustomObjects) (any, error) {
	spec, isRecord, err := recordFromMap(m)
	if err != nil {
		return nil, err
	}
	if isRecord {
		return c.deserialize(ctx, spec, custom, true)
	}

	out := make(map[string]any, len(m))
	for key, value := range m {
		r, err := c.resolveValue(ctx, value, custom)
		if err != nil {
			return nil, err
		}
		out[key] = r
	}
	return out, nil
}

// recordFromMap detects the nested record shape: a mapping carrying both
// a non-empty string "tag" and a "params" key. A matching map whose
// params is not itself a mapping is malformed rather than plain data.
func recordFromMap(m map[string]any) (component.Spec, bool, error) {
	tag, ok := m["tag"].(string)
	if !ok || tag == "" {
		return component.Spec{}, false, nil
	}
	raw, hasParams := m["params"]
	if !hasParams {
		return component.Spec{}, false, nil
	}

	switch p := raw.(type) {
	case nil:
		return component.Spec{Tag: tag}, true, nil
	case component.Params:
		return component.Spec{Tag: tag, Params: p}, true, nil
	case map[string]any:
		return component.Spec{Tag: tag, Params: component.Params(p)}, true, nil
	default:
		return component.Spec{}, false, &MalformedConfigError{
			Reason: fmt.Sprintf("params of nested record %q must be a mapping, got %T", tag, raw),
		}
	}
}
