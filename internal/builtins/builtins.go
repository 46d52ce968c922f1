// Package builtins assembles the built-in layer catalog: baseline
// namespaces, v2 overrides, legacy aliases, late-bound providers, merge
// shortcuts, and user kind packs, wired into a registry and a codec.
package builtins

import (
	"os"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/feature"
	"github.com/strataml/strata/internal/layers"
	layersv2 "github.com/strataml/strata/internal/layers/v2"
	"github.com/strataml/strata/internal/model"
	"github.com/strataml/strata/internal/pack"
	"github.com/strataml/strata/internal/premade"
	"github.com/strataml/strata/internal/registry"
)

// Label is the display context the built-in codec reports in errors.
const Label = "layer"

// EnvVar toggles v2 mode when no explicit probe is configured.
const EnvVar = "STRATA_V2"

// EnvProbe reads the v2 mode flag from the environment. Unset or
// unparsable values mean v1.
func EnvProbe() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvVar))
	return err == nil && v
}

// Aliases maps legacy tags from the v1 save format to their canonical
// names. Applied at population time, after baseline and overrides.
func Aliases() map[string]string {
	return map[string]string{
		"BatchNormalizationV1": "BatchNormalization",
		"BatchNormalizationV2": "BatchNormalization",
	}
}

// Options configures catalog assembly. The zero value wires the full
// built-in catalog with the environment probe and no kind packs.
type Options struct {
	// Probe reports whether v2 mode is active. Defaults to EnvProbe.
	Probe func() bool
	// PackDirs are scanned for user kind-pack manifests. Packs load
	// after the late-bound providers so user definitions win.
	PackDirs []string
	// Tracer instruments codec and registry operations when set.
	Tracer trace.Tracer
}

// New builds the registry for the built-in catalog and a codec over it.
// The registry table is not populated until the first Ensure.
func New(opts Options) (*registry.Registry, *codec.Codec) {
	probe := opts.Probe
	if probe == nil {
		probe = EnvProbe
	}

	// The pack source resolves delegation targets against the registry
	// it is registered in. Resolution is lazy, so reading reg here is
	// safe: pack builders only run after a populate completes.
	var reg *registry.Registry
	resolve := func(name string) (component.Builder, bool) {
		entry, ok := reg.Resolve(name)
		if !ok {
			return nil, false
		}
		return entry.Build, true
	}

	deferred := []registry.DeferredSource{
		model.Source(),
		premade.Source(),
		feature.Source(),
	}
	if len(opts.PackDirs) > 0 {
		deferred = append(deferred, pack.Source(opts.PackDirs, resolve))
	}

	reg = registry.New(registry.Config{
		Probe:     probe,
		Baseline:  layers.Baseline(),
		V2:        layersv2.Overrides(),
		Aliases:   Aliases(),
		Deferred:  deferred,
		Shortcuts: layers.Shortcuts(),
		Tracer:    opts.Tracer,
	})

	copts := []codec.Option{codec.WithLabel(Label)}
	if opts.Tracer != nil {
		copts = append(copts, codec.WithTracer(opts.Tracer))
	}
	return reg, codec.New(reg, copts...)
}
