// Package pack loads user-defined kind packs: YAML manifests that derive
// new public names from existing kinds with default params overlaid.
// Derived kinds delegate to their target's builder when a component is
// constructed, so a derived component serializes under its target's
// canonical tag.
package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/registry"
)

// Manifest is the root structure of a pack file.
type Manifest struct {
	Name    string     `yaml:"name"`
	Kinds   []KindDef  `yaml:"kinds"`
	Aliases []AliasDef `yaml:"aliases"`
}

// KindDef derives a new public name from an existing target kind.
// Params are overlaid as defaults under the caller's params.
type KindDef struct {
	Name   string         `yaml:"name"`
	Target string         `yaml:"target"`
	Doc    string         `yaml:"doc"`
	Params map[string]any `yaml:"params"`
}

// AliasDef declares an extra public name for an existing kind.
type AliasDef struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// Resolver looks up the builder currently bound to a public name.
// Pack kinds call it lazily at component construction time, after the
// table is fully populated.
type Resolver func(name string) (component.Builder, bool)

// Source returns a deferred source that loads every *.yaml/*.yml manifest
// under dirs, in directory then file-name order. Missing directories are
// skipped; a malformed manifest aborts population.
func Source(dirs []string, resolve Resolver) registry.DeferredSource {
	return func(v2 bool) ([]registry.Binding, error) {
		var bindings []registry.Binding
		targets := make(map[string]string)

		for _, dir := range dirs {
			manifests, err := manifestPaths(dir)
			if err != nil {
				return nil, err
			}
			for _, path := range manifests {
				loaded, err := loadManifest(path, resolve)
				if err != nil {
					return nil, err
				}
				for _, lb := range loaded {
					bindings = append(bindings, lb.binding)
					targets[lb.binding.Name] = lb.target
				}
			}
		}

		if err := detectCycles(targets); err != nil {
			return nil, err
		}
		return bindings, nil
	}
}

type loadedBinding struct {
	binding registry.Binding
	target  string
}

func manifestPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pack dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func loadManifest(path string, resolve Resolver) ([]loadedBinding, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configured pack dirs
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var loaded []loadedBinding
	for i, def := range manifest.Kinds {
		if err := validateDef(def.Name, def.Target); err != nil {
			return nil, fmt.Errorf("%s: kind %d: %w", path, i, err)
		}
		loaded = append(loaded, loadedBinding{
			binding: registry.Binding{
				Name:  def.Name,
				Value: component.Describe(def.Name, def.Doc, derivedBuilder(def.Name, def.Target, def.Params, resolve)),
			},
			target: def.Target,
		})
	}
	for i, def := range manifest.Aliases {
		if err := validateDef(def.Name, def.Target); err != nil {
			return nil, fmt.Errorf("%s: alias %d: %w", path, i, err)
		}
		loaded = append(loaded, loadedBinding{
			binding: registry.Binding{
				Name:  def.Name,
				Value: component.Describe(def.Name, "Alias of "+def.Target+".", derivedBuilder(def.Name, def.Target, nil, resolve)),
			},
			target: def.Target,
		})
	}

	log.Debug(log.CatPack, "manifest loaded", "path", path, "kinds", len(manifest.Kinds), "aliases", len(manifest.Aliases))
	return loaded, nil
}

func validateDef(name, target string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if target == "" {
		return fmt.Errorf("target is required")
	}
	if name == target {
		return fmt.Errorf("kind %q cannot target itself", name)
	}
	return nil
}

// derivedBuilder delegates to the target's builder with overlay params as
// defaults. Resolution is lazy: the table is complete by the time a
// component is constructed.
func derivedBuilder(name, target string, overlay map[string]any, resolve Resolver) component.Builder {
	return func(p component.Params) (component.Component, error) {
		build, ok := resolve(target)
		if !ok {
			return nil, fmt.Errorf("pack kind %q: unknown target %q", name, target)
		}
		merged := make(component.Params, len(overlay)+len(p))
		for k, v := range overlay {
			merged[k] = v
		}
		for k, v := range p {
			merged[k] = v
		}
		return build(merged)
	}
}

// detectCycles rejects delegation loops among pack-defined names.
// Targets outside the pack terminate a chain by construction.
func detectCycles(targets map[string]string) error {
	for start := range targets {
		seen := map[string]bool{start: true}
		name := start
		for {
			next, ok := targets[name]
			if !ok {
				break
			}
			if seen[next] {
				return fmt.Errorf("pack kind %q: delegation cycle through %q", start, next)
			}
			seen[next] = true
			name = next
		}
	}
	return nil
}
