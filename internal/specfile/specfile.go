// Package specfile reads and writes tagged config records as JSON or
// YAML documents, chosen by file extension.
package specfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strataml/strata/internal/component"
)

// Read loads a tagged config record from path. The format follows the
// extension: .json, .yaml, or .yml.
func Read(path string) (component.Spec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is caller-chosen by design
	if err != nil {
		return component.Spec{}, err
	}

	var spec component.Spec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return component.Spec{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return component.Spec{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return component.Spec{}, fmt.Errorf("unsupported spec file extension %q (want .json, .yaml, or .yml)", ext)
	}
	return spec, nil
}

// Write stores a tagged config record at path in the format the
// extension names.
func Write(path string, spec component.Spec) error {
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(spec, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(spec)
	default:
		return fmt.Errorf("unsupported spec file extension %q (want .json, .yaml, or .yml)", ext)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return os.WriteFile(path, data, 0o600)
}
