// Package config provides configuration types, defaults, and persistence for strata.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveV2 updates the v2 mode flag in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveV2(configPath string, v2 bool) error {
	value := "false"
	if v2 {
		value = "true"
	}
	return saveKey(configPath, "v2", &yaml.Node{Kind: yaml.ScalarNode, Value: value})
}

// SavePackDirs replaces the pack_dirs list in the config file.
func SavePackDirs(configPath string, dirs []string) error {
	return saveKey(configPath, "pack_dirs", buildPackDirsNode(dirs))
}

// AddPackDir appends a directory to pack_dirs and saves. existing is the
// currently configured list; duplicates are a no-op.
func AddPackDir(configPath, dir string, existing []string) error {
	for _, d := range existing {
		if d == dir {
			return nil
		}
	}
	return SavePackDirs(configPath, append(existing, dir))
}

// RemovePackDir removes a directory from pack_dirs and saves.
// Returns an error when the directory is not configured.
func RemovePackDir(configPath, dir string, existing []string) error {
	updated := make([]string, 0, len(existing))
	found := false
	for _, d := range existing {
		if d == dir {
			found = true
			continue
		}
		updated = append(updated, d)
	}
	if !found {
		return fmt.Errorf("pack dir %q is not configured", dir)
	}
	return SavePackDirs(configPath, updated)
}

// buildPackDirsNode creates a yaml.Node representing the pack_dirs list.
func buildPackDirsNode(dirs []string) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(dirs)),
	}
	for _, dir := range dirs {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: dir})
	}
	return node
}

// saveKey updates one top-level key in the config file, creating the
// file when missing. The write is atomic: temp file, then rename.
func saveKey(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			// Find and replace the key, or append it
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == key {
					root.Content[i+1] = value
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					value,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".strata.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
