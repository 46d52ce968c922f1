// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome resolves a leading ~ to the user's home directory. Config
// files routinely carry paths like ~/.config/strata/configs.db and
// neither viper nor the shell expands them for us.
//
//   - "~"        -> home
//   - "~/x/y"    -> home/x/y
//   - "~user/x"  -> unchanged (user lookups are not supported)
//   - anything else -> unchanged
//
// When the home directory cannot be determined the input is returned
// as-is.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ExpandAll applies ExpandHome to each path, returning a new slice.
func ExpandAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = ExpandHome(p)
	}
	return out
}
