package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataml/strata/internal/builtins"
	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/specfile"
	"github.com/strataml/strata/internal/store"
)

// NewStore opens an in-memory config store wired to the built-in catalog
// with the v2 mode off. The store is closed when the test ends.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	_, cd := builtins.New(builtins.Options{Probe: func() bool { return false }})

	s, err := store.Open(":memory:", cd)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// NewStoreAt opens a file-backed store under dir, usually a t.TempDir().
func NewStoreAt(t *testing.T, dir string) *store.Store {
	t.Helper()
	_, cd := builtins.New(builtins.Options{Probe: func() bool { return false }})

	s, err := store.Open(filepath.Join(dir, "configs.db"), cd)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// WriteSpec writes a spec fixture to path, JSON or YAML by extension,
// and returns the path.
func WriteSpec(t *testing.T, path string, spec component.Spec) string {
	t.Helper()
	require.NoError(t, specfile.Write(path, spec))
	return path
}
