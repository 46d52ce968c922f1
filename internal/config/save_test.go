package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func readConfigMap(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	return parsed
}

// === SaveV2 ===

func TestSaveV2_CreatesFileWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveV2(path, true))

	parsed := readConfigMap(t, path)
	require.Equal(t, true, parsed["v2"])
}

func TestSaveV2_ReplacesExistingValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("v2: false\nstore:\n  cache_ttl: 5m\n"), 0o600))

	require.NoError(t, SaveV2(path, true))

	parsed := readConfigMap(t, path)
	require.Equal(t, true, parsed["v2"])

	store := parsed["store"].(map[string]any)
	require.Equal(t, "5m", store["cache_ttl"], "other sections must survive")
}

func TestSaveV2_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `# Strata Configuration
# Resolve tags against the v2 layer implementations
v2: false

# Store settings below
store:
  cache_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, SaveV2(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Strata Configuration")
	require.Contains(t, string(data), "# Store settings below")
	require.Contains(t, string(data), "v2: true")
}

// === SavePackDirs ===

func TestSavePackDirs_AppendsSectionWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("v2: true\n"), 0o600))

	require.NoError(t, SavePackDirs(path, []string{"/a", "/b"}))

	parsed := readConfigMap(t, path)
	require.Equal(t, []any{"/a", "/b"}, parsed["pack_dirs"])
	require.Equal(t, true, parsed["v2"])
}

func TestSavePackDirs_ReplacesExistingList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pack_dirs:\n  - /old\n"), 0o600))

	require.NoError(t, SavePackDirs(path, []string{"/new"}))

	parsed := readConfigMap(t, path)
	require.Equal(t, []any{"/new"}, parsed["pack_dirs"])
}

// === AddPackDir / RemovePackDir ===

func TestAddPackDir_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, AddPackDir(path, "/packs/vision", nil))
	require.NoError(t, AddPackDir(path, "/packs/audio", []string{"/packs/vision"}))

	parsed := readConfigMap(t, path)
	require.Equal(t, []any{"/packs/vision", "/packs/audio"}, parsed["pack_dirs"])
}

func TestAddPackDir_DuplicateIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, AddPackDir(path, "/packs/vision", []string{"/packs/vision"}))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "duplicate add must not touch the file")
}

func TestRemovePackDir_RemovesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	existing := []string{"/packs/vision", "/packs/audio"}
	require.NoError(t, RemovePackDir(path, "/packs/vision", existing))

	parsed := readConfigMap(t, path)
	require.Equal(t, []any{"/packs/audio"}, parsed["pack_dirs"])
}

func TestRemovePackDir_UnknownDirErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := RemovePackDir(path, "/packs/missing", []string{"/packs/vision"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}

// === Atomicity plumbing ===

func TestSaveKey_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.yaml")

	require.NoError(t, SaveV2(path, true))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSaveKey_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveV2(path, true))
	require.NoError(t, SavePackDirs(path, []string{"/a"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
