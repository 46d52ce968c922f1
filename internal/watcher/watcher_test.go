package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataml/strata/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "encoder.json")
	err := os.WriteFile(specPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create spec file")

	// Create watcher with short debounce
	w, err := watcher.New(watcher.Config{
		Paths:       []string{dir},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json"},
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(specPath, []byte(fmt.Sprintf(`{"rev":%d}`, i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	// Should receive exactly one notification
	select {
	case changed := <-onChange:
		require.Len(t, changed, 1)
		assert.Equal(t, "encoder.json", filepath.Base(changed[0]))
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_BatchesDistinctFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New(watcher.Config{
		Paths:       []string{dir},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json", ".yaml"},
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Two files changed inside one debounce window arrive as one batch
	err = os.WriteFile(filepath.Join(dir, "encoder.json"), []byte("{}"), 0644)
	require.NoError(t, err, "failed to write first file")
	err = os.WriteFile(filepath.Join(dir, "decoder.yaml"), []byte("tag: Dense"), 0644)
	require.NoError(t, err, "failed to write second file")

	select {
	case changed := <-onChange:
		require.Len(t, changed, 2)
		bases := []string{filepath.Base(changed[0]), filepath.Base(changed[1])}
		assert.ElementsMatch(t, []string{"encoder.json", "decoder.yaml"}, bases)
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	notesPath := filepath.Join(dir, "notes.txt")
	// Pre-create the file so writes to it are just Write events
	err := os.WriteFile(notesPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create notes file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{dir},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json", ".yaml", ".yml"},
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(notesPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write notes file")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated extensions")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_ExplicitFileMatchesAnyExtension(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "model.conf")
	err := os.WriteFile(specPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create spec file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{specPath},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json"},
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(specPath, []byte(`{"tag":"Dense"}`), 0644)
	require.NoError(t, err, "failed to write spec file")

	select {
	case changed := <-onChange:
		require.Len(t, changed, 1)
		assert.Equal(t, filepath.Clean(specPath), changed[0])
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for explicitly watched file")
	}
}

func TestWatcher_IgnoresSiblingsOfWatchedFile(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "model.json")
	siblingPath := filepath.Join(dir, "sibling.json")
	err := os.WriteFile(specPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create spec file")
	err = os.WriteFile(siblingPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create sibling file")

	// Only the file is watched, not its directory
	w, err := watcher.New(watcher.Config{
		Paths:       []string{specPath},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json"},
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(siblingPath, []byte(`{"rev":1}`), 0644)
	require.NoError(t, err, "failed to write sibling file")

	select {
	case <-onChange:
		t.Fatal("should not notify for siblings of a watched file")
	case <-time.After(100 * time.Millisecond):
		// Expected - sibling changes are out of scope
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New(watcher.Config{
		Paths:       []string{dir},
		DebounceDur: 50 * time.Millisecond,
		Extensions:  []string{".json"},
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{DebounceDur: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no paths")
}

func TestWatcher_MissingPath(t *testing.T) {
	w, err := watcher.New(watcher.Config{
		Paths:       []string{filepath.Join(t.TempDir(), "absent")},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("specs/")

	assert.Equal(t, []string{"specs/"}, cfg.Paths)
	assert.Equal(t, 400*time.Millisecond, cfg.DebounceDur)
	assert.Equal(t, []string{".json", ".yaml", ".yml"}, cfg.Extensions)
}
