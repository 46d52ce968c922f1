package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// readRecords parses all JSONL records from a trace file.
func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // test-controlled path
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestNewFileExporter_CreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	tracePath := filepath.Join(tmpDir, "nested", "dirs", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created")
}

func TestFileExporter_ExportSpans_Empty(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	defer exporter.Shutdown(context.Background())

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))

	info, err := os.Stat(tracePath)
	require.NoError(t, err)
	require.Zero(t, info.Size(), "no spans means no output")
}

func TestFileExporter_WritesJSONLRecords(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	// Use a real provider with a synchronous exporter to produce ReadOnlySpans.
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	tracer := provider.Tracer("exporter-test")

	ctx, parent := tracer.Start(context.Background(), "codec.deserialize")
	parent.SetAttributes(
		attribute.String(AttrTag, "Dense"),
		attribute.String(AttrLabel, "layer"),
	)

	_, child := tracer.Start(ctx, "registry.ensure")
	child.SetAttributes(attribute.Int(AttrEntries, 42))
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 2, "one record per span")

	// Child ends first, so it is written first.
	require.Equal(t, "registry.ensure", records[0].Name)
	require.Equal(t, "codec.deserialize", records[1].Name)

	require.Equal(t, records[1].SpanID, records[0].ParentSpanID, "child links to parent")
	require.Equal(t, records[1].TraceID, records[0].TraceID, "same trace")

	require.Equal(t, "exporter-test", records[0].Scope)
	require.Equal(t, "INTERNAL", records[0].Kind)
	require.NotEmpty(t, records[0].StartTime)
	require.NotEmpty(t, records[0].EndTime)

	require.Equal(t, "Dense", records[1].Attributes[AttrTag])
	require.Equal(t, "layer", records[1].Attributes[AttrLabel])
	require.EqualValues(t, 42, records[0].Attributes[AttrEntries])
}

func TestFileExporter_AppendsAcrossSessions(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	for range 2 {
		exporter, err := NewFileExporter(tracePath)
		require.NoError(t, err)

		provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		_, span := provider.Tracer("exporter-test").Start(context.Background(), "codec.serialize")
		span.End()

		require.NoError(t, provider.Shutdown(context.Background()))
		require.NoError(t, exporter.Shutdown(context.Background()))
	}

	records := readRecords(t, tracePath)
	require.Len(t, records, 2, "second session appends to the same file")
}

func TestFileExporter_ShutdownTwice(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")
}
