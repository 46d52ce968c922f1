// Package store persists named config records in sqlite. Saves are
// normalized through the codec first, so only records that deserialize
// cleanly reach disk and legacy tags are rewritten to canonical ones.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/strataml/strata/internal/cachemanager"
	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/pubsub"
	"github.com/strataml/strata/internal/tracing"
)

// ErrNotFound is returned when no record exists under a name.
var ErrNotFound = errors.New("config not found")

const schema = `
CREATE TABLE IF NOT EXISTS configs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	tag        TEXT NOT NULL,
	spec       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_configs_tag ON configs(tag);
`

// Record is a stored config: the normalized spec plus identity and
// bookkeeping columns.
type Record struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tag       string         `json:"tag"`
	Spec      component.Spec `json:"spec"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store wraps the sqlite table with a read-through cache on point
// lookups and publishes change events for watchers.
type Store struct {
	db     *sql.DB
	codec  *codec.Codec
	broker *pubsub.Broker[Record]
	cache  *cachemanager.ReadThroughCache[string, Record, string]
	ttl    time.Duration
	tracer trace.Tracer
	loads  atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithTracer sets the tracer used for store operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) { s.tracer = tracer }
}

// WithCacheTTL sets how long point lookups stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// Open connects to the sqlite database at path, creating the schema if
// needed. Use ":memory:" for an ephemeral store.
func Open(path string, cd *codec.Codec, opts ...Option) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path
	}
	log.Debug(log.CatStore, "opening database", "path", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatStore, "failed to open database", err, "path", path)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatStore, "failed to ping database", err, "path", path)
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		log.ErrorErr(log.CatStore, "failed to create schema", err, "path", path)
		return nil, err
	}

	s := &Store{
		db:     db,
		codec:  cd,
		broker: pubsub.NewBroker[Record](),
		ttl:    cachemanager.DefaultExpiration,
		tracer: noop.NewTracerProvider().Tracer("store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	manager := cachemanager.NewInMemoryCacheManager[string, Record](
		"config-store", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[string, Record, string](manager, s.load, false)

	log.Info(log.CatStore, "connected to database", "path", path)
	return s, nil
}

// Close releases the database and the event broker.
func (s *Store) Close() error {
	s.broker.Close()
	return s.db.Close()
}

// Events exposes the change feed. Subscribers receive created, updated,
// and deleted records.
func (s *Store) Events() *pubsub.Broker[Record] {
	return s.broker
}

// Save normalizes spec through the codec and upserts it under name.
// The stored record carries the canonical tag, so saving a record with
// a legacy alias tag rewrites it to the canonical name.
func (s *Store) Save(ctx context.Context, name string, spec component.Spec) (Record, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanStoreSave, trace.WithAttributes(
		attribute.String(tracing.AttrConfigName, name),
		attribute.String(tracing.AttrTag, spec.Tag),
	))
	defer span.End()

	if name == "" {
		return Record{}, s.fail(span, errors.New("config name is required"))
	}

	canonical, err := s.normalize(ctx, spec)
	if err != nil {
		return Record{}, s.fail(span, err)
	}

	encoded, err := json.Marshal(canonical)
	if err != nil {
		return Record{}, s.fail(span, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	existing, err := s.load(ctx, name)

	var rec Record
	var event pubsub.EventType
	switch {
	case errors.Is(err, ErrNotFound):
		rec = Record{
			ID:        uuid.NewString(),
			Name:      name,
			Tag:       canonical.Tag,
			Spec:      canonical,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO configs (id, name, tag, spec, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Name, rec.Tag, string(encoded), rec.CreatedAt, rec.UpdatedAt)
		event = pubsub.CreatedEvent
	case err != nil:
		return Record{}, s.fail(span, err)
	default:
		rec = existing
		rec.Tag = canonical.Tag
		rec.Spec = canonical
		rec.UpdatedAt = now
		_, err = s.db.ExecContext(ctx,
			`UPDATE configs SET tag = ?, spec = ?, updated_at = ? WHERE name = ?`,
			rec.Tag, string(encoded), rec.UpdatedAt, rec.Name)
		event = pubsub.UpdatedEvent
	}
	if err != nil {
		log.ErrorErr(log.CatStore, "save failed", err, "name", name)
		return Record{}, s.fail(span, err)
	}

	span.SetAttributes(attribute.String(tracing.AttrConfigID, rec.ID))
	_ = s.invalidate(ctx, name)
	s.broker.Publish(event, rec)
	log.Info(log.CatStore, "config saved", "name", name, "tag", rec.Tag, "event", string(event))
	return rec, nil
}

// Get returns the record stored under name, serving repeat lookups from
// the cache.
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanStoreGet, trace.WithAttributes(
		attribute.String(tracing.AttrConfigName, name),
	))
	defer span.End()

	before := s.loads.Load()
	rec, err := s.cache.Get(ctx, cacheKey(name), name, s.ttl)
	if err != nil {
		return Record{}, s.fail(span, err)
	}
	span.SetAttributes(
		attribute.Bool(tracing.AttrCacheHit, s.loads.Load() == before),
		attribute.String(tracing.AttrConfigID, rec.ID),
	)
	return rec, nil
}

// List returns every stored record ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanStoreList)
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tag, spec, created_at, updated_at FROM configs ORDER BY name`)
	if err != nil {
		log.ErrorErr(log.CatStore, "list query failed", err)
		return nil, s.fail(span, err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.ErrorErr(log.CatStore, "list scan failed", err)
			return nil, s.fail(span, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrRecords, len(records)))
	return records, nil
}

// Remove deletes the record stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanStoreRemove, trace.WithAttributes(
		attribute.String(tracing.AttrConfigName, name),
	))
	defer span.End()

	rec, err := s.load(ctx, name)
	if err != nil {
		return s.fail(span, err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE name = ?`, name); err != nil {
		log.ErrorErr(log.CatStore, "remove failed", err, "name", name)
		return s.fail(span, err)
	}

	_ = s.invalidate(ctx, name)
	s.broker.Publish(pubsub.DeletedEvent, rec)
	log.Info(log.CatStore, "config removed", "name", name)
	return nil
}

// normalize round-trips spec through the codec: build the component,
// then serialize it back. Alias tags come back canonical and invalid
// params are rejected before anything is written.
func (s *Store) normalize(ctx context.Context, spec component.Spec) (component.Spec, error) {
	comp, err := s.codec.Deserialize(ctx, spec, nil)
	if err != nil {
		return component.Spec{}, err
	}
	return s.codec.Serialize(ctx, comp)
}

// load fetches a record straight from sqlite, bypassing the cache.
func (s *Store) load(ctx context.Context, name string) (Record, error) {
	s.loads.Add(1)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, tag, spec, created_at, updated_at FROM configs WHERE name = ?`, name)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("config %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) invalidate(ctx context.Context, name string) error {
	return s.cache.Invalidate(ctx, cacheKey(name))
}

func (s *Store) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func cacheKey(name string) string {
	return "cfg:" + name
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var encoded string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Tag, &encoded, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(encoded), &rec.Spec); err != nil {
		return Record{}, fmt.Errorf("decode spec for %q: %w", rec.Name, err)
	}
	return rec, nil
}
