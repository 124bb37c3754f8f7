// Package jsonstore persists homogeneous collections of records as JSON arrays, one file per
// entity kind. Every operation materializes the whole collection; every mutation rewrites the
// whole file through a temp file and an atomic rename.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrPersistence = errors.New("persistence failure")
)

// Record is implemented by every entity kept in a Store.
type Record interface {
	GetID() int64
	SetID(id int64)
	Timestamps() (created, modified time.Time)
	SetTimestamps(created, modified time.Time)
}

// Store owns the backing file of a single entity kind. Reads may run in parallel;
// mutations are serialized, so concurrent saves never lose each other's records.
type Store[T Record] struct {
	kind    string
	path    string
	seqPath string
	ids     *Allocator
	now     func() time.Time
	// writeFile replaces the content at path as one step.
	writeFile func(path string, data []byte) error

	mu        sync.RWMutex
	tracer    trace.Tracer
	mutations metric.Int64Counter
}

type options struct {
	allocator *Allocator
	now       func() time.Time
}

// Option customizes a Store.
type Option func(*options)

// WithAllocator shares an id allocator between stores. Each kind keeps its own counter.
func WithAllocator(a *Allocator) Option {
	return func(o *options) { o.allocator = a }
}

// WithClock replaces time.Now for created/modified stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New opens (without reading) the store for kind backed by dir/file. The directory is
// created if needed; a missing file is an empty collection.
func New[T Record](dir, file, kind string, opts ...Option) (*Store[T], error) {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = NewAllocator()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", ErrPersistence, err)
	}

	mutations, err := otel.Meter("trainyard/jsonstore").Int64Counter("jsonstore.mutations",
		metric.WithDescription("Store mutations by kind, operation and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create mutation counter: %w", err)
	}

	path := filepath.Join(dir, file)
	return &Store[T]{
		kind:      kind,
		path:      path,
		seqPath:   path + ".seq",
		ids:       o.allocator,
		now:       o.now,
		writeFile: writeAtomic,
		tracer:    otel.Tracer("trainyard/jsonstore"),
		mutations: mutations,
	}, nil
}

// Kind returns the entity kind this store owns.
func (s *Store[T]) Kind() string { return s.kind }

// Path returns the backing file path.
func (s *Store[T]) Path() string { return s.path }

// List loads the complete collection in file order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	_, span := s.tracer.Start(ctx, "jsonstore.list", trace.WithAttributes(attribute.String("store.kind", s.kind)))
	defer span.End()

	s.mu.RLock()
	records, err := s.load()
	s.mu.RUnlock()
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("records.loaded", len(records)))
	return records, nil
}

// FindByID returns the record with id or ErrNotFound.
func (s *Store[T]) FindByID(ctx context.Context, id int64) (T, error) {
	_, span := s.tracer.Start(ctx, "jsonstore.find", trace.WithAttributes(
		attribute.String("store.kind", s.kind),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	s.mu.RLock()
	records, err := s.load()
	s.mu.RUnlock()

	var zero T
	if err != nil {
		return zero, fail(span, err)
	}
	i := indexOf(records, id)
	if i < 0 {
		return zero, fail(span, s.notFound(id))
	}
	return records[i], nil
}

// Save assigns a fresh id and created/modified stamps to rec, appends it and persists the
// collection. rec itself is updated and returned.
func (s *Store[T]) Save(ctx context.Context, rec T) (T, error) {
	ctx, span := s.tracer.Start(ctx, "jsonstore.save", trace.WithAttributes(attribute.String("store.kind", s.kind)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.load()
	if err != nil {
		return zero, s.record(ctx, "save", fail(span, err))
	}
	// The files only seed the counter; afterwards the allocator is authoritative.
	var floor int64
	if _, ok := s.ids.Current(s.kind); !ok {
		retired, err := s.readSequence()
		if err != nil {
			return zero, s.record(ctx, "save", fail(span, err))
		}
		floor = max(maxID(records), retired)
	}

	id := s.ids.Next(s.kind, floor)
	now := s.now()
	rec.SetID(id)
	rec.SetTimestamps(now, now)

	// The sequence goes first: a crash between the two writes leaves a gap, never a reused id.
	if err := s.writeSequence(id); err != nil {
		return zero, s.record(ctx, "save", fail(span, err))
	}
	if err := s.write(append(records, rec)); err != nil {
		return zero, s.record(ctx, "save", fail(span, err))
	}

	span.SetAttributes(attribute.Int64("record.id", id))
	return rec, s.record(ctx, "save", nil)
}

// Update replaces the record stored under id with rec. The id and creation time of the stored
// record are kept, the modification time is refreshed.
func (s *Store[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	ctx, span := s.tracer.Start(ctx, "jsonstore.update", trace.WithAttributes(
		attribute.String("store.kind", s.kind),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.load()
	if err != nil {
		return zero, s.record(ctx, "update", fail(span, err))
	}
	i := indexOf(records, id)
	if i < 0 {
		return zero, s.record(ctx, "update", fail(span, s.notFound(id)))
	}

	created, modified := records[i].Timestamps()
	rec.SetID(id)
	rec.SetTimestamps(created, s.after(modified))
	records[i] = rec

	if err := s.write(records); err != nil {
		return zero, s.record(ctx, "update", fail(span, err))
	}
	return rec, s.record(ctx, "update", nil)
}

// Modify applies fn to the stored record under the write lock and persists the result.
// It is the narrow counterpart of Update, used for single-field changes.
func (s *Store[T]) Modify(ctx context.Context, id int64, fn func(T) error) (T, error) {
	ctx, span := s.tracer.Start(ctx, "jsonstore.modify", trace.WithAttributes(
		attribute.String("store.kind", s.kind),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.load()
	if err != nil {
		return zero, s.record(ctx, "modify", fail(span, err))
	}
	i := indexOf(records, id)
	if i < 0 {
		return zero, s.record(ctx, "modify", fail(span, s.notFound(id)))
	}

	rec := records[i]
	created, modified := rec.Timestamps()
	if err := fn(rec); err != nil {
		return zero, s.record(ctx, "modify", fail(span, err))
	}
	rec.SetID(id)
	rec.SetTimestamps(created, s.after(modified))

	if err := s.write(records); err != nil {
		return zero, s.record(ctx, "modify", fail(span, err))
	}
	return rec, s.record(ctx, "modify", nil)
}

// Delete removes the record stored under id. There is no tombstone.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "jsonstore.delete", trace.WithAttributes(
		attribute.String("store.kind", s.kind),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return s.record(ctx, "delete", fail(span, err))
	}
	i := indexOf(records, id)
	if i < 0 {
		return s.record(ctx, "delete", fail(span, s.notFound(id)))
	}

	// Retire the id even when it was never persisted to the sequence (files written by hand).
	retired, err := s.readSequence()
	if err != nil {
		return s.record(ctx, "delete", fail(span, err))
	}
	if id > retired {
		if err := s.writeSequence(id); err != nil {
			return s.record(ctx, "delete", fail(span, err))
		}
	}

	remaining := append(records[:i:i], records[i+1:]...)
	if err := s.write(remaining); err != nil {
		return s.record(ctx, "delete", fail(span, err))
	}
	return s.record(ctx, "delete", nil)
}

func (s *Store[T]) notFound(id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, s.kind, id)
}

// after returns the current time, nudged forward so that it is strictly later than prev.
func (s *Store[T]) after(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Store[T]) record(ctx context.Context, op string, err error) error {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store.kind", s.kind),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
	return err
}

func (s *Store[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s collection: %w", ErrPersistence, s.kind, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s collection: %w", ErrPersistence, s.kind, err)
	}
	records := make([]T, 0, len(raw))
	for i, entry := range raw {
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			return nil, fmt.Errorf("%w: decode %s collection: null entry at index %d", ErrPersistence, s.kind, i)
		}
		var rec T
		if err := json.Unmarshal(entry, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode %s entry %d: %w", ErrPersistence, s.kind, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store[T]) write(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s collection: %w", ErrPersistence, s.kind, err)
	}
	if err := s.writeFile(s.path, data); err != nil {
		return fmt.Errorf("%w: write %s collection: %w", ErrPersistence, s.kind, err)
	}
	return nil
}

type sequence struct {
	LastID int64 `json:"last_id"`
}

func (s *Store[T]) readSequence() (int64, error) {
	data, err := os.ReadFile(s.seqPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: read %s sequence: %w", ErrPersistence, s.kind, err)
	}
	var seq sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return 0, fmt.Errorf("%w: decode %s sequence: %w", ErrPersistence, s.kind, err)
	}
	return seq.LastID, nil
}

func (s *Store[T]) writeSequence(id int64) error {
	data, err := json.Marshal(sequence{LastID: id})
	if err != nil {
		return fmt.Errorf("%w: encode %s sequence: %w", ErrPersistence, s.kind, err)
	}
	if err := s.writeFile(s.seqPath, data); err != nil {
		return fmt.Errorf("%w: write %s sequence: %w", ErrPersistence, s.kind, err)
	}
	return nil
}

// writeAtomic streams data to a temp file next to path and renames it into place, so
// readers see either the old or the new content, never a torn file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func indexOf[T Record](records []T, id int64) int {
	for i, rec := range records {
		if rec.GetID() == id {
			return i
		}
	}
	return -1
}

func maxID[T Record](records []T) int64 {
	var highest int64
	for _, rec := range records {
		if id := rec.GetID(); id > highest {
			highest = id
		}
	}
	return highest
}

func fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
