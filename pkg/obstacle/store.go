package obstacle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// KV is the device key-value store the obstacle list is persisted in.
// Each call is atomic on its own; there are no transactions across calls.
type KV interface {
	// Get returns the value under key. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error
}

// Store persists the ordered obstacle list as a single JSON array under one key.
//
// Every mutation reads the whole list, changes it and writes the whole list back.
// Mutations issued through the same Store are serialized by an in-process mutex.
// Two Stores (or two processes) sharing one backend are not coordinated: concurrent
// writers race and the last full-list write wins.
type Store struct {
	kv        KV
	key       string
	logger    *zap.Logger
	publisher Publisher
	now       func() time.Time

	mu  sync.Mutex
	ids idSequence
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default "obstacles").
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for diagnostics. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for IDs and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPublisher sets a Publisher notified after every successful mutation.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// NewStore creates a store on top of kv.
// Returns an error if kv is nil or the configured key is empty.
func NewStore(kv KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value store cannot be nil")
	}

	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.key == "" {
		return nil, fmt.Errorf("storage key cannot be empty")
	}
	s.ids.now = s.now

	return s, nil
}

// Key returns the storage key holding the obstacle array.
func (s *Store) Key() string {
	return s.key
}

// List returns all obstacles in insertion order.
// Storage and decode failures are logged and yield an empty list; List never fails.
func (s *Store) List(ctx context.Context) []Obstacle {
	list, _, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Failed to read obstacles", zap.String("key", s.key), zap.Error(err))
		return []Obstacle{}
	}
	return list
}

// Get returns the obstacle with the given ID, if it exists.
// A read failure is logged and reported as not found; use Find to tell the two apart.
func (s *Store) Get(ctx context.Context, id string) (*Obstacle, bool) {
	o, found, err := s.Find(ctx, id)
	if err != nil {
		s.logger.Error("Failed to read obstacles", zap.String("key", s.key), zap.Error(err))
		return nil, false
	}
	return o, found
}

// Find returns the obstacle with the given ID.
// found is false when no obstacle matches. Storage read failures are returned.
func (s *Store) Find(ctx context.Context, id string) (o *Obstacle, found bool, err error) {
	list, _, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if idx := indexOf(list, id); idx >= 0 {
		return &list[idx], true, nil
	}
	return nil, false, nil
}

// Create appends a new obstacle with a fresh ID.
// Returns false on any failure; the cause is logged.
func (s *Store) Create(ctx context.Context, f Fields) bool {
	if _, err := s.CreateObstacle(ctx, f); err != nil {
		s.logger.Error("Failed to create obstacle", zap.String("key", s.key), zap.Error(err))
		return false
	}
	return true
}

// Update replaces the fields of the obstacle with the given ID.
// A missing ID leaves the list untouched and still succeeds.
// Returns false on any failure; the cause is logged.
func (s *Store) Update(ctx context.Context, id string, f Fields) bool {
	if _, err := s.UpdateObstacle(ctx, id, f); err != nil {
		s.logger.Error("Failed to update obstacle", zap.String("key", s.key), zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// Delete removes the obstacle with the given ID.
// A missing ID leaves the list untouched and still succeeds.
// Returns false on any failure; the cause is logged.
func (s *Store) Delete(ctx context.Context, id string) bool {
	if _, err := s.DeleteObstacle(ctx, id); err != nil {
		s.logger.Error("Failed to delete obstacle", zap.String("key", s.key), zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// CreateObstacle appends a new obstacle and returns it with its assigned ID.
// Validates the fields before touching storage.
func (s *Store) CreateObstacle(ctx context.Context, f Fields) (*Obstacle, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid obstacle: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, unreadable, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	created := Obstacle{ID: s.ids.next(list)}
	created.apply(f)

	if err := s.save(ctx, append(list, created), unreadable); err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, created)
	return &created, nil
}

// UpdateObstacle replaces the fields of the obstacle with the given ID, keeping the ID.
// found is false when no obstacle matches; storage is not written in that case.
func (s *Store) UpdateObstacle(ctx context.Context, id string, f Fields) (found bool, err error) {
	if err := f.Validate(); err != nil {
		return false, fmt.Errorf("invalid obstacle: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, unreadable, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return false, nil
	}
	list[idx].apply(f)

	if err := s.save(ctx, list, unreadable); err != nil {
		return true, err
	}

	s.publish(ctx, EventUpdated, list[idx])
	return true, nil
}

// DeleteObstacle removes the obstacle with the given ID.
// found is false when no obstacle matches; storage is not written in that case.
func (s *Store) DeleteObstacle(ctx context.Context, id string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, unreadable, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return false, nil
	}
	removed := list[idx]

	kept := make([]Obstacle, 0, len(list)-1)
	for i := range list {
		if list[i].ID != id {
			kept = append(kept, list[i])
		}
	}

	if err := s.save(ctx, kept, unreadable); err != nil {
		return true, err
	}

	s.publish(ctx, EventDeleted, removed)
	return true, nil
}

// load reads and decodes the stored list.
// Storage failures are returned. Malformed data is logged and treated as an empty list.
// Array elements that cannot be decoded are logged and returned in unreadable so that
// save can write them back.
func (s *Store) load(ctx context.Context) (list []Obstacle, unreadable []json.RawMessage, err error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read obstacles from storage: %w", err)
	}
	if !ok || raw == "" {
		return []Obstacle{}, nil, nil
	}

	list, unreadable, recovered, err := DecodeList(raw)
	if err != nil {
		s.logger.Error("Stored obstacles are malformed, treating as empty",
			zap.String("key", s.key), zap.Error(err))
		return []Obstacle{}, nil, nil
	}
	if recovered {
		s.logger.Warn("Stored obstacles were not an array, recovering single record",
			zap.String("key", s.key))
	}
	if len(unreadable) > 0 {
		s.logger.Warn("Skipping unreadable obstacle records",
			zap.String("key", s.key), zap.Int("count", len(unreadable)))
	}

	return list, unreadable, nil
}

func (s *Store) save(ctx context.Context, list []Obstacle, unreadable []json.RawMessage) error {
	raw, err := encodeStored(list, unreadable)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write obstacles to storage: %w", err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, kind EventKind, o Obstacle) {
	if s.publisher == nil {
		return
	}
	ev := newEvent(kind, o, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish obstacle event",
			zap.String("kind", string(kind)), zap.String("id", o.ID), zap.Error(err))
	}
}

func indexOf(list []Obstacle, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
