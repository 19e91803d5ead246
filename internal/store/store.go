package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/kneerehab/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Store hands out typed slots over a single backend.
// All reads and writes are best-effort: they never return errors to callers.
type Store struct {
	backend        Backend
	metricsManager *metrics.Manager
}

func New(backend Backend, metricsManager *metrics.Manager) *Store {
	return &Store{
		backend:        backend,
		metricsManager: metricsManager,
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// load decodes the stored value for key into dst, reporting whether it did.
func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		reason := "error"
		if errors.Is(err, ErrNotFound) {
			reason = "missing"
		} else {
			log.Warnf("store get [%s]: %s", key, err)
		}
		s.metricsManager.CounterStoreReadFallbacks.WithLabelValues(key, reason).Inc()
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warnf("store decode [%s], discarding corrupt value: %s", key, err)
		s.metricsManager.CounterStoreReadFallbacks.WithLabelValues(key, "corrupt").Inc()
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.writeFailed(key, fmt.Errorf("encode: %w", err))
		return
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.writeFailed(key, err)
	}
}

func (s *Store) writeFailed(key string, err error) {
	log.Errorf("store set [%s], value kept in memory only: %s", key, err)
	s.metricsManager.CounterStoreWriteErrors.WithLabelValues(key).Inc()
}

// Slot is one independently keyed value. It lazily initializes from the
// stored value (or the default) on first read; every Set is persisted
// immediately.
type Slot[T any] struct {
	store  *Store
	key    string
	def    T
	value  T
	loaded bool

	validate func(T) error
}

func NewSlot[T any](s *Store, key string, def T) *Slot[T] {
	return &Slot[T]{
		store: s,
		key:   key,
		def:   def,
	}
}

// Validated makes Get treat a stored value that fails validate like a
// corrupt one: it is logged and the default is used instead.
func (sl *Slot[T]) Validated(validate func(T) error) *Slot[T] {
	sl.validate = validate
	return sl
}

func (sl *Slot[T]) Key() string {
	return sl.key
}

func (sl *Slot[T]) Get(ctx context.Context) T {
	if sl.loaded {
		return sl.value
	}

	var stored T
	if sl.store.load(ctx, sl.key, &stored) && sl.valid(stored) {
		sl.value = stored
	} else {
		sl.value = sl.def
	}
	sl.loaded = true
	return sl.value
}

func (sl *Slot[T]) valid(value T) bool {
	if sl.validate == nil {
		return true
	}
	if err := sl.validate(value); err != nil {
		log.Warnf("store value [%s] invalid, using default: %s", sl.key, err)
		sl.store.metricsManager.CounterStoreReadFallbacks.WithLabelValues(sl.key, "invalid").Inc()
		return false
	}
	return true
}

// Set updates the in-memory value and persists it. A failed write leaves
// the in-memory value updated.
func (sl *Slot[T]) Set(ctx context.Context, value T) {
	sl.value = value
	sl.loaded = true
	sl.store.save(ctx, sl.key, value)
}

// Update applies fn to the current value and stores the result.
func (sl *Slot[T]) Update(ctx context.Context, fn func(T) T) T {
	next := fn(sl.Get(ctx))
	sl.Set(ctx, next)
	return next
}
