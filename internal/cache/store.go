// Package cache implements the short-lived read cache that absorbs bursts of
// identical polling queries. Entries are stamped with a store-wide generation:
// every mutation bumps the generation and clears all partitions, so a key built
// after a mutation can never match an entry written before it, even if a slow
// writer races the clear.
package cache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/balcaopos/comanda/internal/clock"
)

// Cloner is implemented by cached payload types. Both Set and Get go through
// Clone so no caller can mutate a cached structure through a held reference.
type Cloner[T any] interface {
	Clone() T
}

// Config controls entry lifetime and per-partition capacity.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

func DefaultConfig() Config {
	return Config{
		TTL:        time.Second,
		MaxEntries: 512,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = defaults.TTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = defaults.MaxEntries
	}
	return c
}

type clearable interface {
	clearLocked()
}

// Store owns the generation counter and the shared lock for every partition.
// The lock is held only for the in-memory critical section, never across
// database calls.
type Store struct {
	mu         sync.Mutex
	clk        clock.Clock
	cfg        Config
	generation uint64
	partitions []clearable
}

func NewStore(clk clock.Clock, cfg Config) *Store {
	return &Store{
		clk: clk,
		cfg: cfg.withDefaults(),
	}
}

// Invalidate bumps the generation and clears every partition. Called by all
// mutating operations after commit.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for _, p := range s.partitions {
		p.clearLocked()
	}
}

// Key builds a cache key from the current generation and the query parameters.
func (s *Store) Key(op string, parts ...any) string {
	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	elems := make([]string, 0, len(parts)+2)
	elems = append(elems, strconv.FormatUint(generation, 10), op)
	for _, part := range parts {
		elems = append(elems, strings.ToLower(fmt.Sprint(part)))
	}
	return strings.Join(elems, "|")
}

func (s *Store) register(p clearable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions = append(s.partitions, p)
}

type entry[T any] struct {
	expiresAt time.Time
	payload   T
}

// Partition is one named cache region (order detail, listings, panel, ...).
// Eviction is per partition: expired entries are purged first, then the
// oldest-inserted entry goes.
type Partition[T Cloner[T]] struct {
	store   *Store
	entries map[string]entry[T]
	order   []string
}

func NewPartition[T Cloner[T]](store *Store) *Partition[T] {
	p := &Partition[T]{
		store:   store,
		entries: make(map[string]entry[T]),
	}
	store.register(p)
	return p
}

// Get returns a deep copy of the cached payload, evicting it when expired.
func (p *Partition[T]) Get(key string) (T, bool) {
	var zero T
	now := p.store.clk.Now()

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	e, ok := p.entries[key]
	if !ok {
		return zero, false
	}
	if !e.expiresAt.After(now) {
		p.removeLocked(key)
		return zero, false
	}
	return e.payload.Clone(), true
}

// Set stores a deep copy of payload under key, enforcing the capacity limit.
func (p *Partition[T]) Set(key string, payload T) {
	now := p.store.clk.Now()

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, exists := p.entries[key]; !exists && len(p.entries) >= p.store.cfg.MaxEntries {
		p.purgeExpiredLocked(now)
		if len(p.entries) >= p.store.cfg.MaxEntries && len(p.order) > 0 {
			p.removeLocked(p.order[0])
		}
	}

	if _, exists := p.entries[key]; !exists {
		p.order = append(p.order, key)
	}
	p.entries[key] = entry[T]{
		expiresAt: now.Add(p.store.cfg.TTL),
		payload:   payload.Clone(),
	}
}

// Len reports the number of live entries. Test hook.
func (p *Partition[T]) Len() int {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	return len(p.entries)
}

func (p *Partition[T]) purgeExpiredLocked(now time.Time) {
	for key, e := range p.entries {
		if !e.expiresAt.After(now) {
			p.removeLocked(key)
		}
	}
}

func (p *Partition[T]) removeLocked(key string) {
	delete(p.entries, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *Partition[T]) clearLocked() {
	p.entries = make(map[string]entry[T])
	p.order = nil
}
