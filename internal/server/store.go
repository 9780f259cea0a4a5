package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/blobgeom/pkg/cache"
	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/pipeline"
	"github.com/matzehuels/blobgeom/pkg/scene"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

// entry is a live scene. Its mutex serializes ticks and edits so the engine
// only ever sees one caller.
type entry struct {
	mu      sync.Mutex
	id      string
	scene   *scene.Scene
	arena   *shape.Arena
	engine  *pipeline.Engine
	touched time.Time
	deleted bool
}

// snapshot copies the scene for encoding outside the lock.
func (e *entry) snapshot() *scene.Scene {
	sc := *e.scene
	sc.SetShapes(e.arena.Shapes())
	return &sc
}

// Store keeps live scenes in memory and writes them through to a cache so
// they survive restarts and can be picked up by other instances. Engines are
// never persisted; a scene loaded from the cache starts with a cold engine.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	backing cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger
}

// NewStore creates a store. A nil backing cache keeps scenes in memory only.
func NewStore(backing cache.Cache, keyer cache.Keyer, logger *log.Logger) *Store {
	if backing == nil {
		backing = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		entries: make(map[string]*entry),
		backing: backing,
		keyer:   keyer,
		ttl:     cache.TTLScene,
		logger:  logger,
	}
}

// Create stores sc under a fresh id.
func (s *Store) Create(ctx context.Context, sc *scene.Scene) (string, error) {
	e, err := s.newEntry(uuid.NewString(), sc)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.entries[e.id] = e
	s.mu.Unlock()
	s.persist(ctx, e)
	return e.id, nil
}

func (s *Store) newEntry(id string, sc *scene.Scene) (*entry, error) {
	if sc == nil {
		sc = &scene.Scene{}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	arena, err := sc.Arena()
	if err != nil {
		return nil, err
	}
	sc.SetShapes(arena.Shapes())
	return &entry{
		id:      id,
		scene:   sc,
		arena:   arena,
		engine:  pipeline.NewEngine(s.logger),
		touched: time.Now(),
	}, nil
}

// With runs fn with exclusive access to the scene. Changes made by fn are
// written back when mutate is true and fn succeeds.
func (s *Store) With(ctx context.Context, id string, mutate bool, fn func(e *entry) error) error {
	e, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	return s.run(ctx, e, mutate, fn)
}

// run locks e and applies fn. An entry deleted after it was fetched reports
// not found and is never written back.
func (s *Store) run(ctx context.Context, e *entry, mutate bool, fn func(e *entry) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", e.id)
	}
	e.touched = time.Now()
	if err := fn(e); err != nil {
		return err
	}
	if mutate {
		e.scene.SetShapes(e.arena.Shapes())
		s.persist(ctx, e)
	}
	return nil
}

func (s *Store) get(ctx context.Context, id string) (*entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", id)
	}
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	data, hit, err := s.backing.Get(ctx, s.keyer.SceneKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load scene %s", id)
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", id)
	}
	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode scene %s", id)
	}
	e, err = s.newEntry(id, &sc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[id]; ok {
		return existing, nil
	}
	s.entries[id] = e
	return e, nil
}

// Delete removes a scene. The entry is marked under its own lock first, so a
// concurrent edit either finishes before the backing copy is removed or sees
// the mark and stops. The map entry goes last so a reload cannot race the
// backing delete.
func (s *Store) Delete(ctx context.Context, id string) error {
	e, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	already := e.deleted
	e.deleted = true
	e.mu.Unlock()
	if already {
		return errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", id)
	}

	if err := s.backing.Delete(ctx, s.keyer.SceneKey(id)); err != nil {
		return err
	}
	s.mu.Lock()
	if s.entries[id] == e {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	return nil
}

// Cleanup evicts scenes idle for longer than the scene TTL from memory.
// Persisted copies expire on their own.
func (s *Store) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		e.mu.Lock()
		idle := now.Sub(e.touched) > s.ttl
		e.mu.Unlock()
		if idle {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of scenes held in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) persist(ctx context.Context, e *entry) {
	data, err := json.Marshal(e.scene)
	if err != nil {
		s.logger.Warn("encode scene", "id", e.id, "err", err)
		return
	}
	if err := s.backing.Set(ctx, s.keyer.SceneKey(e.id), data, s.ttl); err != nil {
		s.logger.Warn("persist scene", "id", e.id, "err", err)
	}
}
