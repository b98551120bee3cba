package workspace

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mdgraph/pkg/errors"
)

// DefaultIdleTTL is how long an unused workspace is kept.
const DefaultIdleTTL = 2 * time.Hour

// StoreOptions configures a Store.
type StoreOptions struct {
	// Debounce for new workspaces. Zero means DefaultDebounce; negative
	// disables debouncing.
	Debounce time.Duration
	// IdleTTL after which an unused workspace is removed. Zero means
	// DefaultIdleTTL.
	IdleTTL time.Duration
	Logger  *log.Logger
}

// Store is an in-memory registry of workspaces.
type Store struct {
	gen      Generator
	debounce time.Duration
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time

	mu    sync.RWMutex
	items map[string]*Workspace
}

// NewStore returns an empty store whose workspaces generate with gen.
func NewStore(gen Generator, opts StoreOptions) *Store {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Store{
		gen:      gen,
		debounce: opts.Debounce,
		ttl:      opts.IdleTTL,
		logger:   opts.Logger,
		now:      time.Now,
		items:    make(map[string]*Workspace),
	}
}

// Create registers a new empty workspace under a random ID.
func (s *Store) Create() *Workspace {
	w := New(uuid.NewString(), s.gen, s.debounce, s.logger)
	w.now = s.now
	w.touch()

	s.mu.Lock()
	s.items[w.id] = w
	s.mu.Unlock()

	s.logger.Debug("workspace created", "workspace", w.id)
	return w
}

// Get returns the workspace with the given ID. Missing and expired
// workspaces are reported with code WORKSPACE_NOT_FOUND.
func (s *Store) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	w, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeWorkspaceNotFound, "workspace %q not found", id)
	}
	if s.expired(w, s.now()) {
		s.Delete(id)
		return nil, errors.New(errors.ErrCodeWorkspaceNotFound, "workspace %q expired", id)
	}
	return w, nil
}

// Delete removes a workspace. It reports whether one was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	w, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if ok {
		w.Reset()
	}
	return ok
}

// Len returns the number of workspaces held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Cleanup removes expired workspaces and returns how many were removed.
func (s *Store) Cleanup() int {
	now := s.now()
	var stale []string

	s.mu.RLock()
	for id, w := range s.items {
		if s.expired(w, now) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if s.Delete(id) {
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("expired workspaces removed", "count", n)
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup()
		}
	}
}

func (s *Store) expired(w *Workspace, now time.Time) bool {
	return now.Sub(w.idleSince()) > s.ttl
}
