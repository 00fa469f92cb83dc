package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// session owns one controller. mu serializes transitions because a
// controller is not safe for concurrent use.
type session struct {
	id   string
	mu   sync.Mutex
	ctrl *view.Controller

	created  time.Time
	lastUsed time.Time
}

// sessionStore holds open sessions. When full, creating a session evicts
// the least recently used one.
type sessionStore struct {
	mu    sync.Mutex
	limit int
	items map[string]*session
	now   func() time.Time
}

func newSessionStore(limit int) *sessionStore {
	return &sessionStore{
		limit: limit,
		items: make(map[string]*session),
		now:   time.Now,
	}
}

// create opens a session over g and returns it with its initial snapshot
// and the id of the evicted session, if any. The snapshot is taken before
// the session is published.
func (st *sessionStore) create(g *lineage.Graph, cfg view.Config) (*session, view.Snapshot, string) {
	ctrl := view.New(g, cfg)
	snap := ctrl.Snapshot()

	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted string
	if len(st.items) >= st.limit {
		evicted = st.oldest()
		delete(st.items, evicted)
	}
	now := st.now()
	s := &session{
		id:       uuid.NewString(),
		ctrl:     ctrl,
		created:  now,
		lastUsed: now,
	}
	st.items[s.id] = s
	return s, snap, evicted
}

func (st *sessionStore) oldest() string {
	var (
		id string
		at time.Time
	)
	for k, s := range st.items {
		if id == "" || s.lastUsed.Before(at) {
			id, at = k, s.lastUsed
		}
	}
	return id
}

// get returns the session and marks it used.
func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.items[id]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.lastUsed = st.now()
	return s, nil
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.items[id]; !ok {
		return false
	}
	delete(st.items, id)
	return true
}

// reset closes every session and returns how many were open.
func (st *sessionStore) reset() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := len(st.items)
	clear(st.items)
	return n
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.items)
}
