package wordjump

import (
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/peco/wordjump/hub"
)

// Registry keeps one Session per open view, ordered by ViewID.
//
// Lookups are safe from any goroutine. Open, Close and CloseAll touch
// the editors involved and must be called on the UI context.
type Registry struct {
	hub   *hub.Hub
	mutex sync.RWMutex
	opts  Options
	tree  *btree.BTreeG[*Session]
}

func lessSession(a, b *Session) bool {
	return a.id < b.id
}

// NewRegistry creates an empty Registry whose sessions run on h.
func NewRegistry(h *hub.Hub, opts Options) *Registry {
	return &Registry{
		hub:  h,
		opts: opts.normalize(),
		tree: btree.NewG[*Session](32, lessSession),
	}
}

// Open creates the session of view id. A session previously opened
// for the same id is disposed first. Editors that report an empty
// project get no session and Open returns nil.
func (r *Registry) Open(ctx context.Context, id ViewID, ed Editor) *Session {
	if p, ok := ed.(Projector); ok && p.Project() == "" {
		tracer.Printf("registry: view %s has no project, skipping", id)
		return nil
	}

	r.mutex.Lock()
	s := newSession(ctx, id, ed, r.hub, r.opts)
	old, replaced := r.tree.ReplaceOrInsert(s)
	r.mutex.Unlock()

	if replaced {
		old.Dispose()
	}
	tracer.Printf("registry: opened session for view %s", id)
	return s
}

// Close disposes the session of view id. It reports whether there was
// one.
func (r *Registry) Close(id ViewID) bool {
	r.mutex.Lock()
	s, ok := r.tree.Delete(&Session{id: id})
	r.mutex.Unlock()

	if !ok {
		return false
	}
	s.Dispose()
	return true
}

// CloseAll disposes every session, in ViewID order.
func (r *Registry) CloseAll() {
	r.mutex.Lock()
	sessions := r.snapshot()
	r.tree.Clear(false)
	r.mutex.Unlock()

	for _, s := range sessions {
		s.Dispose()
	}
}

// Session returns the session of view id, or nil.
func (r *Registry) Session(id ViewID) *Session {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.tree.Get(&Session{id: id})
	if !ok {
		return nil
	}
	return s
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.tree.Len()
}

// Ascend calls fn for each session in ViewID order until fn returns
// false. fn must not call back into the registry.
func (r *Registry) Ascend(fn func(*Session) bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	r.tree.Ascend(func(s *Session) bool {
		return fn(s)
	})
}

// Navigate schedules a browse request for view id on the UI context.
// It reports false if the view has no session.
func (r *Registry) Navigate(ctx context.Context, id ViewID, dir Direction) (bool, error) {
	s := r.Session(id)
	if s == nil {
		return false, nil
	}
	if err := r.hub.Post(ctx, func(ctx context.Context) {
		s.Navigate(ctx, dir)
	}); err != nil {
		return false, err
	}
	return true, nil
}

// Options returns the options new sessions are created with.
func (r *Registry) Options() Options {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.opts
}

// SetOptions changes the options of new sessions and schedules the
// update of every open one on the UI context.
func (r *Registry) SetOptions(ctx context.Context, opts Options) error {
	opts = opts.normalize()

	r.mutex.Lock()
	r.opts = opts
	sessions := r.snapshot()
	r.mutex.Unlock()

	return r.hub.Post(ctx, func(context.Context) {
		for _, s := range sessions {
			if !s.Disposed() {
				s.SetOptions(opts)
			}
		}
	})
}

func (r *Registry) snapshot() []*Session {
	sessions := make([]*Session, 0, r.tree.Len())
	r.tree.Ascend(func(s *Session) bool {
		sessions = append(sessions, s)
		return true
	})
	return sessions
}
