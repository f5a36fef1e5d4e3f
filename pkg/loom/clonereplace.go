package loom

import (
	"sync"
	"sync/atomic"
)

// CloneReplace holds a context behind an atomically replaceable
// pointer, for workloads that favor optimistic reads over locking.
// Readers take a stable snapshot and never block; a writer stages its
// changes on a private clone of the whole graph and publishes the
// finished replacement in one atomic swap. Writers serialize among
// themselves.
type CloneReplace struct {
	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[Context]
}

// NewCloneReplace takes ownership of the context as the initial
// published state.
func NewCloneReplace(c *Context) *CloneReplace {
	cr := &CloneReplace{}
	cr.cur.Store(c)
	return cr
}

// Read returns a read capability over the currently published state.
// The snapshot stays coherent for as long as it is held, no matter how
// many replacements are published after it was taken.
func (cr *CloneReplace) Read() Snapshot {
	return Snapshot{c: cr.cur.Load()}
}

// Mutate blocks until no other writer is active, clones the published
// state, and returns a Mutator staging writes against the clone.
// Nothing is visible to readers until Commit.
func (cr *CloneReplace) Mutate() *MutateGuard {
	cr.mu.Lock()
	return &MutateGuard{cr: cr, work: cr.cur.Load().Clone()}
}

// Snapshot is a read capability over one published state of a
// CloneReplace.
type Snapshot struct {
	c *Context
}

func (s Snapshot) rug() *Context { return s.c }

// MutateGuard is the write capability handed out by
// CloneReplace.Mutate. Finish with exactly one of Commit or Discard;
// use after either is a contract violation and panics.
type MutateGuard struct {
	cr   *CloneReplace
	work *Context
}

func (g *MutateGuard) rug() *Context {
	if g.work == nil {
		panic("loom: use of mutate guard after Commit or Discard")
	}
	return g.work
}

func (g *MutateGuard) mutableRug() *Context {
	return g.rug()
}

// Commit publishes the staged clone atomically and releases the
// writer slot. Readers holding earlier snapshots are unaffected.
func (g *MutateGuard) Commit() {
	if g.work == nil {
		return
	}
	g.cr.cur.Store(g.work)
	g.work = nil
	g.cr.mu.Unlock()
}

// Discard abandons the staged clone without publishing and releases
// the writer slot.
func (g *MutateGuard) Discard() {
	if g.work == nil {
		return
	}
	g.work = nil
	g.cr.mu.Unlock()
}
