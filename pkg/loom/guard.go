package loom

import "sync"

// Locked pairs a context with a mutex so the whole graph is one unit
// of mutual exclusion. There is deliberately no finer granularity: one
// exclusive capability at a time removes any possibility of per-object
// lock-ordering hazards.
type Locked struct {
	mu sync.Mutex
	c  *Context
}

// NewLocked takes ownership of the context. Callers must stop using
// the bare *Context and go through Lock from then on.
func NewLocked(c *Context) *Locked {
	return &Locked{c: c}
}

// Lock blocks until the context is exclusively held and returns a
// Mutator guard. Call Release when done.
func (l *Locked) Lock() *Guard {
	l.mu.Lock()
	return &Guard{l: l, c: l.c}
}

// Guard is the exclusive capability handed out by Locked.Lock. It is a
// Mutator; using it after Release is a contract violation and panics.
type Guard struct {
	l *Locked
	c *Context
}

func (g *Guard) rug() *Context {
	if g.c == nil {
		panic("loom: use of guard after Release")
	}
	return g.c
}

func (g *Guard) mutableRug() *Context {
	return g.rug()
}

// Release unlocks the context. Releasing twice is a no-op.
func (g *Guard) Release() {
	if g.c == nil {
		return
	}
	g.c = nil
	g.l.mu.Unlock()
}

// RWLocked pairs a context with a reader/writer lock: any number of
// concurrent read guards, or one exclusive write guard.
type RWLocked struct {
	mu sync.RWMutex
	c  *Context
}

// NewRWLocked takes ownership of the context, as NewLocked does.
func NewRWLocked(c *Context) *RWLocked {
	return &RWLocked{c: c}
}

// RLock blocks until shared access is available and returns an
// Accessor guard.
func (l *RWLocked) RLock() *ReadGuard {
	l.mu.RLock()
	return &ReadGuard{l: l, c: l.c}
}

// Lock blocks until exclusive access is available and returns a
// Mutator guard.
func (l *RWLocked) Lock() *WriteGuard {
	l.mu.Lock()
	return &WriteGuard{l: l, c: l.c}
}

// ReadGuard is the shared capability handed out by RWLocked.RLock.
type ReadGuard struct {
	l *RWLocked
	c *Context
}

func (g *ReadGuard) rug() *Context {
	if g.c == nil {
		panic("loom: use of read guard after Release")
	}
	return g.c
}

// Release drops the shared hold. Releasing twice is a no-op.
func (g *ReadGuard) Release() {
	if g.c == nil {
		return
	}
	g.c = nil
	g.l.mu.RUnlock()
}

// WriteGuard is the exclusive capability handed out by RWLocked.Lock.
type WriteGuard struct {
	l *RWLocked
	c *Context
}

func (g *WriteGuard) rug() *Context {
	if g.c == nil {
		panic("loom: use of write guard after Release")
	}
	return g.c
}

func (g *WriteGuard) mutableRug() *Context {
	return g.rug()
}

// Release drops the exclusive hold. Releasing twice is a no-op.
func (g *WriteGuard) Release() {
	if g.c == nil {
		return
	}
	g.c = nil
	g.l.mu.Unlock()
}
