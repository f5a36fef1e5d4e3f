package loom

// Accessor grants read access to a context, independent of how the
// context is held: a bare *Context, a read-narrowed Ref, a reader-lock
// guard, or a copy-on-write snapshot. Routines written against an
// Accessor work unchanged with any of them.
//
// Only types in this package implement Accessor; the resolution method
// is unexported so a capability cannot be forged from outside.
type Accessor interface {
	rug() *Context
}

// Mutator grants read-write access to a context: everything an
// Accessor grants, plus Add, GetMut, and ValuesMut. Implemented by a
// bare *Context, a MutRef, exclusive lock guards, and the
// clone-replace MutateGuard.
type Mutator interface {
	Accessor
	mutableRug() *Context
}

// Ref is a read-only capability over a context. It carries no state of
// its own and forwards every operation unchanged.
type Ref struct {
	c *Context
}

// Access narrows a context to its read capability. Handing a Ref to a
// routine documents, and enforces at compile time, that the routine
// cannot insert or mutate.
func Access(c *Context) Ref {
	return Ref{c: c}
}

func (r Ref) rug() *Context { return r.c }

// MutRef is a read-write capability over a context, the explicit form
// of passing the *Context itself.
type MutRef struct {
	c *Context
}

// Mutate wraps a context in its read-write capability.
func Mutate(c *Context) MutRef {
	return MutRef{c: c}
}

func (r MutRef) rug() *Context        { return r.c }
func (r MutRef) mutableRug() *Context { return r.c }
