package loom

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// ErrMissingMember is returned by RequireMembers when a routine's
// declared access list names a type the schema does not carry.
var ErrMissingMember = errors.New("context schema does not declare required member")

// anyTable is the type-erased view a Context keeps of its tables.
type anyTable interface {
	length() int
	clone() anyTable
	dumpRows() ([]rawRow, error)
	loadRows(rows []rawRow) error
}

// Context owns one Table per member type of its schema and is the sole
// authority for allocating proxies. All stored data lives here;
// everything else holds proxies and borrows access transiently through
// Accessor or Mutator capabilities.
//
// A bare *Context is itself both an Accessor and a Mutator. Use Access
// or Mutate to narrow the capability handed to a routine, or wrap the
// context in Locked, RWLocked, or CloneReplace for concurrent use; the
// context performs no synchronization of its own.
type Context struct {
	schema *Schema
	tables map[reflect.Type]anyTable
}

// NewContext creates a context with one empty table per schema member.
func NewContext(schema *Schema) *Context {
	tables := make(map[reflect.Type]anyTable, len(schema.members))
	for t, m := range schema.members {
		tables[t] = m.makeTable()
	}
	return &Context{schema: schema, tables: tables}
}

// Schema returns the schema this context was built from.
func (c *Context) Schema() *Schema {
	return c.schema
}

// Clone returns a structurally independent copy of the context. Every
// proxy issued by the original resolves to the copied value in the
// clone. CloneReplace uses this to stage copy-on-write mutations.
func (c *Context) Clone() *Context {
	tables := make(map[reflect.Type]anyTable, len(c.tables))
	for t, tbl := range c.tables {
		tables[t] = tbl.clone()
	}
	return &Context{schema: c.schema, tables: tables}
}

// rug and mutableRug make *Context the canonical Accessor and Mutator.
func (c *Context) rug() *Context        { return c }
func (c *Context) mutableRug() *Context { return c }

// tableOf resolves the table for T, panicking if T is not a schema
// member: presenting a type the context does not store is a contract
// violation, not a recoverable condition.
func tableOf[T any](c *Context) *Table[T] {
	t := reflect.TypeFor[T]()
	tbl, ok := c.tables[t]
	if !ok {
		panic(fmt.Sprintf("loom: %s is not a member of schema %q", t, c.schema.name))
	}
	return tbl.(*Table[T])
}

// Add stores value in the matching table and returns its proxy.
func Add[T any](m Mutator, value T) Proxy[T] {
	return tableOf[T](m.mutableRug()).Push(value)
}

// Get resolves a proxy to a copy of its value. The proxy is assumed to
// have been issued by the context behind a; if it was not, Get panics.
// Callers that cannot make that assumption should use Lookup.
func Get[T any](a Accessor, p Proxy[T]) T {
	c := a.rug()
	v, ok := tableOf[T](c).Get(p)
	if !ok {
		panic(fmt.Sprintf("loom: proxy %s was not issued by schema %q", p, c.schema.name))
	}
	return v
}

// GetMut resolves a proxy to a pointer for in-place mutation, with the
// same assumed-valid contract as Get: an unknown proxy panics.
func GetMut[T any](m Mutator, p Proxy[T]) *T {
	c := m.mutableRug()
	v, ok := tableOf[T](c).GetMut(p)
	if !ok {
		panic(fmt.Sprintf("loom: proxy %s was not issued by schema %q", p, c.schema.name))
	}
	return v
}

// Lookup is the recoverable counterpart of Get: it reports absence as
// (zero, false) instead of panicking. T must still be a schema member.
func Lookup[T any](a Accessor, p Proxy[T]) (T, bool) {
	return tableOf[T](a.rug()).Get(p)
}

// Values yields copies of every stored T in ascending index order.
func Values[T any](a Accessor) iter.Seq[T] {
	return tableOf[T](a.rug()).Values()
}

// ValuesMut yields pointers to every stored T in ascending index order
// for in-place edits.
func ValuesMut[T any](m Mutator) iter.Seq[*T] {
	return tableOf[T](m.mutableRug()).ValuesMut()
}

// Proxies yields a proxy for every stored T in ascending index order.
func Proxies[T any](a Accessor) iter.Seq[Proxy[T]] {
	return tableOf[T](a.rug()).Proxies()
}

// Len returns the number of stored values of type T.
func Len[T any](a Accessor) int {
	return tableOf[T](a.rug()).Len()
}

// Owns reports whether the context behind a declares T as a member,
// without panicking. Useful for capability checks ahead of generic
// traversals.
func Owns[T any](a Accessor) bool {
	return a.rug().schema.Owns(reflect.TypeFor[T]())
}

// RequireMembers verifies that the schema behind a declares every named
// member type. Generated routine bindings call this with the routine's
// declared access list before touching any table.
func RequireMembers(a Accessor, names ...string) error {
	s := a.rug().schema
	for _, name := range names {
		if !s.Contains(name) {
			return fmt.Errorf("%w: %q not in schema %q", ErrMissingMember, name, s.name)
		}
	}
	return nil
}
