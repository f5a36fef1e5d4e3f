package loom

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Schema declaration errors. All of them surface from Build, before any
// context exists, so malformed declarations can never reach runtime use.
var (
	ErrSchemaNameEmpty = errors.New("schema name must not be empty")
	ErrNoMembers       = errors.New("schema declares no member types")
	ErrDuplicateMember = errors.New("type is already a member of this schema")
	ErrMemberOwned     = errors.New("type is owned by another schema")
)

// owners binds each member type to the single schema name entitled to
// own it. A proxy for a type is meaningful only against contexts of the
// owning schema, so double ownership is rejected at declaration time.
var owners sync.Map // reflect.Type -> string

// member records one declared element type: its display name, runtime
// type, and a constructor for its table.
type member struct {
	name      string
	typ       reflect.Type
	makeTable func() anyTable
}

// Schema is the static enumeration of element types a Context stores:
// one member, and therefore one table, per participating type. Build
// one with NewSchema and Member, then instantiate contexts with
// NewContext. A frozen Schema is immutable and safe to share.
type Schema struct {
	name    string
	members map[reflect.Type]*member
	order   []reflect.Type
}

// Name returns the declared schema name.
func (s *Schema) Name() string {
	return s.name
}

// Members returns the member type names in declaration order.
func (s *Schema) Members() []string {
	names := make([]string, len(s.order))
	for i, t := range s.order {
		names[i] = s.members[t].name
	}
	return names
}

// Owns reports whether the schema declares the given type as a member.
func (s *Schema) Owns(t reflect.Type) bool {
	_, ok := s.members[t]
	return ok
}

// Contains reports whether the schema declares a member with the given
// type name.
func (s *Schema) Contains(name string) bool {
	_, ok := s.memberByName(name)
	return ok
}

func (s *Schema) memberByName(name string) (*member, bool) {
	for _, t := range s.order {
		if s.members[t].name == name {
			return s.members[t], true
		}
	}
	return nil, false
}

// Builder accumulates a schema declaration. Errors are collected as
// members are added and reported together by Build.
type Builder struct {
	name    string
	members map[reflect.Type]*member
	order   []reflect.Type
	errs    []error
}

// NewSchema starts a schema declaration with the given name.
func NewSchema(name string) *Builder {
	return &Builder{
		name:    name,
		members: make(map[reflect.Type]*member),
	}
}

// Member declares T as a member of the schema under construction.
// Declaring the same type twice, or two types that share a display
// name, is a declaration error reported by Build.
func Member[T any](b *Builder) *Builder {
	t := reflect.TypeFor[T]()
	if _, dup := b.members[t]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrDuplicateMember, t))
		return b
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	for _, prev := range b.order {
		if b.members[prev].name == name {
			b.errs = append(b.errs, fmt.Errorf("%w: name %q collides with %s", ErrDuplicateMember, name, prev))
			return b
		}
	}
	b.members[t] = &member{
		name: name,
		typ:  t,
		makeTable: func() anyTable {
			return NewTable[T]()
		},
	}
	b.order = append(b.order, t)
	return b
}

// Build validates the declaration and freezes it into a Schema. It
// enforces system-wide single ownership: a type already bound to a
// differently named schema cannot be declared again. Rebuilding a
// schema under the same name is allowed.
func (b *Builder) Build() (*Schema, error) {
	if b.name == "" {
		return nil, ErrSchemaNameEmpty
	}
	if len(b.order) == 0 {
		return nil, ErrNoMembers
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	for _, t := range b.order {
		if owner, ok := owners.Load(t); ok && owner.(string) != b.name {
			return nil, fmt.Errorf("%w: %s belongs to schema %q", ErrMemberOwned, t, owner)
		}
	}
	for _, t := range b.order {
		owners.Store(t, b.name)
	}
	members := make(map[reflect.Type]*member, len(b.members))
	for t, m := range b.members {
		members[t] = m
	}
	order := make([]reflect.Type, len(b.order))
	copy(order, b.order)
	return &Schema{name: b.name, members: members, order: order}, nil
}

// MustBuild is Build, panicking on declaration errors. Intended for
// generated bindings and package-level schema variables, where a
// malformed declaration should stop the program immediately.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("loom: building schema %q: %v", b.name, err))
	}
	return s
}
