package codegen

import (
	"errors"
	"fmt"
	"unicode"
)

// Declaration errors. All of them surface before any code is written,
// so a malformed declaration can never produce a partially generated
// file.
var (
	ErrPackageEmpty      = errors.New("declaration has no package name")
	ErrNoContexts        = errors.New("declaration has no contexts")
	ErrBadIdentifier     = errors.New("name is not a valid Go identifier")
	ErrDuplicateContext  = errors.New("context declared twice")
	ErrContextNoMembers  = errors.New("context declares no members")
	ErrDuplicateMember   = errors.New("member declared twice in one context")
	ErrMultipleOwners    = errors.New("member declared in two contexts")
	ErrRoutineNoContext  = errors.New("routine names an undeclared context")
	ErrRoutineEmptyAccess = errors.New("routine declares no access list")
	ErrAccessNotMember   = errors.New("routine access list names a type that is not a member of its context")
)

// isIdentifier reports whether s is usable as a Go identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// Validate checks the declaration for structural errors: bad
// identifiers, duplicate or doubly owned members, and routines whose
// access lists reach outside their context. It returns the first error
// found, wrapped with enough position detail to fix the file.
func (d *Decl) Validate() error {
	if d.Package == "" {
		return ErrPackageEmpty
	}
	if !isIdentifier(d.Package) {
		return fmt.Errorf("%w: package %q", ErrBadIdentifier, d.Package)
	}
	if len(d.Contexts) == 0 {
		return ErrNoContexts
	}

	owner := make(map[string]string)   // member -> context name
	contexts := make(map[string][]string) // context name -> members

	for _, c := range d.Contexts {
		if !isIdentifier(c.Name) {
			return fmt.Errorf("%w: context %q", ErrBadIdentifier, c.Name)
		}
		if _, dup := contexts[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateContext, c.Name)
		}
		if len(c.Members) == 0 {
			return fmt.Errorf("%w: %q", ErrContextNoMembers, c.Name)
		}
		seen := make(map[string]bool, len(c.Members))
		for _, m := range c.Members {
			if !isIdentifier(m) {
				return fmt.Errorf("%w: member %q in context %q", ErrBadIdentifier, m, c.Name)
			}
			if seen[m] {
				return fmt.Errorf("%w: %q in context %q", ErrDuplicateMember, m, c.Name)
			}
			seen[m] = true
			if prev, owned := owner[m]; owned {
				return fmt.Errorf("%w: %q in %q and %q", ErrMultipleOwners, m, prev, c.Name)
			}
			owner[m] = c.Name
		}
		contexts[c.Name] = c.Members
	}

	for _, r := range d.Routines {
		if !isIdentifier(r.Name) {
			return fmt.Errorf("%w: routine %q", ErrBadIdentifier, r.Name)
		}
		members, ok := contexts[r.Context]
		if !ok {
			return fmt.Errorf("%w: routine %q context %q", ErrRoutineNoContext, r.Name, r.Context)
		}
		if len(r.Access) == 0 {
			return fmt.Errorf("%w: routine %q", ErrRoutineEmptyAccess, r.Name)
		}
		for _, a := range r.Access {
			if !contains(members, a) {
				return fmt.Errorf("%w: routine %q needs %q, not in context %q",
					ErrAccessNotMember, r.Name, a, r.Context)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
