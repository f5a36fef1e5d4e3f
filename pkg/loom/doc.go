// Package loom is a substrate for arbitrary graphs of mutable objects.
//
// When objects reference one another freely (cycles, shared links,
// many-to-many relations), no single object can own its neighbors, and
// per-object locks or shared mutable pointers invite deadlock. Loom
// stores every participating object inside one owning aggregate, the
// Context, and hands out cheap, copyable Proxy handles in place of
// direct references. A Proxy resolves back to its value only through a
// capability on the owning Context: an Accessor for reads, a Mutator
// for reads and writes.
//
// The Context is built from a Schema declaring exactly which element
// types participate; each declared member gets one Table, the unit of
// physical storage. Tables are append-only: handles are issued in
// insertion order, are never reused, and are never invalidated, because
// stored objects cannot be deleted.
//
// Two lookup tiers exist on purpose. Table.Get reports absence as an
// ordinary (value, false) result, for callers validating a handle they
// do not yet trust. The Context-level Get and GetMut assume the handle
// was issued by the context they are given, and panic if it was not,
// so misuse fails loudly instead of returning a wrong value.
//
// The package performs no internal synchronization. Callers choosing
// concurrency wrap a Context in Locked (mutual exclusion), RWLocked
// (reader/writer), or CloneReplace (copy-on-write publication); the
// resulting guards are themselves Accessors or Mutators.
package loom

// Version is the loom module version.
const Version = "0.1.0"
