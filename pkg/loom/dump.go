package loom

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Dump/Restore errors. These are recoverable: a failed Restore leaves
// the caller free to retry into a fresh context.
var (
	ErrContextNotEmpty = errors.New("context already holds data")
	ErrUnknownMember   = errors.New("dump names a type the schema does not declare")
)

// rawRow is one stored value encoded as JSON. Row position within a
// dump equals the value's proxy index, so handles are re-derivable and
// never stored.
type rawRow = json.RawMessage

// TableDump carries one member table's contents in index order.
type TableDump struct {
	Member string   `json:"member"`
	Rows   []rawRow `json:"rows"`
}

// Dump serializes every member table to JSON rows, in schema
// declaration order. Proxies inside stored values encode as bare
// indexes, so links survive the round trip.
//
// This is the hook persistence collaborators build on; the core layer
// itself never touches disk.
func (c *Context) Dump() ([]TableDump, error) {
	dumps := make([]TableDump, 0, len(c.schema.order))
	for _, t := range c.schema.order {
		rows, err := c.tables[t].dumpRows()
		if err != nil {
			return nil, fmt.Errorf("dumping member %s: %w", t, err)
		}
		dumps = append(dumps, TableDump{Member: c.schema.members[t].name, Rows: rows})
	}
	return dumps, nil
}

// Restore loads dumped rows into an empty context of the same schema.
// Row order fixes proxy indexes, so every proxy issued before the dump
// resolves identically after the restore. Restoring into a context
// that already holds data fails with ErrContextNotEmpty.
func (c *Context) Restore(dumps []TableDump) error {
	for _, tbl := range c.tables {
		if tbl.length() != 0 {
			return ErrContextNotEmpty
		}
	}
	for _, d := range dumps {
		m, ok := c.schema.memberByName(d.Member)
		if !ok {
			return fmt.Errorf("%w: %q not in schema %q", ErrUnknownMember, d.Member, c.schema.name)
		}
		if err := c.tables[m.typ].loadRows(d.Rows); err != nil {
			return fmt.Errorf("restoring member %q: %w", d.Member, err)
		}
	}
	return nil
}

// anyTable implementation for Table[T].

func (t *Table[T]) length() int {
	return len(t.items)
}

func (t *Table[T]) clone() anyTable {
	return t.Clone()
}

func (t *Table[T]) dumpRows() ([]rawRow, error) {
	rows := make([]rawRow, len(t.items))
	for i, item := range t.items {
		doc, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", i, err)
		}
		rows[i] = doc
	}
	return rows, nil
}

func (t *Table[T]) loadRows(rows []rawRow) error {
	for i, row := range rows {
		var v T
		if err := json.Unmarshal(row, &v); err != nil {
			return fmt.Errorf("decoding row %d: %w", i, err)
		}
		t.Push(v)
	}
	return nil
}
