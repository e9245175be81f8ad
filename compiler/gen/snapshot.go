package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the resolved schema of one generation run. It is written next
// to the generated files when FeatureSnapshot is enabled, so that the next
// run can report how the tables changed.
type Snapshot struct {
	Package string          `msgpack:"package"`
	Tables  []TableSnapshot `msgpack:"tables"`
}

// TableSnapshot is the stored form of one table.
type TableSnapshot struct {
	Name    string   `msgpack:"name"`
	Entity  string   `msgpack:"entity"`
	Columns []string `msgpack:"columns"`
	Create  string   `msgpack:"create"`
	Indexes []string `msgpack:"indexes,omitempty"`
}

// Snapshot returns the snapshot of the tables of the graph.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{Package: g.Package}
	for _, e := range g.Tables() {
		s.Tables = append(s.Tables, TableSnapshot{
			Name:    e.Table,
			Entity:  e.Name,
			Columns: e.ColumnNames(),
			Create:  e.CreationQuery(),
			Indexes: e.IndexQueries(),
		})
	}
	return s
}

// Table returns the snapshot of the named table, or nil.
func (s *Snapshot) Table(name string) *TableSnapshot {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Encode returns the msgpack encoding of the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, NewGenerationError("snapshot", "", "encode", err)
	}
	return b, nil
}

// DecodeSnapshot decodes a snapshot written by Encode.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, NewGenerationError("snapshot", "", "decode", err)
	}
	return s, nil
}

// ReadSnapshot reads the snapshot at path. A missing file returns an empty
// snapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, NewGenerationError("snapshot", path, "read", err)
	}
	return DecodeSnapshot(b)
}

// WriteSnapshot writes s to path.
func WriteSnapshot(path string, s *Snapshot) error {
	b, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return NewGenerationError("snapshot", path, "write", err)
	}
	return nil
}

// SnapshotDiff lists the tables that differ between two snapshots.
type SnapshotDiff struct {
	Added   []string
	Removed []string
	Changed []TableChange
}

// TableChange describes a table present in both snapshots with a different
// definition.
type TableChange struct {
	Table          string
	AddedColumns   []string
	RemovedColumns []string
	Create         [2]string // old and new CREATE TABLE statements
}

// DiffSnapshots compares old and cur by table name.
func DiffSnapshots(old, cur *Snapshot) *SnapshotDiff {
	d := &SnapshotDiff{}
	for _, t := range cur.Tables {
		prev := old.Table(t.Name)
		if prev == nil {
			d.Added = append(d.Added, t.Name)
			continue
		}
		if prev.Create == t.Create && slices.Equal(prev.Indexes, t.Indexes) {
			continue
		}
		d.Changed = append(d.Changed, TableChange{
			Table:          t.Name,
			AddedColumns:   missing(t.Columns, prev.Columns),
			RemovedColumns: missing(prev.Columns, t.Columns),
			Create:         [2]string{prev.Create, t.Create},
		})
	}
	for _, t := range old.Tables {
		if cur.Table(t.Name) == nil {
			d.Removed = append(d.Removed, t.Name)
		}
	}
	return d
}

// missing returns the elements of a not in b.
func missing(a, b []string) []string {
	var out []string
	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports if the snapshots are equivalent.
func (d *SnapshotDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

func (d *SnapshotDiff) String() string {
	if d.Empty() {
		return "no changes"
	}
	var b strings.Builder
	for _, t := range d.Added {
		fmt.Fprintf(&b, "+ table %s\n", t)
	}
	for _, t := range d.Removed {
		fmt.Fprintf(&b, "- table %s\n", t)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(&b, "~ table %s\n", c.Table)
		for _, col := range c.AddedColumns {
			fmt.Fprintf(&b, "  + column %s\n", col)
		}
		for _, col := range c.RemovedColumns {
			fmt.Fprintf(&b, "  - column %s\n", col)
		}
	}
	return b.String()
}
