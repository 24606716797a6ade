// Package snapshot persists solved region values with msgpack so a later
// run can inspect them without solving again.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"regionck/internal/mir"
	"regionck/internal/region"
)

// Current schema version - increment when Snapshot changes shape.
const schemaVersion uint16 = 1

// Snapshot is the on-disk form of one function's region values.
type Snapshot struct {
	Schema uint16 `msgpack:"schema"`
	Name   string `msgpack:"name"`
	// Statements holds the statement count of every block, enough to
	// rebuild the element index space.
	Statements []int      `msgpack:"statements"`
	Universal  int        `msgpack:"universal"`
	Names      []string   `msgpack:"names,omitempty"`
	Rows       [][]uint32 `msgpack:"rows"`
}

// Take captures the current contents of v.
func Take(name string, names []string, v *region.Values[region.RegionVid]) (*Snapshot, error) {
	e := v.Elements()
	s := &Snapshot{
		Schema:     schemaVersion,
		Name:       name,
		Statements: make([]int, e.NumBlocks()),
		Universal:  e.NumUniversalRegions(),
		Names:      names,
		Rows:       make([][]uint32, v.NumRegions()),
	}
	for b := range s.Statements {
		s.Statements[b] = e.NumStatements(mir.BlockID(b)) //nolint:gosec // bounded by block count
	}
	for r := range s.Rows {
		rv, err := safecast.Conv[uint32](r)
		if err != nil {
			return nil, fmt.Errorf("region id overflow: %w", err)
		}
		for i := range v.ElementIndicesContainedIn(region.RegionVid(rv)) {
			col, err := safecast.Conv[uint32](i.Index())
			if err != nil {
				return nil, fmt.Errorf("element index overflow: %w", err)
			}
			s.Rows[r] = append(s.Rows[r], col)
		}
	}
	return s, nil
}

// Restore rebuilds region values equal to the ones s was taken from.
func (s *Snapshot) Restore() (*region.Values[region.RegionVid], error) {
	if s.Universal < 0 || s.Universal > len(s.Rows) {
		return nil, fmt.Errorf("snapshot %s: %d universal regions for %d rows", s.Name, s.Universal, len(s.Rows))
	}
	for b, n := range s.Statements {
		if n < 0 {
			return nil, fmt.Errorf("snapshot %s: bb%d has negative statement count", s.Name, b)
		}
	}
	elements := region.NewElements(region.Shape(s.Statements), s.Universal)
	values := region.NewValues[region.RegionVid](elements, len(s.Rows))
	for r, row := range s.Rows {
		for _, col := range row {
			i, err := elements.CheckedIndex(int(col))
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: row %d: %w", s.Name, r, err)
			}
			values.AddElement(region.RegionVid(r), i) //nolint:gosec // bounded by len(s.Rows)
		}
	}
	return values, nil
}

// Encode writes s as msgpack.
func Encode(w io.Writer, s *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot and rejects other schema versions.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Schema != schemaVersion {
		return nil, fmt.Errorf("snapshot schema %d, want %d", s.Schema, schemaVersion)
	}
	return &s, nil
}

// WriteFile stores s as dir/<name>.mp, replacing any previous file atomically.
func WriteFile(dir string, s *Snapshot) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path = filepath.Join(dir, fileName(s.Name))
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()
	if err := Encode(f, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func fileName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if safe == "" {
		safe = "_"
	}
	return safe + ".mp"
}
