package bitmatrix

import (
	"fmt"
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// Index is the set of integer types usable as row or column ids.
type Index interface {
	~int | ~int32 | ~uint32
}

// SparseMatrix is a numRows x numColumns bit matrix with lazily allocated rows.
// An allocated row is a dense bitset over all columns.
type SparseMatrix[R, C Index] struct {
	rows    []*bitset.BitSet
	columns int
}

// New creates an empty matrix. Negative sizes are a caller bug.
func New[R, C Index](numRows, numColumns int) *SparseMatrix[R, C] {
	if numRows < 0 || numColumns < 0 {
		panic(fmt.Errorf("bitmatrix: invalid size %dx%d", numRows, numColumns))
	}
	return &SparseMatrix[R, C]{
		rows:    make([]*bitset.BitSet, numRows),
		columns: numColumns,
	}
}

func (m *SparseMatrix[R, C]) NumRows() int    { return len(m.rows) }
func (m *SparseMatrix[R, C]) NumColumns() int { return m.columns }

// Add sets bit (r, c) and reports whether it was previously clear.
func (m *SparseMatrix[R, C]) Add(r R, c C) bool {
	col := m.column(c)
	row := m.ensureRow(r)
	if row.Test(col) {
		return false
	}
	row.Set(col)
	return true
}

// Merge ors row from into row to and reports whether row to changed.
func (m *SparseMatrix[R, C]) Merge(from, to R) bool {
	fi, ti := m.row(from), m.row(to)
	src := m.rows[fi]
	if fi == ti || src == nil || src.None() {
		return false
	}
	dst := m.ensureRow(to)
	if dst.IsSuperSet(src) {
		return false
	}
	dst.InPlaceUnion(src)
	return true
}

// Contains reports whether bit (r, c) is set.
func (m *SparseMatrix[R, C]) Contains(r R, c C) bool {
	col := m.column(c)
	row := m.rows[m.row(r)]
	return row != nil && row.Test(col)
}

// Count reports the number of set bits in row r.
func (m *SparseMatrix[R, C]) Count(r R) int {
	row := m.rows[m.row(r)]
	if row == nil {
		return 0
	}
	return int(row.Count()) //nolint:gosec // bounded by column count
}

// Iter yields the set columns of row r in increasing order. The row is read
// lazily; mutating it while iterating is not supported.
func (m *SparseMatrix[R, C]) Iter(r R) iter.Seq[C] {
	i := m.row(r)
	return func(yield func(C) bool) {
		row := m.rows[i]
		if row == nil {
			return
		}
		for x, ok := row.NextSet(0); ok; x, ok = row.NextSet(x + 1) {
			if !yield(C(x)) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the matrix.
func (m *SparseMatrix[R, C]) Clone() *SparseMatrix[R, C] {
	out := &SparseMatrix[R, C]{
		rows:    make([]*bitset.BitSet, len(m.rows)),
		columns: m.columns,
	}
	for i, row := range m.rows {
		if row != nil {
			out.rows[i] = row.Clone()
		}
	}
	return out
}

func (m *SparseMatrix[R, C]) ensureRow(r R) *bitset.BitSet {
	i := m.row(r)
	if m.rows[i] == nil {
		m.rows[i] = bitset.New(uint(m.columns))
	}
	return m.rows[i]
}

func (m *SparseMatrix[R, C]) row(r R) int {
	i := int(r)
	if i < 0 || i >= len(m.rows) {
		panic(fmt.Errorf("bitmatrix: row %d out of range [0, %d)", i, len(m.rows)))
	}
	return i
}

func (m *SparseMatrix[R, C]) column(c C) uint {
	i := int(c)
	if i < 0 || i >= m.columns {
		panic(fmt.Errorf("bitmatrix: column %d out of range [0, %d)", i, m.columns))
	}
	return uint(i)
}
