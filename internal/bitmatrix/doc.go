// Package bitmatrix provides a row-sparse bit matrix used to store the
// values of many sets over one shared column space.
//
// Rows are allocated on first insertion as dense
// github.com/bits-and-blooms/bitset word arrays, so membership tests and
// insertions cost the same whatever the row holds, and iteration over a
// row yields columns in increasing order.
package bitmatrix
