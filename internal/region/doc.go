// Package region holds the values of region variables during region
// inference.
//
// The value of a region is a set of elements. An element is either a
// universal region (a lifetime parameter of the function) or a point in the
// control-flow graph. Elements map to a dense index space:
//
//	[0, U)            universal regions, index == RegionVid
//	[U, U+points)     CFG points, ordered by block then statement
//
// Every iteration over a region value therefore yields universal regions
// first, and points of one block in increasing statement order.
//
// Values are mutated by a single fixed-point loop; the Elements space is
// immutable and may be shared by any number of Values.
package region
