// Package ndgrid provides an N-dimensional grid of cells used as the
// target of the map loaders in package mapload.
//
// Cells are addressed by a linear index with the first axis varying
// fastest: for sizes (s0, s1, ...) and coordinates (c0, c1, ...) the index
// is c0 + s0*(c1 + s1*(c2 + ...)). In two dimensions this is
// width*row + column, with row 0 at the bottom of the map.
package ndgrid
