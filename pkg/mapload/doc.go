// Package mapload materializes map files into ndgrid-style grids for
// wavefront planners.
//
// Occupancy images (LoadMapFromImage), velocity images
// (LoadVelocitiesFromImage), the plain text map format (LoadMapFromText)
// and GAT walkability tables (LoadMapFromGAT) are supported. All loaders
// resize the target grid to the source size before writing any cell, and
// the occupancy loaders register every blocked cell with one
// SetOccupiedCells call at the end of the load.
//
// Diagnostics are discarded unless a logger is installed with SetLogger.
//
// Image rows are flipped so that grid row 0 is the bottom of the picture.
// Text and GAT data are already stored bottom row first and are written in
// file order.
//
// The text format is:
//
//	<header line, ignored>
//	<leaf size>
//	<number of dimensions>
//	<width>
//	<height>
//	<width*height occupancy values, 0 = blocked, 1 = free>
package mapload
