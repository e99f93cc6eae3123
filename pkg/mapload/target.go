package mapload

import (
	"fmt"

	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

// Target is the grid contract the loaders write into. *ndgrid.Grid
// satisfies it.
type Target[C any] interface {
	NDims() int
	Resize(dims []int) error
	At(idx int) C
	SetLeafSize(size float64)
	SetOccupiedCells(indices []int)
}

// Source is the grid contract SaveMapToText reads from.
type Source[C any] interface {
	Dims() []int
	LeafSize() float64
	At(idx int) C
}

// Compile-time checks.
var (
	_ Target[*ndgrid.Cell] = (*ndgrid.Grid[*ndgrid.Cell])(nil)
	_ Source[*ndgrid.Cell] = (*ndgrid.Grid[*ndgrid.Cell])(nil)
)

// mapDims is the number of axes every loader populates.
const mapDims = 2

func checkPlanar(ndims int) error {
	if ndims != mapDims {
		return fmt.Errorf("%w: maps load into %d-dimensional grids, grid has %d", ErrDimensionMismatch, mapDims, ndims)
	}
	return nil
}

func resizePlanar[C any](g Target[C], width, height int) error {
	if err := g.Resize([]int{width, height}); err != nil {
		return fmt.Errorf("%w: resizing to %dx%d: %w", ErrDimensionMismatch, width, height, err)
	}
	return nil
}
