package ndgrid

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// DefaultLeafSize is the cell spacing of a grid whose leaf size was never set.
const DefaultLeafSize = 1.0

// Grid is a resizable N-dimensional container of cells. The number of axes
// is fixed at construction; their sizes change with Resize.
//
// Grid is not safe for concurrent use.
type Grid[C any] struct {
	ndims    int
	dims     []int
	cells    []C
	newCell  func() C
	leafSize float64
	occupied []int
}

// New creates an empty grid of default cells with ndims axes.
func New(ndims int) *Grid[*Cell] {
	return NewWith(ndims, NewCell)
}

// NewWith creates an empty grid with ndims axes whose cells are built by
// newCell on every Resize. It panics if ndims < 1 or newCell is nil.
func NewWith[C any](ndims int, newCell func() C) *Grid[C] {
	if ndims < 1 {
		panic(fmt.Sprintf("ndgrid: ndims must be positive, got %d", ndims))
	}
	if newCell == nil {
		panic("ndgrid: nil cell constructor")
	}
	return &Grid[C]{
		ndims:    ndims,
		dims:     make([]int, ndims),
		newCell:  newCell,
		leafSize: DefaultLeafSize,
	}
}

// NDims returns the number of axes.
func (g *Grid[C]) NDims() int { return g.ndims }

// Dims returns a copy of the axis sizes.
func (g *Grid[C]) Dims() []int {
	out := make([]int, len(g.dims))
	copy(out, g.dims)
	return out
}

// Len returns the number of cells.
func (g *Grid[C]) Len() int { return len(g.cells) }

// Resize sets the axis sizes. If they differ from the current ones all
// cells are replaced by fresh ones and the occupied-cell registration is
// cleared; resizing to the current sizes keeps everything. The leaf size is
// always kept.
func (g *Grid[C]) Resize(dims []int) error {
	if len(dims) != g.ndims {
		return fmt.Errorf("%w: grid has %d axes, got %d sizes", ErrInvalidDims, g.ndims, len(dims))
	}
	for axis, s := range dims {
		if s < 0 {
			return fmt.Errorf("%w: axis %d has negative size %d", ErrInvalidDims, axis, s)
		}
	}

	if g.cells != nil && slices.Equal(g.dims, dims) {
		return nil
	}

	copy(g.dims, dims)
	n := CellCount(dims)
	g.cells = make([]C, n)
	for i := range g.cells {
		g.cells[i] = g.newCell()
	}
	g.occupied = nil
	return nil
}

// At returns the cell at linear index idx. It panics if idx is out of range.
func (g *Grid[C]) At(idx int) C {
	return g.cells[idx]
}

// Cell returns the cell at the given coordinates.
func (g *Grid[C]) Cell(coords ...int) (C, error) {
	idx, err := ToLinearIndex(g.dims, coords)
	if err != nil {
		var zero C
		return zero, err
	}
	return g.cells[idx], nil
}

// Index returns the linear index of coords.
func (g *Grid[C]) Index(coords ...int) (int, error) {
	return ToLinearIndex(g.dims, coords)
}

// LeafSize returns the physical spacing of one cell.
func (g *Grid[C]) LeafSize() float64 { return g.leafSize }

// SetLeafSize sets the physical spacing of one cell.
func (g *Grid[C]) SetLeafSize(size float64) { g.leafSize = size }

// SetOccupiedCells replaces the registered blocked-cell indices.
func (g *Grid[C]) SetOccupiedCells(indices []int) {
	g.occupied = make([]int, len(indices))
	copy(g.occupied, indices)
}

// OccupiedCells returns a copy of the registered blocked-cell indices.
// It is nil if nothing has been registered since the last Resize.
func (g *Grid[C]) OccupiedCells() []int {
	if g.occupied == nil {
		return nil
	}
	out := make([]int, len(g.occupied))
	copy(out, g.occupied)
	return out
}

// VelocityReader is implemented by cells whose velocity can be read back.
type VelocityReader interface {
	Velocity() float64
}

// VelocityMatrix exports the velocities of a 2D grid as a height×width
// matrix; matrix row r holds grid row r.
func VelocityMatrix[C VelocityReader](g *Grid[C]) (*mat.Dense, error) {
	if g.ndims != 2 {
		return nil, fmt.Errorf("%w: velocity matrix needs 2 axes, grid has %d", ErrInvalidDims, g.ndims)
	}
	w, h := g.dims[0], g.dims[1]
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty grid %dx%d", ErrInvalidDims, w, h)
	}

	m := mat.NewDense(h, w, nil)
	for i, c := range g.cells {
		m.Set(i/w, i%w, c.Velocity())
	}
	return m, nil
}
