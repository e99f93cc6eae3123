package ndgrid

import "fmt"

// ToLinearIndex flattens coords into a linear index for a grid with the
// given axis sizes. The first axis varies fastest.
func ToLinearIndex(sizes, coords []int) (int, error) {
	if len(sizes) != len(coords) {
		return 0, fmt.Errorf("%w: %d sizes, %d coords", ErrCoordsLength, len(sizes), len(coords))
	}

	idx := 0
	stride := 1
	for axis, c := range coords {
		if c < 0 || c >= sizes[axis] {
			return 0, fmt.Errorf("%w: axis %d coord %d not in [0,%d)", ErrIndexOutOfRange, axis, c, sizes[axis])
		}
		idx += c * stride
		stride *= sizes[axis]
	}
	return idx, nil
}

// Coords is the inverse of ToLinearIndex.
func Coords(sizes []int, idx int) ([]int, error) {
	total := CellCount(sizes)
	if idx < 0 || idx >= total {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, total)
	}

	coords := make([]int, len(sizes))
	for axis, s := range sizes {
		coords[axis] = idx % s
		idx /= s
	}
	return coords, nil
}

// FlipY converts an image row (origin top-left) into a grid row
// (origin bottom-left). It is its own inverse.
func FlipY(height, y int) int {
	return height - y - 1
}

// CellCount returns the product of sizes. An empty sizes slice has no cells.
func CellCount(sizes []int) int {
	if len(sizes) == 0 {
		return 0
	}
	n := 1
	for _, s := range sizes {
		n *= s
	}
	return n
}
