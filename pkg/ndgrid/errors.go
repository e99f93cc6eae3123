package ndgrid

import "errors"

// Grid errors.
var (
	ErrInvalidDims     = errors.New("ndgrid: invalid dimensions")
	ErrCoordsLength    = errors.New("ndgrid: coordinate count does not match axis count")
	ErrIndexOutOfRange = errors.New("ndgrid: index out of range")
)
