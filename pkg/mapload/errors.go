package mapload

import "errors"

// Loader errors. Every error returned by a Load function wraps one of these.
var (
	// ErrFileNotFound is returned by the text loader when the map file
	// cannot be opened. The grid is left untouched.
	ErrFileNotFound = errors.New("map file not found")
	// ErrSourceUnreadable is returned when an image or GAT source cannot be
	// opened or decoded.
	ErrSourceUnreadable = errors.New("map source unreadable")
	// ErrMalformedInput is returned when the content of a map file does not
	// follow its format.
	ErrMalformedInput = errors.New("malformed map input")
	// ErrDimensionMismatch is returned when the grid's dimensionality does
	// not fit the data being loaded.
	ErrDimensionMismatch = errors.New("grid dimension mismatch")
)
