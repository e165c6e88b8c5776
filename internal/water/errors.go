package water

import "errors"

var (
	ErrTooFewColumns    = errors.New("water: field needs at least two columns")
	ErrInvalidDimension = errors.New("water: width and height must be positive")
)
