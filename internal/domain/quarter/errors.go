package quarter

import "errors"

// Sentinel kinds for quarter errors.
var (
	ErrInvalidQuarter = errors.New("invalid quarter")
	ErrInvalidRange   = errors.New("invalid quarter range")
)
