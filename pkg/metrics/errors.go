package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrPush = errors.New("metrics push failed")
)
