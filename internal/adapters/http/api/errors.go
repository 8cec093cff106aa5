package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnavailable      = errors.New("scores unavailable")
	// ErrNoChartData means the benchmark has no scored quarter to draw.
	ErrNoChartData = errors.New("no scores to chart")
)

// wrap annotates err with the handler operation and a sentinel kind.
func wrap(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
