package catalog

import "errors"

// ErrInvalidCatalog marks a catalog document that cannot be used.
var ErrInvalidCatalog = errors.New("invalid catalog")
