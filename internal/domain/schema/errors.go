package schema

import "errors"

// ErrSchema is the kind of every ResolutionError.
var ErrSchema = errors.New("schema resolution failed")
