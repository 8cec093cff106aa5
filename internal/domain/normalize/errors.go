package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrTable       = errors.New("malformed table")
	ErrRecordParse = errors.New("record rejected")
)
