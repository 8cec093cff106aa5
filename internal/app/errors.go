package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoStore = errors.New("no store configured")
	ErrRun     = errors.New("update run failed")
)
