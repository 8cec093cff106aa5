package archive

import (
	"errors"
	"fmt"
)

// Sentinel kinds for archive errors.
var (
	ErrDownload          = errors.New("archive download failed")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrCorruptArchive    = errors.New("corrupt archive")
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrInvalidArchiveURL = errors.New("invalid archive url")
)

// DownloadError reports a failed fetch of the archive. It matches
// ErrDownload and unwraps to its cause.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DownloadError) Unwrap() error { return e.Err }

// Is matches ErrDownload.
func (e *DownloadError) Is(target error) bool { return target == ErrDownload }
