package archive

import (
	"time"

	"github.com/okian/benchtrack/pkg/logger"
)

// Default fetcher configuration constants.
const (
	DefaultMaxRedirects = 20
	DefaultRetryMax     = 3
	DefaultTimeout      = 2 * time.Minute
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithMaxRedirects caps how many redirects a fetch follows.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retryMax = n
		}
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(f *Fetcher) {
		if minWait > 0 && maxWait >= minWait {
			f.retryWaitMin = minWait
			f.retryWaitMax = maxWait
		}
	}
}

// WithTimeout sets the deadline for the whole download.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTempDir sets the parent directory for downloads. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(f *Fetcher) {
		f.tempDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}
