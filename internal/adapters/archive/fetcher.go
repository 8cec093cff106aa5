// Package archive downloads the upstream benchmark archive and extracts the
// allow-listed data files from it.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/okian/benchtrack/pkg/logger"
	"github.com/okian/benchtrack/pkg/metrics"
)

const archiveFileName = "archive.zip"

// Download is a fetched archive on local disk. Close removes it.
type Download struct {
	URL  string // final URL after redirects
	Dir  string
	Path string
	Size int64
}

// Close deletes the temporary directory holding the archive.
func (d *Download) Close() error {
	if d == nil || d.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(d.Dir); err != nil {
		return fmt.Errorf("remove %s: %w", d.Dir, err)
	}
	return nil
}

// Fetcher retrieves the archive over HTTP(S), following redirects up to a cap.
type Fetcher struct {
	client       *retryablehttp.Client
	log          logger.Logger
	maxRedirects int
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	tempDir      string
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		maxRedirects: DefaultMaxRedirects,
		retryMax:     DefaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.Named("fetcher")
	}

	c := retryablehttp.NewClient()
	c.RetryMax = f.retryMax
	c.RetryWaitMin = f.retryWaitMin
	c.RetryWaitMax = f.retryWaitMax
	c.Logger = logger.NewLeveled(f.log)
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.HTTPClient.CheckRedirect = f.checkRedirect
	f.client = c
	return f
}

// checkRedirect ends with "stopped after N redirects" so the retry policy
// treats it as permanent.
func (f *Fetcher) checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return fmt.Errorf("%w: stopped after %d redirects", ErrTooManyRedirects, f.maxRedirects)
	}
	return nil
}

// Fetch downloads rawURL into a fresh temporary directory. Any failure is a
// *DownloadError and leaves nothing on disk.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Download, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &DownloadError{URL: rawURL, Err: fmt.Errorf("%w: %q", ErrInvalidArchiveURL, rawURL)}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	dl, err := f.save(resp.Body)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	dl.URL = resp.Request.URL.String()

	metrics.SetArchiveBytes(dl.Size)
	f.log.Info(ctx, "archive downloaded",
		logger.String("url", dl.URL),
		logger.Int("bytes", int(dl.Size)),
		logger.Duration("elapsed", time.Since(start)))
	return dl, nil
}

func (f *Fetcher) save(body io.Reader) (*Download, error) {
	dir, err := os.MkdirTemp(f.tempDir, "benchtrack-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	dl := &Download{Dir: dir, Path: filepath.Join(dir, archiveFileName)}

	out, err := os.Create(dl.Path)
	if err != nil {
		_ = dl.Close()
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	n, err := io.Copy(out, body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = dl.Close()
		return nil, fmt.Errorf("write archive: %w", err)
	}
	dl.Size = n
	return dl, nil
}
