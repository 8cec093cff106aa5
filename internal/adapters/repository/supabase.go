package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/pkg/logger"
)

// Default supabase configuration constants.
const (
	defaultPageSize     = 1000
	defaultRetryMax     = 2
	maxErrorBody        = 64 << 10
	restPath            = "/rest/v1/"
	selectColumns       = "benchmark,lab,quarter,score"
	conflictColumns     = "benchmark,lab,quarter"
	preferMergeMinimal  = "resolution=merge-duplicates,return=minimal"
	defaultRetryWaitMin = 250 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// SupabaseStore is a Store over the PostgREST interface of a Supabase
// project.
type SupabaseStore struct {
	base     string
	key      string
	client   *retryablehttp.Client
	log      logger.Logger
	pageSize int
	retryMax int
}

var _ Store = (*SupabaseStore)(nil)

// NewSupabaseStore creates a store for the project at baseURL using key for
// both the apikey header and the bearer token.
func NewSupabaseStore(baseURL, key string, opts ...SupabaseOption) (*SupabaseStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid supabase url %q", ErrMissingSettings, baseURL)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: supabase key", ErrMissingSettings)
	}
	s := &SupabaseStore{
		base:     strings.TrimRight(baseURL, "/"),
		key:      key,
		pageSize: defaultPageSize,
		retryMax: defaultRetryMax,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("supabase")
	}

	c := retryablehttp.NewClient()
	c.RetryMax = s.retryMax
	c.RetryWaitMin = defaultRetryWaitMin
	c.RetryWaitMax = defaultRetryWaitMax
	c.Logger = logger.NewLeveled(s.log)
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	s.client = c
	return s, nil
}

// postgrestError is the error body PostgREST returns.
type postgrestError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Code    string `json:"code"`
}

// Upsert implements Store with a single bulk POST, which PostgREST runs in
// one transaction.
func (s *SupabaseStore) Upsert(ctx context.Context, rows []model.ScoreRow) error {
	rows = Collapse(rows)
	if len(rows) == 0 {
		return nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return &UpsertError{Driver: DriverSupabase, Rows: len(rows), Message: err.Error(), Err: err}
	}

	q := url.Values{"on_conflict": {conflictColumns}}
	req, err := s.request(ctx, http.MethodPost, q, body)
	if err != nil {
		return &UpsertError{Driver: DriverSupabase, Rows: len(rows), Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", preferMergeMinimal)

	resp, err := s.client.Do(req)
	if err != nil {
		return &UpsertError{Driver: DriverSupabase, Rows: len(rows), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &UpsertError{Driver: DriverSupabase, Rows: len(rows), Message: readError(resp)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// List implements Store, paging with limit and offset.
func (s *SupabaseStore) List(ctx context.Context) ([]model.ScoreRow, error) {
	var out []model.ScoreRow
	for offset := 0; ; offset += s.pageSize {
		q := url.Values{
			"select": {selectColumns},
			"order":  {conflictColumns},
			"limit":  {strconv.Itoa(s.pageSize)},
			"offset": {strconv.Itoa(offset)},
		}
		page, err := s.page(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < s.pageSize {
			return out, nil
		}
	}
}

func (s *SupabaseStore) page(ctx context.Context, q url.Values) ([]model.ScoreRow, error) {
	req, err := s.request(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrList, readError(resp))
	}

	var rows []model.ScoreRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrList, err)
	}
	return rows, nil
}

func (s *SupabaseStore) request(ctx context.Context, method string, q url.Values, body []byte) (*retryablehttp.Request, error) {
	target := s.base + restPath + Table + "?" + q.Encode()
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	return req, nil
}

// Close implements Store.
func (s *SupabaseStore) Close() error {
	s.client.HTTPClient.CloseIdleConnections()
	return nil
}

// readError extracts PostgREST's message, falling back to the raw body.
func readError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var pe postgrestError
	if err := json.Unmarshal(raw, &pe); err == nil && pe.Message != "" {
		return pe.Message
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, text)
}
