package repository

import "github.com/okian/benchtrack/pkg/logger"

// SQLOption applies a configuration option to the SQLStore.
type SQLOption func(*SQLStore)

// WithChunkSize sets how many rows go into one INSERT statement.
func WithChunkSize(n int) SQLOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// SupabaseOption applies a configuration option to the SupabaseStore.
type SupabaseOption func(*SupabaseStore)

// WithPageSize sets how many rows List requests per page.
func WithPageSize(n int) SupabaseOption {
	return func(s *SupabaseStore) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithSupabaseRetryMax sets how many times a failed request is retried.
func WithSupabaseRetryMax(n int) SupabaseOption {
	return func(s *SupabaseStore) {
		if n >= 0 {
			s.retryMax = n
		}
	}
}

// WithSupabaseLogger sets the logger.
func WithSupabaseLogger(l logger.Logger) SupabaseOption {
	return func(s *SupabaseStore) {
		if l != nil {
			s.log = l
		}
	}
}
