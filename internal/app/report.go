package service

import (
	"time"

	"github.com/okian/benchtrack/internal/domain/normalize"
	"github.com/okian/benchtrack/internal/domain/schema"
)

// FileStatus is the outcome of one benchmark file.
type FileStatus string

// File statuses.
const (
	StatusProcessed        FileStatus = "processed"
	StatusMissing          FileStatus = "missing"
	StatusEmpty            FileStatus = "empty"
	StatusSchemaUnresolved FileStatus = "schema_unresolved"
)

// FileReport describes what happened to one benchmark file.
type FileReport struct {
	File      string                   `json:"file"`
	Benchmark string                   `json:"benchmark"`
	Status    FileStatus               `json:"status"`
	Columns   schema.Columns           `json:"columns"`
	Records   int                      `json:"records"`
	Usable    int                      `json:"usable"`
	Dropped   map[normalize.Reason]int `json:"dropped,omitempty"`
	Labs      []string                 `json:"labs,omitempty"`
	Scale     float64                  `json:"scale,omitempty"`
	Rows      int                      `json:"rows"`
	Error     string                   `json:"error,omitempty"`
}

// Report summarizes one update run.
type Report struct {
	RunID         string        `json:"run_id"`
	ArchiveURL    string        `json:"archive_url"`
	Started       time.Time     `json:"started"`
	Duration      time.Duration `json:"duration"`
	ArchiveBytes  int64         `json:"archive_bytes"`
	FilesExpected int           `json:"files_expected"`
	FilesFound    int           `json:"files_found"`
	Files         []FileReport  `json:"files"`
	RowsWritten   int           `json:"rows_written"`
}

// File returns the report for benchmark key.
func (r *Report) File(benchmark string) (FileReport, bool) {
	for _, f := range r.Files {
		if f.Benchmark == benchmark {
			return f, true
		}
	}
	return FileReport{}, false
}

// Processed counts files that produced rows.
func (r *Report) Processed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusProcessed {
			n++
		}
	}
	return n
}
