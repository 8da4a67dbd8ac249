package models

import (
	"time"
)

// ImportError describes one rejected row. Errors are accumulated, never
// discarded; the caller renders them alongside the summary counts.
type ImportError struct {
	Row     int               `json:"row"`
	Email   string            `json:"email,omitempty"`
	Message string            `json:"error"`
	Data    map[string]string `json:"data,omitempty"`
}

// ImportResult is the aggregate outcome of one import invocation.
// TotalRows == SuccessfulImports + FailedImports holds after every
// completed call; errors absorb validation failures, duplicates and
// store failures alike.
type ImportResult struct {
	Success           bool           `json:"success"`
	TotalRows         int            `json:"totalRows"`
	SuccessfulImports int            `json:"successfulImports"`
	FailedImports     int            `json:"failedImports"`
	Errors            []ImportError  `json:"errors"`
	ImportedUsers     []ImportedUser `json:"importedUsers"`
}

// PreviewResult reports what an import would do without persisting
// anything: the same validation errors, plus the rows that would be
// imported.
type PreviewResult struct {
	TotalRows  int                 `json:"totalRows"`
	ValidCount int                 `json:"validCount"`
	ErrorCount int                 `json:"errorCount"`
	Errors     []ImportError       `json:"errors"`
	Records    []map[string]string `json:"records"`
}

// ImportRunSource identifies what triggered an import run.
const (
	RunSourceAPI = "api"
	RunSourceCLI = "cli"
)

// ImportRun is the persisted audit record of one import invocation.
type ImportRun struct {
	ID                string    `json:"run_id" db:"id"`
	FileName          string    `json:"file_name" db:"file_name"`
	Source            string    `json:"source" db:"source"`
	TotalRows         int       `json:"total_rows" db:"total_rows"`
	SuccessfulImports int       `json:"successful_imports" db:"successful_imports"`
	FailedImports     int       `json:"failed_imports" db:"failed_imports"`
	DurationMs        int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// RunResponse is the API response for a past import run.
type RunResponse struct {
	ImportRun
	Errors     []ImportError `json:"errors,omitempty"`
	ErrorCount int           `json:"error_count,omitempty"`
}
