package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/event-roster-api/internal/database"
	"github.com/event-roster-api/internal/models"
	"github.com/lib/pq"
)

// runRepo is the concrete implementation of ImportRunRepository
type runRepo struct {
	db *database.DB
}

// NewRunRepo creates a new import-run repository
func NewRunRepo(db *database.DB) ImportRunRepository {
	return &runRepo{db: db}
}

// Create inserts a new import-run record
func (r *runRepo) Create(ctx context.Context, run *models.ImportRun) error {
	query := `
		INSERT INTO import_runs (id, file_name, source, total_rows, successful_imports,
			failed_imports, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, nullString(run.FileName), run.Source, run.TotalRows,
		run.SuccessfulImports, run.FailedImports, run.DurationMs, run.CreatedAt,
	)
	return err
}

// GetByID retrieves an import run by ID
func (r *runRepo) GetByID(ctx context.Context, id string) (*models.ImportRun, error) {
	query := `
		SELECT id, file_name, source, total_rows, successful_imports, failed_imports,
			duration_ms, created_at
		FROM import_runs WHERE id = $1
	`

	var run models.ImportRun
	var fileName sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &fileName, &run.Source, &run.TotalRows,
		&run.SuccessfulImports, &run.FailedImports, &run.DurationMs, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.FileName = fileName.String
	return &run, nil
}

// List retrieves the most recent import runs
func (r *runRepo) List(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, file_name, source, total_rows, successful_imports, failed_imports,
			duration_ms, created_at
		FROM import_runs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		var fileName sql.NullString
		err := rows.Scan(
			&run.ID, &fileName, &run.Source, &run.TotalRows,
			&run.SuccessfulImports, &run.FailedImports, &run.DurationMs, &run.CreatedAt,
		)
		if err != nil {
			continue
		}
		run.FileName = fileName.String
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// AddErrors adds row errors for a run using the COPY protocol, which
// stays cheap even when a large file fails wholesale.
func (r *runRepo) AddErrors(ctx context.Context, runID string, errors []models.ImportError) error {
	if len(errors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("import_errors",
		"run_id", "row_number", "email", "message", "row_data",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range errors {
		var rowData interface{}
		if len(e.Data) > 0 {
			if encoded, err := json.Marshal(e.Data); err == nil {
				rowData = string(encoded)
			}
		}
		stmt.ExecContext(ctx, runID, e.Row, nullString(e.Email), e.Message, rowData)
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetErrors retrieves row errors for a run
func (r *runRepo) GetErrors(ctx context.Context, runID string, limit int) ([]models.ImportError, error) {
	query := `SELECT row_number, email, message, row_data FROM import_errors WHERE run_id = $1 ORDER BY row_number`
	if limit > 0 {
		query += " LIMIT $2"
	}

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query, runID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, runID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []models.ImportError
	for rows.Next() {
		var e models.ImportError
		var email sql.NullString
		var rowData []byte
		if err := rows.Scan(&e.Row, &email, &e.Message, &rowData); err != nil {
			continue
		}
		e.Email = email.String
		if len(rowData) > 0 {
			json.Unmarshal(rowData, &e.Data)
		}
		errors = append(errors, e)
	}
	return errors, rows.Err()
}

// Count returns the total number of import runs
func (r *runRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM import_runs").Scan(&count)
	return count, err
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
