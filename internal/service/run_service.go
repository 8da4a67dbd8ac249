package service

import (
	"context"
	"time"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// runService is the concrete implementation of RunService
type runService struct {
	runRepo    repository.ImportRunRepository
	errorLimit int
	log        zerolog.Logger
}

// newRunService creates a new RunService
func newRunService(runRepo repository.ImportRunRepository, cfg *config.Config, log zerolog.Logger) *runService {
	return &runService{
		runRepo:    runRepo,
		errorLimit: cfg.Import.ErrorLimit,
		log:        log.With().Str("service", "run").Logger(),
	}
}

// RecordRun persists the audit record for one completed import
// invocation. Recording is best-effort: a failure here is logged and
// never disturbs the import result already produced.
func (s *runService) RecordRun(ctx context.Context, fileName, source string, result *models.ImportResult, duration time.Duration) *models.ImportRun {
	run := &models.ImportRun{
		ID:                uuid.New().String(),
		FileName:          fileName,
		Source:            source,
		TotalRows:         result.TotalRows,
		SuccessfulImports: result.SuccessfulImports,
		FailedImports:     result.FailedImports,
		DurationMs:        duration.Milliseconds(),
		CreatedAt:         time.Now(),
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		s.log.Error().Err(err).Str("file", fileName).Msg("Failed to record import run")
		return run
	}
	if err := s.runRepo.AddErrors(ctx, run.ID, result.Errors); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Int("count", len(result.Errors)).
			Msg("Failed to record run errors")
	}

	s.log.Info().
		Str("run_id", run.ID).
		Str("file", fileName).
		Str("source", source).
		Int("total", run.TotalRows).
		Int("successful", run.SuccessfulImports).
		Int("failed", run.FailedImports).
		Int64("duration_ms", run.DurationMs).
		Msg("Import run recorded")

	return run
}

// GetRun retrieves a run by ID with its first errors inlined
func (s *runService) GetRun(ctx context.Context, id string) (*models.RunResponse, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}

	errors, err := s.runRepo.GetErrors(ctx, id, s.errorLimit)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run errors")
	}

	return &models.RunResponse{
		ImportRun:  *run,
		Errors:     errors,
		ErrorCount: run.FailedImports,
	}, nil
}

// ListRuns retrieves the most recent import runs
func (s *runService) ListRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	return s.runRepo.List(ctx, limit)
}

// GetRunErrors retrieves all row errors for a run
func (s *runService) GetRunErrors(ctx context.Context, id string) ([]models.ImportError, error) {
	return s.runRepo.GetErrors(ctx, id, 0)
}
