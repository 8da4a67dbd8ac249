package service

import (
	"context"
	"net/http"
	"time"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/repository"
	"github.com/rs/zerolog"
)

// ImportService defines the interface for roster import operations
type ImportService interface {
	ImportUsers(ctx context.Context, records []models.UserRecord) *models.ImportResult
	Preview(records []models.UserRecord) *models.PreviewResult
}

// RunService defines the interface for the import-run audit trail
type RunService interface {
	RecordRun(ctx context.Context, fileName, source string, result *models.ImportResult, duration time.Duration) *models.ImportRun
	GetRun(ctx context.Context, id string) (*models.RunResponse, error)
	ListRuns(ctx context.Context, limit int) ([]*models.ImportRun, error)
	GetRunErrors(ctx context.Context, id string) ([]models.ImportError, error)
}

// ExportService defines the interface for roster export operations
type ExportService interface {
	StreamAttendees(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Import ImportService
	Run    RunService
	Export ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Import: newImportService(repos, cfg, log),
		Run:    newRunService(repos.Run, cfg, log),
		Export: newExportService(repos, log),
	}
}
