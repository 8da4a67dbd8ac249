package repository

import (
	"context"

	"github.com/event-roster-api/internal/database"
	"github.com/event-roster-api/internal/models"
)

// AttendeeRepository defines the interface for roster data operations
type AttendeeRepository interface {
	FindByEmails(ctx context.Context, emails []string) (map[string]bool, error)
	BatchInsert(ctx context.Context, attendees []*models.Attendee) ([]*models.Attendee, error)
	GetByID(ctx context.Context, id string) (*models.Attendee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Attendee) error) error
}

// ImportRunRepository defines the interface for import-run audit records
type ImportRunRepository interface {
	Create(ctx context.Context, run *models.ImportRun) error
	GetByID(ctx context.Context, id string) (*models.ImportRun, error)
	List(ctx context.Context, limit int) ([]*models.ImportRun, error)
	AddErrors(ctx context.Context, runID string, errors []models.ImportError) error
	GetErrors(ctx context.Context, runID string, limit int) ([]models.ImportError, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Attendee AttendeeRepository
	Run      ImportRunRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Attendee: NewAttendeeRepo(db),
		Run:      NewRunRepo(db),
	}
}
