package mocks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/event-roster-api/internal/models"
)

// MockAttendeeRepository is an in-memory implementation of
// AttendeeRepository for tests.
type MockAttendeeRepository struct {
	Attendees        map[string]*models.Attendee // keyed by email
	FindError        error
	InsertError      error
	BatchInsertCalls int
	FindCalls        int
	nextID           int
}

func NewMockAttendeeRepository() *MockAttendeeRepository {
	return &MockAttendeeRepository{
		Attendees: make(map[string]*models.Attendee),
	}
}

func (m *MockAttendeeRepository) FindByEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	m.FindCalls++
	if m.FindError != nil {
		return nil, m.FindError
	}
	existing := make(map[string]bool)
	for _, email := range emails {
		if _, ok := m.Attendees[email]; ok {
			existing[email] = true
		}
	}
	return existing, nil
}

func (m *MockAttendeeRepository) BatchInsert(ctx context.Context, attendees []*models.Attendee) ([]*models.Attendee, error) {
	m.BatchInsertCalls++
	if m.InsertError != nil {
		return nil, m.InsertError
	}
	now := time.Now()
	inserted := make([]*models.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if _, dup := m.Attendees[a.Email]; dup {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"attendees_email_key\"")
		}
		m.nextID++
		if a.ID == "" {
			a.ID = fmt.Sprintf("mock-id-%d", m.nextID)
		}
		if a.Status == "" {
			a.Status = models.AttendeeStatusActive
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		m.Attendees[a.Email] = a
		inserted = append(inserted, a)
	}
	return inserted, nil
}

func (m *MockAttendeeRepository) GetByID(ctx context.Context, id string) (*models.Attendee, error) {
	for _, a := range m.Attendees {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAttendeeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := m.Attendees[email]
	return ok, nil
}

func (m *MockAttendeeRepository) Count(ctx context.Context) (int, error) {
	return len(m.Attendees), nil
}

func (m *MockAttendeeRepository) StreamAll(ctx context.Context, callback func(*models.Attendee) error) error {
	emails := make([]string, 0, len(m.Attendees))
	for email := range m.Attendees {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		if err := callback(m.Attendees[email]); err != nil {
			return err
		}
	}
	return nil
}

// MockImportRunRepository is an in-memory implementation of
// ImportRunRepository for tests.
type MockImportRunRepository struct {
	Runs        map[string]*models.ImportRun
	Errors      map[string][]models.ImportError
	CreateError error
}

func NewMockImportRunRepository() *MockImportRunRepository {
	return &MockImportRunRepository{
		Runs:   make(map[string]*models.ImportRun),
		Errors: make(map[string][]models.ImportError),
	}
}

func (m *MockImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Runs[run.ID] = run
	return nil
}

func (m *MockImportRunRepository) GetByID(ctx context.Context, id string) (*models.ImportRun, error) {
	return m.Runs[id], nil
}

func (m *MockImportRunRepository) List(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	runs := make([]*models.ImportRun, 0, len(m.Runs))
	for _, run := range m.Runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockImportRunRepository) AddErrors(ctx context.Context, runID string, errors []models.ImportError) error {
	m.Errors[runID] = append(m.Errors[runID], errors...)
	return nil
}

func (m *MockImportRunRepository) GetErrors(ctx context.Context, runID string, limit int) ([]models.ImportError, error) {
	errs := m.Errors[runID]
	if limit > 0 && len(errs) > limit {
		errs = errs[:limit]
	}
	return errs, nil
}

func (m *MockImportRunRepository) Count(ctx context.Context) (int, error) {
	return len(m.Runs), nil
}
