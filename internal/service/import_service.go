package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/repository"
	"github.com/event-roster-api/internal/validation"
	"github.com/rs/zerolog"
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "import").Logger(),
	}
}

// ImportUsers runs the validate, dedup and insert stages for one batch
// of mapped records. Every failure mode (missing fields, bad email,
// duplicate against the store, store unreachable) comes back as data in
// the result; the caller never sees an error value. TotalRows always
// equals SuccessfulImports + FailedImports on return.
func (s *importService) ImportUsers(ctx context.Context, records []models.UserRecord) *models.ImportResult {
	result := &models.ImportResult{
		TotalRows:     len(records),
		Errors:        []models.ImportError{},
		ImportedUsers: []models.ImportedUser{},
	}

	validUsers, validationErrs := validation.Validate(records)
	result.Errors = append(result.Errors, validationErrs...)

	if len(validUsers) == 0 {
		result.FailedImports = result.TotalRows
		s.log.Warn().Int("total", result.TotalRows).Msg("No records passed validation")
		return result
	}

	emails := make([]string, len(validUsers))
	for i := range validUsers {
		emails[i] = validUsers[i].Email
	}

	// One batched lookup for the whole file, not one query per row.
	existing, err := s.repos.Attendee.FindByEmails(ctx, emails)
	if err != nil {
		return s.failResult(result, err)
	}

	newUsers := make([]models.UserRecord, 0, len(validUsers))
	for i := range validUsers {
		u := validUsers[i]
		if existing[u.Email] {
			result.Errors = append(result.Errors, models.ImportError{
				Row:     u.Row,
				Email:   u.Email,
				Message: "User already exists",
				Data:    u.Snapshot(),
			})
			continue
		}
		newUsers = append(newUsers, u)
	}

	if len(newUsers) == 0 {
		result.FailedImports = result.TotalRows
		s.log.Info().Int("total", result.TotalRows).Msg("All validated records already exist")
		return result
	}

	attendees := make([]*models.Attendee, len(newUsers))
	for i := range newUsers {
		attendees[i] = toAttendee(&newUsers[i])
	}

	inserted, err := s.repos.Attendee.BatchInsert(ctx, attendees)
	if err != nil {
		return s.failResult(result, err)
	}

	result.SuccessfulImports = len(inserted)
	result.FailedImports = result.TotalRows - result.SuccessfulImports
	result.Success = result.SuccessfulImports > 0
	for _, a := range inserted {
		result.ImportedUsers = append(result.ImportedUsers, models.ImportedUser{
			ID:        a.ID,
			Email:     a.Email,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Status:    a.Status,
			CreatedAt: a.CreatedAt,
		})
	}

	s.log.Info().
		Int("total", result.TotalRows).
		Int("successful", result.SuccessfulImports).
		Int("failed", result.FailedImports).
		Msg("Import completed")

	return result
}

// Preview runs validation only and reports what an import would do.
func (s *importService) Preview(records []models.UserRecord) *models.PreviewResult {
	validUsers, errs := validation.Validate(records)

	preview := &models.PreviewResult{
		TotalRows:  len(records),
		ValidCount: len(validUsers),
		ErrorCount: len(errs),
		Errors:     errs,
		Records:    make([]map[string]string, 0, len(validUsers)),
	}
	if preview.Errors == nil {
		preview.Errors = []models.ImportError{}
	}
	for i := range validUsers {
		preview.Records = append(preview.Records, validUsers[i].Snapshot())
	}
	return preview
}

// failResult absorbs a store failure into the result. The remaining
// batch is marked failed; counts already recorded stay as they were.
func (s *importService) failResult(result *models.ImportResult, err error) *models.ImportResult {
	s.log.Error().Err(err).Msg("Import failed against the store")
	result.Errors = append(result.Errors, models.ImportError{
		Row:     0,
		Message: fmt.Sprintf("Import failed: %v", err),
	})
	result.FailedImports = result.TotalRows
	result.Success = false
	return result
}

// toAttendee maps a validated record to its storage shape. The display
// name is derived from the name parts. professional_interests and
// community_interests are collected and validated but the attendees
// schema has no columns for them, so they are dropped here.
func toAttendee(u *models.UserRecord) *models.Attendee {
	return &models.Attendee{
		Name:                    strings.TrimSpace(u.FirstName + " " + u.LastName),
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		PhoneNumber:             u.PhoneNumber,
		TitlePosition:           u.TitlePosition,
		OrganizationAffiliation: u.OrganizationAffiliation,
		TShirtSize:              u.TShirtSize,
		DietaryRestrictions:     u.DietaryRestrictions,
		AccessibilityNeeds:      u.AccessibilityNeeds,
		Bio:                     u.Bio,
		Status:                  models.AttendeeStatusActive,
	}
}
