package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/repository"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamAttendees streams the roster in the specified format
func (s *exportService) StreamAttendees(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting roster export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	case "json":
		return s.streamJSON(ctx, w)
	case "csv":
		return s.streamCSV(ctx, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GetCount returns row counts for the metrics endpoint
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "attendees":
		return s.repos.Attendee.Count(ctx)
	case "import_runs":
		return s.repos.Run.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=attendees.ndjson")

	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)
	count := 0

	err := s.repos.Attendee.StreamAll(ctx, func(a *models.Attendee) error {
		if err := encoder.Encode(a); err != nil {
			return err
		}
		count++
		if count%1000 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if flusher != nil {
		flusher.Flush()
	}
	s.log.Info().Int("count", count).Msg("Roster export completed")
	return nil
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=attendees.json")

	if _, err := w.Write([]byte("[")); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	count := 0
	err := s.repos.Attendee.StreamAll(ctx, func(a *models.Attendee) error {
		if count > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		count++
		return encoder.Encode(a)
	})
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte("]")); err != nil {
		return err
	}
	s.log.Info().Int("count", count).Msg("Roster export completed")
	return nil
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=attendees.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"id", "name", "first_name", "last_name", "email", "phone_number",
		"title_position", "organization_affiliation", "t_shirt_size",
		"dietary_restrictions", "accessibility_needs", "bio", "status", "created_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	count := 0
	err := s.repos.Attendee.StreamAll(ctx, func(a *models.Attendee) error {
		count++
		return writer.Write([]string{
			a.ID, a.Name, a.FirstName, a.LastName, a.Email, deref(a.PhoneNumber),
			deref(a.TitlePosition), deref(a.OrganizationAffiliation), deref(a.TShirtSize),
			deref(a.DietaryRestrictions), deref(a.AccessibilityNeeds), deref(a.Bio),
			a.Status, a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	})
	if err != nil {
		return err
	}

	s.log.Info().Int("count", count).Msg("Roster export completed")
	return nil
}
