package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/event-roster-api/internal/database"
	"github.com/event-roster-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// attendeeRepo is the concrete implementation of AttendeeRepository
type attendeeRepo struct {
	db *database.DB
}

// NewAttendeeRepo creates a new attendee repository
func NewAttendeeRepo(db *database.DB) AttendeeRepository {
	return &attendeeRepo{db: db}
}

const attendeeColumns = `id, name, first_name, last_name, email, phone_number, title_position,
	organization_affiliation, t_shirt_size, dietary_restrictions, accessibility_needs, bio,
	status, created_at, updated_at`

// FindByEmails returns the subset of emails already present, as a set.
// One batched lookup for the whole import, not one query per row.
func (r *attendeeRepo) FindByEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(emails) == 0 {
		return existing, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT email FROM attendees WHERE email = ANY($1)`, pq.Array(emails))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		existing[email] = true
	}
	return existing, rows.Err()
}

// BatchInsert inserts all attendees in a single multi-row statement and
// returns the created rows with their assigned ids and timestamps.
// COPY would be faster for very large batches but cannot return rows.
func (r *attendeeRepo) BatchInsert(ctx context.Context, attendees []*models.Attendee) ([]*models.Attendee, error) {
	if len(attendees) == 0 {
		return nil, nil
	}

	const cols = 13
	placeholders := make([]string, 0, len(attendees))
	args := make([]interface{}, 0, len(attendees)*cols)

	for i, a := range attendees {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.Status == "" {
			a.Status = models.AttendeeStatusActive
		}
		base := i * cols
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			a.ID, a.Name, a.FirstName, a.LastName, a.Email, a.PhoneNumber,
			a.TitlePosition, a.OrganizationAffiliation, a.TShirtSize,
			a.DietaryRestrictions, a.AccessibilityNeeds, a.Bio, a.Status,
		)
	}

	query := `
		INSERT INTO attendees (id, name, first_name, last_name, email, phone_number,
			title_position, organization_affiliation, t_shirt_size, dietary_restrictions,
			accessibility_needs, bio, status)
		VALUES ` + strings.Join(placeholders, ", ") + `
		RETURNING id, email, created_at, updated_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEmail := make(map[string]*models.Attendee, len(attendees))
	for _, a := range attendees {
		byEmail[a.Email] = a
	}

	inserted := make([]*models.Attendee, 0, len(attendees))
	for rows.Next() {
		var id, email string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&id, &email, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a, ok := byEmail[email]
		if !ok {
			continue
		}
		a.ID = id
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.Time
		}
		inserted = append(inserted, a)
	}
	return inserted, rows.Err()
}

// GetByID retrieves an attendee by ID
func (r *attendeeRepo) GetByID(ctx context.Context, id string) (*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1`

	var a models.Attendee
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.FirstName, &a.LastName, &a.Email, &a.PhoneNumber,
		&a.TitlePosition, &a.OrganizationAffiliation, &a.TShirtSize,
		&a.DietaryRestrictions, &a.AccessibilityNeeds, &a.Bio,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EmailExists checks if an attendee with the given email exists
func (r *attendeeRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM attendees WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

// Count returns the total number of attendees
func (r *attendeeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendees").Scan(&count)
	return count, err
}

// StreamAll streams all attendees for export (memory efficient)
func (r *attendeeRepo) StreamAll(ctx context.Context, callback func(*models.Attendee) error) error {
	query := `SELECT ` + attendeeColumns + ` FROM attendees ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attendee
		err := rows.Scan(
			&a.ID, &a.Name, &a.FirstName, &a.LastName, &a.Email, &a.PhoneNumber,
			&a.TitlePosition, &a.OrganizationAffiliation, &a.TShirtSize,
			&a.DietaryRestrictions, &a.AccessibilityNeeds, &a.Bio,
			&a.Status, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return err
		}

		if err := callback(&a); err != nil {
			return err
		}
	}

	return rows.Err()
}
