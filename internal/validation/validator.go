package validation

import (
	"regexp"
	"strings"

	"github.com/event-roster-api/internal/models"
)

// Row error messages surfaced to the operator.
const (
	MsgEmptyRow      = "Row appears to be empty or contains no valid data"
	MsgEmailRequired = "Email is required"
	MsgPhoneRequired = "Phone number is required"
	MsgInvalidEmail  = "Invalid email format"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate partitions mapped records into accepted users and per-row
// errors. Checks run in order: empty row, email required, phone
// required, name synthesis (never rejects), email format. Accepted
// records come back trimmed, with the email lower-cased and blank
// optional fields cleared; every rejection produces exactly one error
// carrying the row number, the email if known, and the pre-mutation
// record contents. A record is never present in both outputs.
func Validate(records []models.UserRecord) ([]models.UserRecord, []models.ImportError) {
	var valid []models.UserRecord
	var errs []models.ImportError

	for i := range records {
		rec := records[i]
		row := rec.Row
		if row == 0 {
			row = i + 2
		}
		rec.Row = row
		snapshot := rec.Snapshot()

		reject := func(msg string) {
			errs = append(errs, models.ImportError{
				Row:     row,
				Email:   strings.TrimSpace(rec.Email),
				Message: msg,
				Data:    snapshot,
			})
		}

		if rec.IsEmpty() {
			reject(MsgEmptyRow)
			continue
		}
		if strings.TrimSpace(rec.Email) == "" {
			reject(MsgEmailRequired)
			continue
		}
		if rec.PhoneNumber == nil || strings.TrimSpace(*rec.PhoneNumber) == "" {
			reject(MsgPhoneRequired)
			continue
		}

		synthesizeNames(&rec)

		if !emailRe.MatchString(strings.TrimSpace(rec.Email)) {
			reject(MsgInvalidEmail)
			continue
		}

		normalizeAccepted(&rec)
		valid = append(valid, rec)
	}

	return valid, errs
}

// synthesizeNames fills blank names from the email local part. A blank
// first name takes the segment before the first dot; a blank last name
// splits a multi-word first name, else takes the second dot segment,
// else the literal "User".
func synthesizeNames(rec *models.UserRecord) {
	local := strings.Split(strings.TrimSpace(rec.Email), "@")[0]
	segments := strings.Split(local, ".")

	if strings.TrimSpace(rec.FirstName) == "" {
		first := segments[0]
		if first == "" {
			first = local
		}
		if first == "" {
			first = "User"
		}
		rec.FirstName = first
	}

	if strings.TrimSpace(rec.LastName) == "" {
		first := strings.TrimSpace(rec.FirstName)
		if tokens := strings.Fields(first); len(tokens) > 1 {
			rec.FirstName = tokens[0]
			rec.LastName = strings.Join(tokens[1:], " ")
		} else if len(segments) > 1 && segments[1] != "" {
			rec.LastName = segments[1]
		} else {
			rec.LastName = "User"
		}
	}
}

// normalizeAccepted trims every string field, lower-cases the email and
// clears optional fields that remain blank, so persistence can omit the
// column instead of writing an empty string.
func normalizeAccepted(rec *models.UserRecord) {
	rec.FirstName = strings.TrimSpace(rec.FirstName)
	rec.LastName = strings.TrimSpace(rec.LastName)
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))

	rec.PhoneNumber = cleanOptional(rec.PhoneNumber)
	rec.TitlePosition = cleanOptional(rec.TitlePosition)
	rec.OrganizationAffiliation = cleanOptional(rec.OrganizationAffiliation)
	rec.TShirtSize = cleanOptional(rec.TShirtSize)
	rec.DietaryRestrictions = cleanOptional(rec.DietaryRestrictions)
	rec.AccessibilityNeeds = cleanOptional(rec.AccessibilityNeeds)
	rec.Bio = cleanOptional(rec.Bio)
	rec.ProfessionalInterests = cleanOptional(rec.ProfessionalInterests)
	rec.CommunityInterests = cleanOptional(rec.CommunityInterests)
}

func cleanOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
