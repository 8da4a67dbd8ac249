package models

// Canonical field names a roster record may carry after mapping.
const (
	FieldFirstName               = "first_name"
	FieldLastName                = "last_name"
	FieldEmail                   = "email"
	FieldPhoneNumber             = "phone_number"
	FieldTitlePosition           = "title_position"
	FieldOrganizationAffiliation = "organization_affiliation"
	FieldTShirtSize              = "t_shirt_size"
	FieldDietaryRestrictions     = "dietary_restrictions"
	FieldAccessibilityNeeds      = "accessibility_needs"
	FieldBio                     = "bio"
	FieldProfessionalInterests   = "professional_interests"
	FieldCommunityInterests      = "community_interests"
)

// CanonicalFields lists every recognized field in display order.
var CanonicalFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhoneNumber,
	FieldTitlePosition,
	FieldOrganizationAffiliation,
	FieldTShirtSize,
	FieldDietaryRestrictions,
	FieldAccessibilityNeeds,
	FieldBio,
	FieldProfessionalInterests,
	FieldCommunityInterests,
}

var canonicalSet = func() map[string]bool {
	set := make(map[string]bool, len(CanonicalFields))
	for _, f := range CanonicalFields {
		set[f] = true
	}
	return set
}()

// IsCanonicalField reports whether name is a recognized canonical field.
func IsCanonicalField(name string) bool {
	return canonicalSet[name]
}

// RawRecord is one parsed data row: normalized header key -> raw value.
// Keys preserves column order because the mapper's fallback pass scans
// keys in their source order. Empty values are never stored, so absence
// and emptiness are indistinguishable downstream.
type RawRecord struct {
	Keys   []string
	Values map[string]string
}

// NewRawRecord creates an empty raw record.
func NewRawRecord() RawRecord {
	return RawRecord{Values: make(map[string]string)}
}

// Set stores a value under key, tracking first-seen key order.
func (r *RawRecord) Set(key, value string) {
	if _, seen := r.Values[key]; !seen {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

// Get returns the value stored under key, if any.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Len returns the number of stored values.
func (r RawRecord) Len() int {
	return len(r.Values)
}

// FieldMapping binds one source column to a canonical field. A set of
// mappings is keyed by source column; when the set is empty the mapper
// falls back to heuristic auto-mapping.
type FieldMapping struct {
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// UserRecord is the mapped, partially validated shape of one roster row.
// FirstName, LastName and Email are always present (possibly empty);
// the optional fields are nil when the source row carried no value.
type UserRecord struct {
	Row       int // 1-indexed source row; the header is row 1
	FirstName string
	LastName  string
	Email     string

	PhoneNumber             *string
	TitlePosition           *string
	OrganizationAffiliation *string
	TShirtSize              *string
	DietaryRestrictions     *string
	AccessibilityNeeds      *string
	Bio                     *string
	ProfessionalInterests   *string
	CommunityInterests      *string

	// Extra preserves source columns that matched no canonical field.
	// Kept for diagnostics only; never persisted.
	Extra map[string]string
}

// SetField assigns value to the named canonical field. It reports false
// for unrecognized field names.
func (u *UserRecord) SetField(name, value string) bool {
	switch name {
	case FieldFirstName:
		u.FirstName = value
	case FieldLastName:
		u.LastName = value
	case FieldEmail:
		u.Email = value
	case FieldPhoneNumber:
		u.PhoneNumber = &value
	case FieldTitlePosition:
		u.TitlePosition = &value
	case FieldOrganizationAffiliation:
		u.OrganizationAffiliation = &value
	case FieldTShirtSize:
		u.TShirtSize = &value
	case FieldDietaryRestrictions:
		u.DietaryRestrictions = &value
	case FieldAccessibilityNeeds:
		u.AccessibilityNeeds = &value
	case FieldBio:
		u.Bio = &value
	case FieldProfessionalInterests:
		u.ProfessionalInterests = &value
	case FieldCommunityInterests:
		u.CommunityInterests = &value
	default:
		return false
	}
	return true
}

// Field returns the value of the named canonical field and whether it is
// set. Optional fields report false when nil.
func (u *UserRecord) Field(name string) (string, bool) {
	deref := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	switch name {
	case FieldFirstName:
		return u.FirstName, u.FirstName != ""
	case FieldLastName:
		return u.LastName, u.LastName != ""
	case FieldEmail:
		return u.Email, u.Email != ""
	case FieldPhoneNumber:
		return deref(u.PhoneNumber)
	case FieldTitlePosition:
		return deref(u.TitlePosition)
	case FieldOrganizationAffiliation:
		return deref(u.OrganizationAffiliation)
	case FieldTShirtSize:
		return deref(u.TShirtSize)
	case FieldDietaryRestrictions:
		return deref(u.DietaryRestrictions)
	case FieldAccessibilityNeeds:
		return deref(u.AccessibilityNeeds)
	case FieldBio:
		return deref(u.Bio)
	case FieldProfessionalInterests:
		return deref(u.ProfessionalInterests)
	case FieldCommunityInterests:
		return deref(u.CommunityInterests)
	}
	return "", false
}

// Snapshot captures the record's current contents as a plain map, used
// for the diagnostic payload attached to row errors.
func (u *UserRecord) Snapshot() map[string]string {
	snap := make(map[string]string)
	for _, name := range CanonicalFields {
		if v, ok := u.Field(name); ok {
			snap[name] = v
		}
	}
	for k, v := range u.Extra {
		snap[k] = v
	}
	return snap
}

// IsEmpty reports whether the record carries no data at all.
func (u *UserRecord) IsEmpty() bool {
	for _, name := range CanonicalFields {
		if _, ok := u.Field(name); ok {
			return false
		}
	}
	return len(u.Extra) == 0
}
