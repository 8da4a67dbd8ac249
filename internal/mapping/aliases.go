package mapping

import (
	"github.com/event-roster-api/internal/models"
)

// fieldAliases lists the known header keys for each canonical field, in
// priority order: for a given field the first alias present with a
// non-empty value wins and later aliases are ignored.
var fieldAliases = []struct {
	Field   string
	Aliases []string
}{
	{models.FieldFirstName, []string{"first_name", "firstname", "fname", "first", "given_name", "givenname"}},
	{models.FieldLastName, []string{"last_name", "lastname", "lname", "last", "surname", "family_name", "familyname"}},
	{models.FieldEmail, []string{"email", "email_address", "emailaddress", "e_mail", "mail"}},
	{models.FieldPhoneNumber, []string{"phone_number", "phone", "phonenumber", "mobile", "cell", "telephone", "contact_number"}},
	{models.FieldTitlePosition, []string{"title_position", "title", "position", "job_title", "jobtitle", "role"}},
	{models.FieldOrganizationAffiliation, []string{"organization_affiliation", "organization", "organisation", "company", "affiliation", "employer"}},
	{models.FieldTShirtSize, []string{"t_shirt_size", "tshirt_size", "shirt_size", "tshirt", "size"}},
	{models.FieldDietaryRestrictions, []string{"dietary_restrictions", "dietary", "diet", "food_restrictions", "allergies"}},
	{models.FieldAccessibilityNeeds, []string{"accessibility_needs", "accessibility", "accommodations", "special_needs"}},
	{models.FieldBio, []string{"bio", "biography", "about", "description"}},
	{models.FieldProfessionalInterests, []string{"professional_interests", "professional_interest", "interests_professional"}},
	{models.FieldCommunityInterests, []string{"community_interests", "community_interest", "interests_community"}},
}

// fallbackMatchers drive the second auto-mapping pass: when a required-
// shape field is still unset after alias matching, the first record key
// (in source column order) containing one of the substrings fills it.
// Order matters: more specific matchers come first.
var fallbackMatchers = []struct {
	Field      string
	Substrings []string
}{
	{models.FieldFirstName, []string{"first", "given"}},
	{models.FieldLastName, []string{"last", "surname", "family"}},
	{models.FieldEmail, []string{"email", "mail"}},
}
