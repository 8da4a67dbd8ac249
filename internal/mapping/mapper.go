package mapping

import (
	"strings"

	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/parser"
)

// MapFields resolves raw records into canonical user records. When
// mappings is non-empty every record is mapped through the explicit
// source-to-target pairs; otherwise the heuristic alias tables apply.
// One output record per input record, same order; mapping never drops
// or merges rows. Every output carries first_name, last_name and email,
// defaulting to the empty string when nothing matched.
func MapFields(records []models.RawRecord, mappings []models.FieldMapping) []models.UserRecord {
	out := make([]models.UserRecord, 0, len(records))
	for i, raw := range records {
		rec := models.UserRecord{Row: i + 2, Extra: make(map[string]string)}

		var consumed map[string]bool
		if len(mappings) > 0 {
			consumed = applyExplicit(&rec, raw, mappings)
		} else {
			consumed = applyAliases(&rec, raw)
		}

		// Leftover source columns are preserved for diagnostics but
		// dropped before persistence.
		for _, key := range raw.Keys {
			if !consumed[key] {
				rec.Extra[key] = raw.Values[key]
			}
		}

		out = append(out, rec)
	}
	return out
}

// applyExplicit maps record values through user-specified mappings. The
// source column label is normalized the same way the parser normalizes
// headers, so "Phone Number" resolves to the key phone_number. Absent or
// empty source values leave the target unset.
func applyExplicit(rec *models.UserRecord, raw models.RawRecord, mappings []models.FieldMapping) map[string]bool {
	consumed := make(map[string]bool)
	for _, m := range mappings {
		key := parser.NormalizeKey(m.Source)
		value, ok := raw.Get(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if rec.SetField(m.Target, value) {
			consumed[key] = true
		} else {
			// Unrecognized target: keep the value visible under the
			// requested name rather than losing it silently.
			rec.Extra[m.Target] = value
			consumed[key] = true
		}
	}
	return consumed
}

// applyAliases performs heuristic auto-mapping: the alias tables first,
// then the substring fallback pass for the required-shape fields.
func applyAliases(rec *models.UserRecord, raw models.RawRecord) map[string]bool {
	consumed := make(map[string]bool)

	for _, fa := range fieldAliases {
		for _, alias := range fa.Aliases {
			value, ok := raw.Get(alias)
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			rec.SetField(fa.Field, value)
			consumed[alias] = true
			break
		}
	}

	for _, fm := range fallbackMatchers {
		if _, set := rec.Field(fm.Field); set {
			continue
		}
		for _, key := range raw.Keys {
			if !containsAny(key, fm.Substrings) {
				continue
			}
			rec.SetField(fm.Field, raw.Values[key])
			consumed[key] = true
			break
		}
	}

	return consumed
}

func containsAny(key string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}
