package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/event-roster-api/internal/models"
)

func writeTempMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write mapping file: %v", err)
	}
	return path
}

func TestLoadMappingFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeTempMapping(t, `
mappings:
  - source: Work Email
    target: email
  - source: Given
    target: first_name
    required: true
`)
		mappings, err := LoadMappingFile(path)
		if err != nil {
			t.Fatalf("LoadMappingFile() error = %v", err)
		}
		if len(mappings) != 2 {
			t.Fatalf("expected 2 mappings, got %d", len(mappings))
		}
		if mappings[0].Source != "Work Email" || mappings[0].Target != models.FieldEmail {
			t.Errorf("mappings[0] = %+v", mappings[0])
		}
		if !mappings[1].Required {
			t.Error("required flag not read")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadMappingFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeTempMapping(t, "mappings: [oops")
		if _, err := LoadMappingFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		path := writeTempMapping(t, `
mappings:
  - source: Badge
    target: badge_tier
`)
		if _, err := LoadMappingFile(path); err == nil {
			t.Error("expected error for unknown target field")
		}
	})
}

func TestValidateMappings(t *testing.T) {
	tests := []struct {
		name     string
		mappings []models.FieldMapping
		wantErr  bool
	}{
		{"empty set", nil, false},
		{"valid", []models.FieldMapping{{Source: "Email", Target: models.FieldEmail}}, false},
		{"empty source", []models.FieldMapping{{Source: "", Target: models.FieldEmail}}, true},
		{"duplicate source", []models.FieldMapping{
			{Source: "Email", Target: models.FieldEmail},
			{Source: "Email", Target: models.FieldFirstName},
		}, true},
		{"unknown target", []models.FieldMapping{{Source: "Email", Target: "nope"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMappings(tt.mappings)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMappings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
