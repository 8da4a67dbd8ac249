package mapping

import (
	"fmt"
	"os"

	"github.com/event-roster-api/internal/models"
	"gopkg.in/yaml.v3"
)

// mappingFile is the on-disk shape of an explicit mapping definition.
type mappingFile struct {
	Mappings []models.FieldMapping `yaml:"mappings"`
}

// LoadMappingFile reads explicit field mappings from a YAML file. Each
// entry binds a source column label to a canonical field; at most one
// mapping per source column is allowed.
func LoadMappingFile(path string) ([]models.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	if err := ValidateMappings(mf.Mappings); err != nil {
		return nil, err
	}
	return mf.Mappings, nil
}

// ValidateMappings rejects duplicate source columns and unknown targets.
func ValidateMappings(mappings []models.FieldMapping) error {
	seen := make(map[string]bool)
	for _, m := range mappings {
		if m.Source == "" {
			return fmt.Errorf("mapping with empty source column")
		}
		if seen[m.Source] {
			return fmt.Errorf("duplicate mapping for source column %q", m.Source)
		}
		seen[m.Source] = true
		if !models.IsCanonicalField(m.Target) {
			return fmt.Errorf("unknown target field %q for source column %q", m.Target, m.Source)
		}
	}
	return nil
}
