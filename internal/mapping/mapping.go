// Package mapping loads the PDF field alias and checkbox mapping file.
//
// Government form PDFs name their fields inconsistently across revisions,
// so the mapping file ties logical keys ("c1.employer", "week_ending") to
// a list of candidate field names; the first candidate present in the
// actual form wins.
package mapping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping holds field aliases and checkbox groups for one form revision.
type Mapping struct {
	// Aliases maps a logical key to candidate PDF field names.
	Aliases map[string][]string `yaml:"aliases"`

	// Checkboxes maps a logical group key (e.g. "c1.kind") to a
	// label -> PDF checkbox field name table.
	Checkboxes map[string]map[string]string `yaml:"checkboxes"`
}

// Load reads a mapping file from YAML.
func Load(path string) (*Mapping, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var m Mapping
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	if m.Aliases == nil {
		m.Aliases = map[string][]string{}
	}
	if m.Checkboxes == nil {
		m.Checkboxes = map[string]map[string]string{}
	}

	return &m, nil
}

// Resolve returns the first candidate field for the logical key that is
// present in fields, or "" if none match.
func (m *Mapping) Resolve(fields map[string]struct{}, key string) string {
	for _, candidate := range m.Aliases[key] {
		if _, ok := fields[candidate]; ok {
			return candidate
		}
	}
	return ""
}

// CheckboxGroup returns the label -> field table for a logical group key,
// or nil if the mapping has no such group.
func (m *Mapping) CheckboxGroup(key string) map[string]string {
	return m.Checkboxes[key]
}

// MatchLabel reports whether a checkbox label applies to a value: labels
// match by case-insensitive substring, mirroring how the form groups
// options ("employer" matches kind "Employer contact").
func MatchLabel(label, value string) bool {
	if label == "" {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(value)), strings.ToLower(label))
}
