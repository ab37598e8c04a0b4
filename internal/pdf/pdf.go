// Package pdf reads and fills AcroForm PDF templates via pdfcpu.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Template is an opened PDF form template.
type Template struct {
	path   string
	names  []string
	fields map[string]struct{}
}

// exportedForm is the subset of pdfcpu's form-export JSON we care about:
// the field names, grouped by widget kind.
type exportedForm struct {
	Forms []struct {
		TextField        []exportedField `json:"textfield"`
		DateField        []exportedField `json:"datefield"`
		CheckBox         []exportedField `json:"checkbox"`
		RadioButtonGroup []exportedField `json:"radiobuttongroup"`
		ComboBox         []exportedField `json:"combobox"`
		ListBox          []exportedField `json:"listbox"`
	} `json:"forms"`
}

type exportedField struct {
	Name string `json:"name"`
}

// Open reads the form template and extracts its field names.
func Open(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.ExportForm(f, &buf, path, nil); err != nil {
		return nil, fmt.Errorf("failed to read form fields from %s: %w", path, err)
	}

	names, fields, err := parseExport(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to decode form export for %s: %w", path, err)
	}

	return &Template{path: path, names: names, fields: fields}, nil
}

// parseExport extracts the field names from pdfcpu's form-export JSON,
// deduplicated and sorted.
func parseExport(data []byte) ([]string, map[string]struct{}, error) {
	var exported exportedForm
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, nil, err
	}

	fields := make(map[string]struct{})
	var names []string
	for _, form := range exported.Forms {
		for _, group := range [][]exportedField{
			form.TextField, form.DateField, form.CheckBox,
			form.RadioButtonGroup, form.ComboBox, form.ListBox,
		} {
			for _, field := range group {
				if _, seen := fields[field.Name]; !seen {
					fields[field.Name] = struct{}{}
					names = append(names, field.Name)
				}
			}
		}
	}
	sort.Strings(names)
	return names, fields, nil
}

// Path returns the template's file path.
func (t *Template) Path() string {
	return t.path
}

// FieldNames returns all form field names, sorted.
func (t *Template) FieldNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Fields returns the set of form field names.
func (t *Template) Fields() map[string]struct{} {
	return t.fields
}

// fillField is one entry in pdfcpu's form-fill JSON.
type fillField struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type fillForm struct {
	TextField []fillField `json:"textfield,omitempty"`
	CheckBox  []fillField `json:"checkbox,omitempty"`
}

type fillDocument struct {
	Forms []fillForm `json:"forms"`
}

// Fill writes a filled copy of the template to outPath. Text values and
// checkbox states are applied by field name; unknown names are rejected by
// pdfcpu, so callers resolve names against Fields() first.
func (t *Template) Fill(values map[string]string, boxes map[string]bool, outPath string) error {
	content, err := buildFillJSON(values, boxes)
	if err != nil {
		return fmt.Errorf("failed to encode fill data: %w", err)
	}

	in, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("failed to open PDF %s: %w", t.path, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output PDF %s: %w", outPath, err)
	}
	defer out.Close()

	if err := api.FillForm(in, bytes.NewReader(content), out, nil); err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("failed to sync output PDF: %w", err)
	}

	return nil
}

// buildFillJSON encodes text values and checkbox states in pdfcpu's
// form-fill JSON format, in deterministic field order.
func buildFillJSON(values map[string]string, boxes map[string]bool) ([]byte, error) {
	var form fillForm
	for _, name := range sortedKeys(values) {
		form.TextField = append(form.TextField, fillField{Name: name, Value: values[name]})
	}
	for _, name := range sortedKeys(boxes) {
		form.CheckBox = append(form.CheckBox, fillField{Name: name, Value: boxes[name]})
	}
	return json.Marshal(fillDocument{Forms: []fillForm{form}})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
