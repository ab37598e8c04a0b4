package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExport(t *testing.T) {
	export := `{
		"forms": [{
			"textfield": [
				{"name": "Name", "value": ""},
				{"name": "WeekEnding", "value": ""}
			],
			"datefield": [{"name": "Date1"}],
			"checkbox": [
				{"name": "Kind1_Employer", "value": false},
				{"name": "Kind1_Other", "value": false}
			]
		}]
	}`

	names, fields, err := parseExport([]byte(export))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date1", "Kind1_Employer", "Kind1_Other", "Name", "WeekEnding"}, names)
	assert.Contains(t, fields, "WeekEnding")
	assert.Contains(t, fields, "Kind1_Employer")
	assert.NotContains(t, fields, "Nope")
}

func TestParseExport_Deduplicates(t *testing.T) {
	export := `{
		"forms": [{
			"textfield": [{"name": "Name"}, {"name": "Name"}]
		}]
	}`

	names, fields, err := parseExport([]byte(export))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, names)
	assert.Len(t, fields, 1)
}

func TestParseExport_Empty(t *testing.T) {
	names, fields, err := parseExport([]byte(`{"forms": []}`))
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, fields)
}

func TestParseExport_InvalidJSON(t *testing.T) {
	_, _, err := parseExport([]byte("%PDF-1.7"))
	require.Error(t, err)
}

func TestBuildFillJSON(t *testing.T) {
	content, err := buildFillJSON(
		map[string]string{"Name": "Jane Doe", "WeekEnding": "2025-01-18"},
		map[string]bool{"Kind1_Employer": true, "Kind1_Other": false},
	)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"forms": [{
			"textfield": [
				{"name": "Name", "value": "Jane Doe"},
				{"name": "WeekEnding", "value": "2025-01-18"}
			],
			"checkbox": [
				{"name": "Kind1_Employer", "value": true},
				{"name": "Kind1_Other", "value": false}
			]
		}]
	}`, string(content))
}

func TestBuildFillJSON_OmitsEmptyGroups(t *testing.T) {
	content, err := buildFillJSON(map[string]string{"Name": "Jane"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"forms": [{"textfield": [{"name": "Name", "value": "Jane"}]}]}`, string(content))
}

func TestTemplate_FieldNamesCopies(t *testing.T) {
	tmpl := &Template{
		names:  []string{"A", "B"},
		fields: map[string]struct{}{"A": {}, "B": {}},
	}

	names := tmpl.FieldNames()
	names[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, tmpl.FieldNames())
}
