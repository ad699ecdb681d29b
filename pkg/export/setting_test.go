package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dna-hq/netexport/pkg/corpus"
)

func fieldNames(err error) []string {
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		return nil
	}
	var names []string
	for _, fe := range cfgErr.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func TestParseSetting(t *testing.T) {
	s, err := ParseSetting([]byte(`
network_type: twoMode
statement_type: 1
variable1: organization
variable2: concept
qualifier: agreement
qualifier_values: [1]
exclude_documents:
  author: [Reuters]
exclude_values:
  concept: [Health]
start: 2020-01-01T00:00:00Z
output: out/net
`), FormatGraphML)
	require.NoError(t, err)

	assert.Equal(t, TwoModeNetwork, s.NetworkType)
	assert.Equal(t, Congruence, s.Pattern)
	assert.Equal(t, WholeDateRange, s.Aggregation)
	assert.Equal(t, FormatGraphML, s.Format)
	assert.Equal(t, []string{"Reuters"}, s.ExcludeDocuments[corpus.FieldAuthor])
	assert.Equal(t, 2020, s.Start.Year())
	assert.True(t, s.Stop.IsZero())
	assert.Equal(t, "out/net.graphml", s.OutputFile())
	assert.Equal(t, &Qualifier{Variable: "agreement", Values: []int{1}}, s.Qualification())
}

func TestParseSetting_EventListIsCSV(t *testing.T) {
	s, err := ParseSetting([]byte("network_type: eventList\nstatement_type: 1\noutput: events\n"), FormatDL)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, s.Format)
}

func TestParseSetting_UnknownKey(t *testing.T) {
	_, err := ParseSetting([]byte("network_type: twoMode\nvariable_1: person\n"), FormatCSV)
	assert.Error(t, err)
}

func TestLoadSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setting.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network_type: oneMode\nstatement_type: 1\n"), 0o644))

	s, err := LoadSetting(path)
	require.NoError(t, err)
	assert.Equal(t, OneModeNetwork, s.NetworkType)
	assert.Equal(t, FormatCSV, s.Format)

	_, err = LoadSetting(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutputFile(t *testing.T) {
	tests := []struct {
		output string
		format Format
		want   string
	}{
		{"", FormatCSV, ""},
		{"net", FormatCSV, "net.csv"},
		{"net.csv", FormatCSV, "net.csv"},
		{"NET.CSV", FormatCSV, "NET.CSV"},
		{"net.csv", FormatDL, "net.csv.dl"},
		{"dir.v2/net", FormatGraphML, "dir.v2/net.graphml"},
		{"out", "", "out.csv"},
		{"out.csv", "", "out.csv"},
	}

	for _, tt := range tests {
		s := ExportSetting{Output: tt.output, Format: tt.format}
		assert.Equal(t, tt.want, s.OutputFile(), "output %q format %s", tt.output, tt.format)
	}
}

func TestValidate_Valid(t *testing.T) {
	snap := fixtureSnapshot()

	settings := []ExportSetting{
		{NetworkType: TwoModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept"},
		{NetworkType: OneModeNetwork, StatementType: 1, Variable1: "organization", Variable2: "concept", Qualifier: "agreement", QualifierValues: []int{0, 1}},
		{NetworkType: EventList, StatementType: 2, Output: "events"},
	}
	for _, s := range settings {
		s.ApplyDefaults(FormatCSV)
		assert.NoError(t, s.Validate(snap), "setting %+v", s)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	s := ExportSetting{
		NetworkType:   TwoModeNetwork,
		StatementType: 1,
		Variable1:     "nobody",
		Qualifier:     "concept",
		Start:         date("2021-01-01 00:00:00"),
		Stop:          date("2020-01-01 00:00:00"),
		ExcludeValues: map[string][]string{"missing": {"x"}},
	}
	s.ApplyDefaults(FormatCSV)

	err := s.Validate(fixtureSnapshot())
	require.Error(t, err)
	assert.ElementsMatch(t,
		[]string{"variable1", "variable2", "qualifier", "exclude_values", "start"},
		fieldNames(err))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setting ExportSetting
		field   string
		is      error
	}{
		{
			name:    "missing network type",
			setting: ExportSetting{StatementType: 1, Output: "x"},
			field:   "network_type",
		},
		{
			name:    "unknown network type",
			setting: ExportSetting{NetworkType: "threeMode", StatementType: 1},
			field:   "network_type",
		},
		{
			name:    "unknown statement type",
			setting: ExportSetting{NetworkType: EventList, StatementType: 7, Output: "x"},
			field:   "statement_type",
		},
		{
			name:    "conflict pattern",
			setting: ExportSetting{NetworkType: OneModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", Pattern: Conflict},
			field:   "pattern",
			is:      ErrPatternNotImplemented,
		},
		{
			name:    "per year aggregation",
			setting: ExportSetting{NetworkType: TwoModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", Aggregation: PerYear},
			field:   "aggregation",
			is:      ErrAggregationNotImplemented,
		},
		{
			name:    "time window without days",
			setting: ExportSetting{NetworkType: TwoModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", Aggregation: PerTimeWindow},
			field:   "window_days",
		},
		{
			name:    "event list as graphml",
			setting: ExportSetting{NetworkType: EventList, StatementType: 1, Format: FormatGraphML, Output: "x"},
			field:   "format",
			is:      ErrFormatNotSupported,
		},
		{
			name:    "event list without output",
			setting: ExportSetting{NetworkType: EventList, StatementType: 1},
			field:   "output",
		},
		{
			name:    "unknown format",
			setting: ExportSetting{NetworkType: TwoModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", Format: "gexf"},
			field:   "format",
		},
		{
			name:    "boolean qualifier out of range",
			setting: ExportSetting{NetworkType: OneModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", Qualifier: "agreement", QualifierValues: []int{2}},
			field:   "qualifier_values",
		},
		{
			name:    "qualifier values without qualifier",
			setting: ExportSetting{NetworkType: OneModeNetwork, StatementType: 1, Variable1: "person", Variable2: "concept", QualifierValues: []int{1}},
			field:   "qualifier_values",
		},
		{
			name:    "unknown document field",
			setting: ExportSetting{NetworkType: EventList, StatementType: 1, Output: "x", ExcludeDocuments: map[corpus.DocumentField][]string{"title": {"a"}}},
			field:   "exclude_documents",
		},
	}

	snap := fixtureSnapshot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setting.Validate(snap)
			require.Error(t, err)
			assert.Contains(t, fieldNames(err), tt.field)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
