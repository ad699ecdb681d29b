package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dna-hq/netexport/pkg/corpus"
)

// NetworkType selects what an export produces.
type NetworkType string

const (
	// OneModeNetwork is a co-occurrence projection over variable 1 values.
	OneModeNetwork NetworkType = "oneMode"
	// TwoModeNetwork is the affiliation network between variable 1 and
	// variable 2 values.
	TwoModeNetwork NetworkType = "twoMode"
	// EventList is a flat table with one row per statement.
	EventList NetworkType = "eventList"
)

// IsNetwork reports whether t produces a Network value.
func (t NetworkType) IsNetwork() bool {
	return t == OneModeNetwork || t == TwoModeNetwork
}

// Pattern is the agreement pattern of a one-mode projection.
type Pattern string

const (
	Congruence Pattern = "congruence"
	Conflict   Pattern = "conflict"
	Subtract   Pattern = "subtract"
	Separate   Pattern = "separate"
)

// Aggregation is the time aggregation rule.
type Aggregation string

const (
	WholeDateRange Aggregation = "whole date range"
	PerDocument    Aggregation = "per document"
	PerYear        Aggregation = "per calendar year"
	PerTimeWindow  Aggregation = "per time window"
)

// Format is the output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatDL      Format = "dl"
	FormatGraphML Format = "graphml"
)

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f.orDefault())
}

// orDefault maps the unset format to csv, the format every network type
// accepts.
func (f Format) orDefault() Format {
	if f == "" {
		return FormatCSV
	}
	return f
}

// ExportSetting is the declarative description of one export run. It is
// validated once and must not be modified while a run is in progress.
type ExportSetting struct {
	NetworkType   NetworkType `yaml:"network_type" json:"network_type"`
	StatementType int         `yaml:"statement_type" json:"statement_type"`

	Variable1 string `yaml:"variable1,omitempty" json:"variable1,omitempty"`
	Variable2 string `yaml:"variable2,omitempty" json:"variable2,omitempty"`

	// Qualifier names a boolean or integer variable. When set, only
	// statements whose qualifier value is in QualifierValues contribute; an
	// empty QualifierValues allows every value.
	Qualifier       string  `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
	QualifierValues []int   `yaml:"qualifier_values,omitempty" json:"qualifier_values,omitempty"`
	Pattern         Pattern `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// ExcludeDocuments drops statements whose document field value is listed.
	ExcludeDocuments map[corpus.DocumentField][]string `yaml:"exclude_documents,omitempty" json:"exclude_documents,omitempty"`

	// ExcludeValues drops statements whose value for the variable is listed.
	ExcludeValues map[string][]string `yaml:"exclude_values,omitempty" json:"exclude_values,omitempty"`

	// Start and Stop bound the statement date, inclusive. A zero time leaves
	// that side open.
	Start time.Time `yaml:"start,omitempty" json:"start,omitempty"`
	Stop  time.Time `yaml:"stop,omitempty" json:"stop,omitempty"`

	Aggregation Aggregation `yaml:"aggregation,omitempty" json:"aggregation,omitempty"`
	WindowDays  int         `yaml:"window_days,omitempty" json:"window_days,omitempty"`

	Format Format `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// ApplyDefaults fills in the pattern, aggregation and format when unset.
// Network exports default to defaultFormat; event lists are always csv.
func (s *ExportSetting) ApplyDefaults(defaultFormat Format) {
	if s.Pattern == "" {
		s.Pattern = Congruence
	}
	if s.Aggregation == "" {
		s.Aggregation = WholeDateRange
	}
	if s.Format == "" {
		s.Format = defaultFormat
		if s.Format == "" || s.NetworkType == EventList {
			s.Format = FormatCSV
		}
	}
}

// LoadSetting reads a YAML export setting from path and applies defaults
// with csv as the default format. Unknown keys are rejected.
func LoadSetting(path string) (*ExportSetting, error) {
	return LoadSettingWithFormat(path, FormatCSV)
}

// LoadSettingWithFormat is LoadSetting with a different default format.
func LoadSettingWithFormat(path string, defaultFormat Format) (*ExportSetting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export setting %s: %w", path, err)
	}

	return ParseSetting(data, defaultFormat)
}

// ParseSetting decodes a YAML export setting and applies defaults.
func ParseSetting(data []byte, defaultFormat Format) (*ExportSetting, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s ExportSetting
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse export setting: %w", err)
	}

	s.ApplyDefaults(defaultFormat)
	return &s, nil
}

// OutputFile returns Output with the format extension appended when it does
// not already end with it. It returns "" when no output is set.
func (s *ExportSetting) OutputFile() string {
	if s.Output == "" {
		return ""
	}
	ext := s.Format.Extension()
	if strings.EqualFold(filepath.Ext(s.Output), ext) {
		return s.Output
	}
	return s.Output + ext
}

// Qualification returns the qualifier restriction, or nil when no qualifier
// variable is set.
func (s *ExportSetting) Qualification() *Qualifier {
	if s.Qualifier == "" {
		return nil
	}
	return &Qualifier{Variable: s.Qualifier, Values: append([]int(nil), s.QualifierValues...)}
}

// Validate checks the setting against the statement types of a corpus and
// returns a *ConfigurationError listing every problem, or nil.
func (s *ExportSetting) Validate(types corpus.StatementTypeLookup) error {
	cfgErr := &ConfigurationError{}

	switch s.NetworkType {
	case OneModeNetwork, TwoModeNetwork, EventList:
	case "":
		cfgErr.add("network_type", "is required")
	default:
		cfgErr.add("network_type", fmt.Sprintf("unknown network type %q (valid: oneMode, twoMode, eventList)", s.NetworkType))
	}

	st, ok := types.StatementType(s.StatementType)
	if !ok {
		cfgErr.add("statement_type", fmt.Sprintf("statement type %d does not exist", s.StatementType))
	}

	if ok {
		s.validateVariables(st, cfgErr)
	}

	if !s.Start.IsZero() && !s.Stop.IsZero() && s.Start.After(s.Stop) {
		cfgErr.add("start", fmt.Sprintf("start %s is after stop %s",
			s.Start.Format(time.RFC3339), s.Stop.Format(time.RFC3339)))
	}

	s.validatePattern(cfgErr)
	s.validateAggregation(cfgErr)
	s.validateFormat(cfgErr)

	for field := range s.ExcludeDocuments {
		if !isDocumentField(field) {
			cfgErr.add("exclude_documents", fmt.Sprintf("unknown document field %q (valid: author, source, section, type)", field))
		}
	}

	if len(cfgErr.Errors) > 0 {
		return cfgErr
	}
	return nil
}

func (s *ExportSetting) validateVariables(st *corpus.StatementType, cfgErr *ConfigurationError) {
	if s.NetworkType.IsNetwork() {
		for _, field := range []struct{ key, name string }{
			{"variable1", s.Variable1},
			{"variable2", s.Variable2},
		} {
			if field.name == "" {
				cfgErr.add(field.key, "is required for network exports")
				continue
			}
			if !st.HasVariable(field.name) {
				cfgErr.add(field.key, fmt.Sprintf("variable %q is not declared on statement type %q", field.name, st.Label))
			}
		}
	}

	if s.Qualifier != "" {
		v, ok := st.Variable(s.Qualifier)
		switch {
		case !ok:
			cfgErr.add("qualifier", fmt.Sprintf("variable %q is not declared on statement type %q", s.Qualifier, st.Label))
		case !v.Type.IsNumeric():
			cfgErr.add("qualifier", fmt.Sprintf("variable %q is %s; qualifiers must be boolean or integer (candidates: %s)",
				s.Qualifier, v.Type, strings.Join(st.VariablesByType(corpus.Boolean, corpus.Integer), ", ")))
		case v.Type == corpus.Boolean:
			for _, q := range s.QualifierValues {
				if q != 0 && q != 1 {
					cfgErr.add("qualifier_values", fmt.Sprintf("boolean qualifier %q only takes 0 or 1, got %d", s.Qualifier, q))
				}
			}
		}
	} else if len(s.QualifierValues) > 0 {
		cfgErr.add("qualifier_values", "set without a qualifier variable")
	}

	for name := range s.ExcludeValues {
		if !st.HasVariable(name) {
			cfgErr.add("exclude_values", fmt.Sprintf("variable %q is not declared on statement type %q", name, st.Label))
		}
	}
}

func (s *ExportSetting) validatePattern(cfgErr *ConfigurationError) {
	switch s.Pattern {
	case Congruence, "":
	case Conflict, Subtract, Separate:
		if s.NetworkType == OneModeNetwork {
			cfgErr.addCause("pattern", ErrPatternNotImplemented, fmt.Sprintf("pattern %q is not implemented", s.Pattern))
		}
	default:
		cfgErr.add("pattern", fmt.Sprintf("unknown pattern %q (valid: congruence, conflict, subtract, separate)", s.Pattern))
	}
}

func (s *ExportSetting) validateAggregation(cfgErr *ConfigurationError) {
	switch s.Aggregation {
	case WholeDateRange, "":
	case PerDocument, PerYear:
		cfgErr.addCause("aggregation", ErrAggregationNotImplemented, fmt.Sprintf("aggregation %q is not implemented", s.Aggregation))
	case PerTimeWindow:
		if s.WindowDays <= 0 {
			cfgErr.add("window_days", "must be positive for per time window aggregation")
		}
		cfgErr.addCause("aggregation", ErrAggregationNotImplemented, fmt.Sprintf("aggregation %q is not implemented", s.Aggregation))
	default:
		cfgErr.add("aggregation", fmt.Sprintf("unknown aggregation %q", s.Aggregation))
	}
}

func (s *ExportSetting) validateFormat(cfgErr *ConfigurationError) {
	switch s.Format {
	case FormatCSV, "":
	case FormatDL, FormatGraphML:
		if s.NetworkType == EventList {
			cfgErr.addCause("format", ErrFormatNotSupported, fmt.Sprintf("event lists can only be written as csv, not %s", s.Format))
		}
	default:
		cfgErr.add("format", fmt.Sprintf("unknown format %q (valid: csv, dl, graphml)", s.Format))
	}

	if s.NetworkType == EventList && s.Output == "" {
		cfgErr.add("output", "is required for event list exports")
	}
}

func isDocumentField(f corpus.DocumentField) bool {
	for _, known := range corpus.DocumentFields {
		if f == known {
			return true
		}
	}
	return false
}
