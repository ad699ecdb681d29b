package corpus

import (
	"context"
	"fmt"
	"time"
)

// Variable is one entry of a statement type's schema.
type Variable struct {
	Name string   `yaml:"name" json:"name"`
	Type DataType `yaml:"type" json:"type"`
}

// StatementType declares the ordered variable schema shared by a family of
// statements.
type StatementType struct {
	ID        int        `yaml:"id" json:"id"`
	Label     string     `yaml:"label" json:"label"`
	Color     string     `yaml:"color,omitempty" json:"color,omitempty"`
	Variables []Variable `yaml:"variables" json:"variables"`
}

// Variable returns the variable called name.
func (st *StatementType) Variable(name string) (Variable, bool) {
	for _, v := range st.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// HasVariable reports whether name is declared on st.
func (st *StatementType) HasVariable(name string) bool {
	_, ok := st.Variable(name)
	return ok
}

// VariablesByType returns the names of the variables whose type is one of
// types, in declaration order.
func (st *StatementType) VariablesByType(types ...DataType) []string {
	var names []string
	for _, v := range st.Variables {
		for _, t := range types {
			if v.Type == t {
				names = append(names, v.Name)
				break
			}
		}
	}
	return names
}

// Validate checks that st has a label and a well-formed variable list.
func (st *StatementType) Validate() error {
	if st.Label == "" {
		return fmt.Errorf("%w: statement type %d has no label", ErrInvalidStatementType, st.ID)
	}
	seen := make(map[string]struct{}, len(st.Variables))
	for i, v := range st.Variables {
		if v.Name == "" {
			return fmt.Errorf("%w: %q: variable %d has no name", ErrInvalidStatementType, st.Label, i)
		}
		if _, ok := seen[v.Name]; ok {
			return fmt.Errorf("%w: %q: variable %q declared twice", ErrInvalidStatementType, st.Label, v.Name)
		}
		seen[v.Name] = struct{}{}
		if _, err := ParseDataType(string(v.Type)); err != nil {
			return fmt.Errorf("%w: %q: variable %q: %v", ErrInvalidStatementType, st.Label, v.Name, err)
		}
	}
	return nil
}

// DocumentField names a document attribute that exports can exclude on.
type DocumentField string

const (
	FieldAuthor  DocumentField = "author"
	FieldSource  DocumentField = "source"
	FieldSection DocumentField = "section"
	FieldType    DocumentField = "type"
)

// DocumentFields lists the excludable document fields in column order.
var DocumentFields = []DocumentField{FieldAuthor, FieldSource, FieldSection, FieldType}

// Document is a coded text with its bibliographic metadata.
type Document struct {
	ID      int       `yaml:"id" json:"id"`
	Title   string    `yaml:"title" json:"title"`
	Author  string    `yaml:"author" json:"author"`
	Source  string    `yaml:"source" json:"source"`
	Section string    `yaml:"section" json:"section"`
	Type    string    `yaml:"type" json:"type"`
	Text    string    `yaml:"text" json:"text"`
	Date    time.Time `yaml:"date" json:"date"`
}

// Field returns the value of the named metadata field, or "" for an unknown
// field.
func (d *Document) Field(f DocumentField) string {
	switch f {
	case FieldAuthor:
		return d.Author
	case FieldSource:
		return d.Source
	case FieldSection:
		return d.Section
	case FieldType:
		return d.Type
	default:
		return ""
	}
}

// Statement is a typed observation anchored to the text span [Start, Stop)
// of a document, counted in runes.
type Statement struct {
	ID              int              `yaml:"id" json:"id"`
	StatementTypeID int              `yaml:"statement_type" json:"statement_type"`
	DocumentID      int              `yaml:"document" json:"document"`
	Start           int              `yaml:"start" json:"start"`
	Stop            int              `yaml:"stop" json:"stop"`
	Date            time.Time        `yaml:"date" json:"date"`
	Values          map[string]Value `yaml:"values" json:"values"`
}

// Value returns the value stored for the variable name.
func (s *Statement) Value(name string) (Value, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Excerpt returns the document text covered by the statement. Offsets are
// clamped to the text, so a stale span never panics.
func (s *Statement) Excerpt(doc *Document) string {
	if doc == nil {
		return ""
	}
	runes := []rune(doc.Text)
	start := clamp(s.Start, 0, len(runes))
	stop := clamp(s.Stop, start, len(runes))
	return string(runes[start:stop])
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Conforms reports whether the key set of s.Values equals the variables
// declared by st.
func (s *Statement) Conforms(st *StatementType) bool {
	return s.CheckSchema(st) == nil
}

// CheckSchema returns a *SchemaError describing the first difference between
// s.Values and the variables of st, including values of the wrong kind.
func (s *Statement) CheckSchema(st *StatementType) error {
	if len(s.Values) != len(st.Variables) {
		for name := range s.Values {
			if !st.HasVariable(name) {
				return &SchemaError{StatementID: s.ID, StatementTypeID: st.ID, Variable: name, Reason: "not declared"}
			}
		}
	}
	for _, v := range st.Variables {
		val, ok := s.Values[v.Name]
		if !ok {
			return &SchemaError{StatementID: s.ID, StatementTypeID: st.ID, Variable: v.Name, Reason: "missing value"}
		}
		if !val.Matches(v.Type) {
			return &SchemaError{
				StatementID:     s.ID,
				StatementTypeID: st.ID,
				Variable:        v.Name,
				Reason:          fmt.Sprintf("value %q is not a valid %s", val.String(), v.Type),
			}
		}
	}
	return nil
}

// Clone returns a copy of s with its own Values map.
func (s Statement) Clone() Statement {
	values := make(map[string]Value, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	s.Values = values
	return s
}

// DocumentLookup resolves documents by id.
type DocumentLookup interface {
	Document(id int) (*Document, bool)
}

// StatementTypeLookup resolves statement types by id.
type StatementTypeLookup interface {
	StatementType(id int) (*StatementType, bool)
}

// Storage defines the interface for corpus storage backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// StoreDocument persists a document. A zero ID is replaced by the next
	// free id, which is written back into doc.
	StoreDocument(ctx context.Context, doc *Document) error

	// StoreStatementType persists a statement type and its variable schema.
	// A zero ID is assigned as for documents. Labels must be unique.
	StoreStatementType(ctx context.Context, st *StatementType) error

	// StoreStatement persists a statement after checking that its document
	// and statement type exist and that its values conform to the schema.
	StoreStatement(ctx context.Context, stmt *Statement) error

	// Snapshot returns an immutable copy of the stored corpus with
	// statements in ascending id order.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close releases any resources held by the storage backend.
	Close() error
}
