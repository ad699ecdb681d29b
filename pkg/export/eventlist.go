package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"dna-hq/netexport/pkg/corpus"
)

// TimeLayout is the timestamp format of event list rows.
const TimeLayout = "2006-01-02 15:04:05"

// Lookup resolves the documents and statement types referenced by
// statements. *corpus.Snapshot implements it.
type Lookup interface {
	corpus.DocumentLookup
	corpus.StatementTypeLookup
}

// eventListColumns are the fixed leading columns of an event list.
var eventListColumns = []string{
	"statement ID", "time", "document ID", "document title",
	"author", "source", "section", "type", "text",
}

// EventListExporter writes statements as a semicolon-separated table, one
// statement per line. Text fields are always double quoted, with semicolons
// and double quotes inside them replaced so that they never need escaping.
// Integer and boolean fields are written bare.
type EventListExporter struct{}

// NewEventListExporter creates a new event list exporter.
func NewEventListExporter() *EventListExporter {
	return &EventListExporter{}
}

// Validate checks that statements can be exported together and returns their
// statement type. It fails with ErrNoStatementSelected for an empty input and
// with a *ValidationError when the statements span several statement types or
// reference an unknown document or statement type.
func (e *EventListExporter) Validate(statements []corpus.Statement, lookup Lookup) (*corpus.StatementType, error) {
	if len(statements) == 0 {
		return nil, ErrNoStatementSelected
	}

	typeID := statements[0].StatementTypeID
	for i := range statements {
		s := &statements[i]
		if s.StatementTypeID != typeID {
			return nil, &ValidationError{Message: "more than one statement type selected"}
		}
		if _, ok := lookup.Document(s.DocumentID); !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("statement %d references unknown document %d", s.ID, s.DocumentID)}
		}
	}

	st, ok := lookup.StatementType(typeID)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown statement type %d", typeID)}
	}
	return st, nil
}

// Export validates statements and writes the event list to w. Nothing is
// written when validation fails.
func (e *EventListExporter) Export(w io.Writer, statements []corpus.Statement, lookup Lookup) error {
	st, err := e.Validate(statements, lookup)
	if err != nil {
		return err
	}
	return e.write(w, statements, st, lookup)
}

// ExportFile validates statements, then creates path and writes the event
// list to it. The file is not created when validation fails. Write errors
// are returned as *IOError and leave the partial file in place.
func (e *EventListExporter) ExportFile(path string, statements []corpus.Statement, lookup Lookup) (err error) {
	st, err := e.Validate(statements, lookup)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return NewIOError("create", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = NewIOError("close", path, closeErr)
		}
	}()

	if err := e.write(f, statements, st, lookup); err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return err
	}
	return nil
}

func (e *EventListExporter) write(w io.Writer, statements []corpus.Statement, st *corpus.StatementType, lookup Lookup) error {
	bw := bufio.NewWriter(w)

	header := make([]string, 0, len(eventListColumns)+len(st.Variables))
	for _, col := range eventListColumns {
		header = append(header, quote(col))
	}
	for _, v := range st.Variables {
		header = append(header, quote(v.Name))
	}
	if _, err := bw.WriteString(strings.Join(header, ";") + "\n"); err != nil {
		return NewIOError("write", "", err)
	}

	row := make([]string, 0, len(header))
	for i := range statements {
		s := &statements[i]
		doc, _ := lookup.Document(s.DocumentID)

		row = row[:0]
		row = append(row,
			strconv.Itoa(s.ID),
			s.Date.Format(TimeLayout),
			strconv.Itoa(s.DocumentID),
			quote(doc.Title),
			quote(doc.Author),
			quote(doc.Source),
			quote(doc.Section),
			quote(doc.Type),
			quote(s.Excerpt(doc)),
		)
		for _, v := range st.Variables {
			val, _ := s.Value(v.Name)
			if v.Type.IsNumeric() {
				row = append(row, val.String())
			} else {
				row = append(row, quote(val.String()))
			}
		}

		if _, err := bw.WriteString(strings.Join(row, ";") + "\n"); err != nil {
			return NewIOError("write", "", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return NewIOError("write", "", err)
	}
	return nil
}

var neutralizer = strings.NewReplacer(
	";", ",",
	`"`, "'",
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// quote wraps s in double quotes after replacing the field separator, the
// quote character and line breaks.
func quote(s string) string {
	return `"` + neutralizer.Replace(s) + `"`
}
