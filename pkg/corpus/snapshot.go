package corpus

import "sort"

// Snapshot is an immutable view of one corpus state. It implements
// DocumentLookup and StatementTypeLookup. Values returned by its lookups are
// shared and must not be modified.
type Snapshot struct {
	statements []Statement
	documents  map[int]*Document
	types      map[int]*StatementType
	typeOrder  []int
}

// NewSnapshot copies the given records into a new Snapshot. Statements keep
// the order in which they are passed.
func NewSnapshot(statements []Statement, documents []Document, types []StatementType) *Snapshot {
	s := &Snapshot{
		statements: make([]Statement, len(statements)),
		documents:  make(map[int]*Document, len(documents)),
		types:      make(map[int]*StatementType, len(types)),
	}

	for i, stmt := range statements {
		s.statements[i] = stmt.Clone()
	}
	for i := range documents {
		doc := documents[i]
		s.documents[doc.ID] = &doc
	}
	for i := range types {
		st := types[i]
		st.Variables = append([]Variable(nil), st.Variables...)
		if _, ok := s.types[st.ID]; !ok {
			s.typeOrder = append(s.typeOrder, st.ID)
		}
		s.types[st.ID] = &st
	}
	sort.Ints(s.typeOrder)

	return s
}

// Statements returns the statements in snapshot order. The slice is a copy;
// the Values maps are shared.
func (s *Snapshot) Statements() []Statement {
	return append([]Statement(nil), s.statements...)
}

// Len returns the number of statements.
func (s *Snapshot) Len() int { return len(s.statements) }

// Document implements DocumentLookup.
func (s *Snapshot) Document(id int) (*Document, bool) {
	d, ok := s.documents[id]
	return d, ok
}

// StatementType implements StatementTypeLookup.
func (s *Snapshot) StatementType(id int) (*StatementType, bool) {
	st, ok := s.types[id]
	return st, ok
}

// StatementTypes returns the statement types in ascending id order.
func (s *Snapshot) StatementTypes() []*StatementType {
	out := make([]*StatementType, 0, len(s.typeOrder))
	for _, id := range s.typeOrder {
		out = append(out, s.types[id])
	}
	return out
}

// StatementTypeByLabel returns the statement type with the given label.
func (s *Snapshot) StatementTypeByLabel(label string) (*StatementType, bool) {
	for _, id := range s.typeOrder {
		if st := s.types[id]; st.Label == label {
			return st, true
		}
	}
	return nil, false
}

// DocumentCount returns the number of documents.
func (s *Snapshot) DocumentCount() int { return len(s.documents) }
