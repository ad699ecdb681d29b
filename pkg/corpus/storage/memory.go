package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dna-hq/netexport/pkg/corpus"
)

// MemoryStorage implements corpus.Storage using in-memory maps.
// It backs tests and one-shot exports of a dataset file that never needs to
// be persisted.
type MemoryStorage struct {
	documents  map[int]*corpus.Document
	types      map[int]*corpus.StatementType
	statements map[int]*corpus.Statement
	lastID     map[string]int
	mu         sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		documents:  make(map[int]*corpus.Document),
		types:      make(map[int]*corpus.StatementType),
		statements: make(map[int]*corpus.Statement),
		lastID:     make(map[string]int),
	}
}

// nextID returns id unchanged if it is set, otherwise the next id for kind.
// It must be called with s.mu held.
func (s *MemoryStorage) nextID(kind string, id int) int {
	if id == 0 {
		id = s.lastID[kind] + 1
	}
	if id > s.lastID[kind] {
		s.lastID[kind] = id
	}
	return id
}

// StoreDocument persists a document.
func (s *MemoryStorage) StoreDocument(ctx context.Context, doc *corpus.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; ok && doc.ID != 0 {
		return corpus.NewStorageError("memory", "store_document",
			fmt.Errorf("%w: document id %d", corpus.ErrDuplicate, doc.ID))
	}

	doc.ID = s.nextID("document", doc.ID)

	// Create a copy to avoid mutation
	docCopy := *doc
	s.documents[doc.ID] = &docCopy

	return nil
}

// StoreStatementType persists a statement type.
func (s *MemoryStorage) StoreStatementType(ctx context.Context, st *corpus.StatementType) error {
	if err := st.Validate(); err != nil {
		return corpus.NewStorageError("memory", "store_statement_type", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[st.ID]; ok && st.ID != 0 {
		return corpus.NewStorageError("memory", "store_statement_type",
			fmt.Errorf("%w: statement type id %d", corpus.ErrDuplicate, st.ID))
	}
	for _, existing := range s.types {
		if existing.Label == st.Label {
			return corpus.NewStorageError("memory", "store_statement_type",
				fmt.Errorf("%w: statement type label %q", corpus.ErrDuplicate, st.Label))
		}
	}

	st.ID = s.nextID("statement_type", st.ID)

	stCopy := *st
	stCopy.Variables = append([]corpus.Variable(nil), st.Variables...)
	s.types[st.ID] = &stCopy

	return nil
}

// StoreStatement persists a statement after checking references and schema.
func (s *MemoryStorage) StoreStatement(ctx context.Context, stmt *corpus.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statements[stmt.ID]; ok && stmt.ID != 0 {
		return corpus.NewStorageError("memory", "store_statement",
			fmt.Errorf("%w: statement id %d", corpus.ErrDuplicate, stmt.ID))
	}
	if _, ok := s.documents[stmt.DocumentID]; !ok {
		return corpus.NewStorageError("memory", "store_statement",
			fmt.Errorf("%w: %d", corpus.ErrUnknownDocument, stmt.DocumentID))
	}
	st, ok := s.types[stmt.StatementTypeID]
	if !ok {
		return corpus.NewStorageError("memory", "store_statement",
			fmt.Errorf("%w: %d", corpus.ErrUnknownStatementType, stmt.StatementTypeID))
	}
	if err := stmt.CheckSchema(st); err != nil {
		return corpus.NewStorageError("memory", "store_statement", err)
	}

	stmt.ID = s.nextID("statement", stmt.ID)

	stmtCopy := stmt.Clone()
	s.statements[stmt.ID] = &stmtCopy

	return nil
}

// Snapshot returns a copy of the stored corpus.
func (s *MemoryStorage) Snapshot(ctx context.Context) (*corpus.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, corpus.NewStorageError("memory", "snapshot", err)
	}

	ids := make([]int, 0, len(s.statements))
	for id := range s.statements {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	statements := make([]corpus.Statement, 0, len(ids))
	for _, id := range ids {
		statements = append(statements, *s.statements[id])
	}

	documents := make([]corpus.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		documents = append(documents, *doc)
	}

	types := make([]corpus.StatementType, 0, len(s.types))
	for _, st := range s.types {
		types = append(types, *st)
	}

	return corpus.NewSnapshot(statements, documents, types), nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = make(map[int]*corpus.Document)
	s.types = make(map[int]*corpus.StatementType)
	s.statements = make(map[int]*corpus.Statement)
	s.lastID = make(map[string]int)
	return nil
}

// Size returns the number of statements in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.statements)
}
