package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dna-hq/netexport/pkg/corpus"
)

// Dataset is a corpus serialized as YAML:
//
//	statement_types:
//	  - id: 1
//	    label: DNA Statement
//	    variables:
//	      - {name: person, type: short text}
//	      - {name: agreement, type: boolean}
//	documents:
//	  - {id: 1, title: ..., author: ..., date: 2024-03-01T00:00:00Z, text: ...}
//	statements:
//	  - id: 1
//	    statement_type: 1
//	    document: 1
//	    start: 0
//	    stop: 12
//	    date: 2024-03-01T00:00:00Z
//	    values: {person: Angela Merkel, agreement: true}
type Dataset struct {
	StatementTypes []corpus.StatementType `yaml:"statement_types"`
	Documents      []corpus.Document      `yaml:"documents"`
	Statements     []corpus.Statement     `yaml:"statements"`
}

// Size returns the total number of records in the dataset.
func (d *Dataset) Size() int {
	return len(d.StatementTypes) + len(d.Documents) + len(d.Statements)
}

// Progress receives import progress. cli.ProgressReporter satisfies it.
type Progress interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)
}

// LoadDataset reads and decodes a YAML dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

// ImportDataset writes every record of ds into store: statement types first,
// then documents, then statements. It stops at the first error. progress may
// be nil.
func ImportDataset(ctx context.Context, store corpus.Storage, ds *Dataset, progress Progress) error {
	if progress != nil {
		progress.Start(int64(ds.Size()))
	}

	var done int64
	step := func(err error) error {
		if err != nil {
			if progress != nil {
				progress.Error(err)
			}
			return err
		}
		done++
		if progress != nil {
			progress.Update(done)
		}
		return ctx.Err()
	}

	for i := range ds.StatementTypes {
		if err := step(store.StoreStatementType(ctx, &ds.StatementTypes[i])); err != nil {
			return err
		}
	}
	for i := range ds.Documents {
		if err := step(store.StoreDocument(ctx, &ds.Documents[i])); err != nil {
			return err
		}
	}
	for i := range ds.Statements {
		if err := step(store.StoreStatement(ctx, &ds.Statements[i])); err != nil {
			return err
		}
	}

	if progress != nil {
		progress.Finish()
	}
	return nil
}

// OpenDataset loads the dataset at path into a new MemoryStorage.
func OpenDataset(ctx context.Context, path string) (*MemoryStorage, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	store := NewMemoryStorage()
	if err := ImportDataset(ctx, store, ds, nil); err != nil {
		return nil, err
	}
	return store, nil
}
