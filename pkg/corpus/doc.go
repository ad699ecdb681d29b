// Package corpus defines the coded data that network exports read: documents,
// statement types with their variable schema, and the statements coders have
// anchored to spans of document text.
//
// # Data Model
//
// A StatementType declares an ordered list of variables, each with a DataType.
// Every Statement belongs to one StatementType and one Document and carries a
// Value for each declared variable:
//
//	StatementType{ID: 1, Label: "DNA Statement", Variables: [
//	    {Name: "person", Type: ShortText},
//	    {Name: "organization", Type: ShortText},
//	    {Name: "concept", Type: ShortText},
//	    {Name: "agreement", Type: Boolean},
//	]}
//
// Values are either text or integers. Boolean variables store 0 or 1.
//
// # Snapshots
//
// Exports never reach into a store directly. A Storage produces a Snapshot,
// an immutable copy of the statements, documents and statement types at one
// point in time, and the snapshot is passed explicitly to the export engine.
// Snapshots are safe for concurrent readers.
//
// # Storage Backends
//
// The Storage interface is implemented in package corpus/storage by an
// in-memory backend, a SQLite backend and a caching decorator.
package corpus
