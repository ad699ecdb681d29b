package export

import (
	"time"

	"dna-hq/netexport/pkg/corpus"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dnaStatementType() corpus.StatementType {
	return corpus.StatementType{
		ID:    1,
		Label: "DNA Statement",
		Variables: []corpus.Variable{
			{Name: "person", Type: corpus.ShortText},
			{Name: "organization", Type: corpus.ShortText},
			{Name: "concept", Type: corpus.LongText},
			{Name: "agreement", Type: corpus.Boolean},
		},
	}
}

func dnaStatement(id, doc int, when, person, org, concept string, agree bool) corpus.Statement {
	return corpus.Statement{
		ID:              id,
		StatementTypeID: 1,
		DocumentID:      doc,
		Date:            date(when),
		Values: map[string]corpus.Value{
			"person":       corpus.TextValue(person),
			"organization": corpus.TextValue(org),
			"concept":      corpus.TextValue(concept),
			"agreement":    corpus.BoolValue(agree),
		},
	}
}

// fixtureSnapshot holds two statement types, two documents and four
// statements; statement 4 has the second type.
func fixtureSnapshot() *corpus.Snapshot {
	types := []corpus.StatementType{
		dnaStatementType(),
		{
			ID:        2,
			Label:     "Actor",
			Variables: []corpus.Variable{{Name: "actor", Type: corpus.ShortText}},
		},
	}

	docs := []corpus.Document{
		{ID: 1, Title: "Doc one", Author: "Reuters", Source: "wire", Text: `Alpha; beta "gamma"` + "\ndelta", Date: date("2020-01-01 00:00:00")},
		{ID: 2, Title: "Doc two", Author: "dpa", Source: "wire", Section: "politics", Type: "report", Text: "Second text", Date: date("2020-06-01 00:00:00")},
	}

	s1 := dnaStatement(1, 1, "2020-01-01 10:30:00", "Alice", "Org1", "Tax", true)
	s1.Stop = 19
	statements := []corpus.Statement{
		s1,
		dnaStatement(2, 2, "2020-06-01 08:00:00", "Bob", "Org2", "Tax", true),
		dnaStatement(3, 2, "2021-01-01 12:00:00", "Alice", "Org1", "Health", false),
		{
			ID:              4,
			StatementTypeID: 2,
			DocumentID:      1,
			Date:            date("2020-02-01 00:00:00"),
			Values:          map[string]corpus.Value{"actor": corpus.TextValue("X")},
		},
	}

	return corpus.NewSnapshot(statements, docs, types)
}

func ids(statements []corpus.Statement) []int {
	out := make([]int, len(statements))
	for i, s := range statements {
		out[i] = s.ID
	}
	return out
}
