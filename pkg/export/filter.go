package export

import "dna-hq/netexport/pkg/corpus"

// Filter returns the statements in scope for setting, in input order.
//
// A statement is kept when all of the following hold:
//   - its statement type is setting.StatementType
//   - its date lies within [Start, Stop] (a zero bound is open)
//   - none of its document's author, source, section or type is excluded
//   - none of its variable values is excluded for that variable
//
// A statement whose document is missing from docs is judged on empty
// document fields. The input slice is not modified.
func Filter(statements []corpus.Statement, docs corpus.DocumentLookup, setting *ExportSetting) []corpus.Statement {
	docExcluded := make(map[corpus.DocumentField]map[string]struct{}, len(setting.ExcludeDocuments))
	for field, values := range setting.ExcludeDocuments {
		docExcluded[field] = toSet(values)
	}
	valueExcluded := make(map[string]map[string]struct{}, len(setting.ExcludeValues))
	for name, values := range setting.ExcludeValues {
		valueExcluded[name] = toSet(values)
	}

	out := make([]corpus.Statement, 0, len(statements))
	for i := range statements {
		s := &statements[i]

		if s.StatementTypeID != setting.StatementType {
			continue
		}
		if !setting.Start.IsZero() && s.Date.Before(setting.Start) {
			continue
		}
		if !setting.Stop.IsZero() && s.Date.After(setting.Stop) {
			continue
		}
		if documentExcluded(s, docs, docExcluded) {
			continue
		}
		if valuesExcluded(s, valueExcluded) {
			continue
		}

		out = append(out, *s)
	}
	return out
}

func documentExcluded(s *corpus.Statement, docs corpus.DocumentLookup, excluded map[corpus.DocumentField]map[string]struct{}) bool {
	if len(excluded) == 0 {
		return false
	}

	doc, ok := docs.Document(s.DocumentID)
	if !ok {
		doc = &corpus.Document{}
	}
	for field, set := range excluded {
		if _, hit := set[doc.Field(field)]; hit {
			return true
		}
	}
	return false
}

func valuesExcluded(s *corpus.Statement, excluded map[string]map[string]struct{}) bool {
	for name, set := range excluded {
		v, ok := s.Value(name)
		if !ok {
			continue
		}
		if _, hit := set[v.String()]; hit {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
