package export

import (
	"fmt"

	"dna-hq/netexport/pkg/corpus"
	"dna-hq/netexport/pkg/network"
)

// Qualifier restricts which statements contribute to a network by the
// integer value of a boolean or integer variable. A nil *Qualifier lets
// every statement contribute.
type Qualifier struct {
	Variable string

	// Values lists the allowed qualifier values. Empty allows any integer.
	Values []int
}

// Allows reports whether s passes the qualifier. A statement without an
// integer value for the qualifier variable never passes.
func (q *Qualifier) Allows(s *corpus.Statement) bool {
	if q == nil {
		return true
	}
	n, ok := q.value(s)
	if !ok {
		return false
	}
	if len(q.Values) == 0 {
		return true
	}
	for _, allowed := range q.Values {
		if n == allowed {
			return true
		}
	}
	return false
}

func (q *Qualifier) value(s *corpus.Statement) (int, bool) {
	v, ok := s.Value(q.Variable)
	if !ok {
		return 0, false
	}
	return v.Int()
}

// nodeLabels collects the distinct non-empty values of var1 and var2 in
// first-occurrence order. Every statement is scanned, whether or not it
// contributes an edge.
func nodeLabels(statements []corpus.Statement, var1, var2 string) (names1, names2 []string) {
	seen1 := make(map[string]struct{})
	seen2 := make(map[string]struct{})
	add := func(s *corpus.Statement, name string, seen map[string]struct{}, names *[]string) {
		v, ok := s.Value(name)
		if !ok || v.IsEmpty() {
			return
		}
		label := v.String()
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		*names = append(*names, label)
	}

	for i := range statements {
		add(&statements[i], var1, seen1, &names1)
		add(&statements[i], var2, seen2, &names2)
	}
	return names1, names2
}

// affiliationMatrix counts, for every statement accepted by allow that has
// non-empty var1 and var2 values, one co-occurrence in the labeled matrix.
func affiliationMatrix(statements []corpus.Statement, var1, var2 string, names1, names2 []string, allow func(*corpus.Statement) bool) (*network.Matrix, error) {
	m := network.NewMatrix(names1, names2)
	for i := range statements {
		s := &statements[i]
		if !allow(s) {
			continue
		}
		v1, ok1 := s.Value(var1)
		v2, ok2 := s.Value(var2)
		if !ok1 || !ok2 || v1.IsEmpty() || v2.IsEmpty() {
			continue
		}
		if err := m.Increment(m.RowIndex(v1.String()), m.ColIndex(v2.String()), 1); err != nil {
			return nil, fmt.Errorf("statement %d: %w", s.ID, err)
		}
	}
	return m, nil
}

// Affiliation builds the two-mode network between the values of var1 (rows)
// and var2 (columns). Cell (a, b) counts the contributing statements that
// code var1 = a and var2 = b. Row and column order is the order in which
// values first occur in statements.
func Affiliation(statements []corpus.Statement, var1, var2 string, q *Qualifier) (*network.Network, error) {
	names1, names2 := nodeLabels(statements, var1, var2)
	m, err := affiliationMatrix(statements, var1, var2, names1, names2, q.Allows)
	if err != nil {
		return nil, err
	}
	return network.FromMatrix(m, network.TwoMode), nil
}

// OneMode builds the co-occurrence network over var1 values.
//
// For the congruence pattern, statements are grouped by qualifier value; for
// each group q the affiliation matrix M_q is projected to M_q × M_qᵀ and the
// projections are summed. The diagonal is zeroed last. Without a qualifier
// all statements form one group. Other patterns return
// ErrPatternNotImplemented.
func OneMode(statements []corpus.Statement, var1, var2 string, q *Qualifier, pattern Pattern) (*network.Network, error) {
	if pattern != Congruence && pattern != "" {
		return nil, fmt.Errorf("%w: %s", ErrPatternNotImplemented, pattern)
	}

	names1, names2 := nodeLabels(statements, var1, var2)
	sum := network.NewMatrix(names1, names1)

	for _, allow := range qualifierGroups(statements, q) {
		m, err := affiliationMatrix(statements, var1, var2, names1, names2, allow)
		if err != nil {
			return nil, err
		}
		mt, err := network.Transpose(m)
		if err != nil {
			return nil, err
		}
		projected, err := network.Mul(m, mt)
		if err != nil {
			return nil, err
		}
		if sum, err = network.Plus(sum, projected); err != nil {
			return nil, err
		}
	}

	if err := sum.ZeroDiagonal(); err != nil {
		return nil, err
	}
	return network.FromMatrix(sum, network.OneMode), nil
}

// qualifierGroups returns one predicate per qualifier level allowed by q,
// in the order levels first occur.
func qualifierGroups(statements []corpus.Statement, q *Qualifier) []func(*corpus.Statement) bool {
	if q == nil {
		return []func(*corpus.Statement) bool{func(*corpus.Statement) bool { return true }}
	}

	var groups []func(*corpus.Statement) bool
	seen := make(map[int]struct{})
	for i := range statements {
		s := &statements[i]
		if !q.Allows(s) {
			continue
		}
		level, _ := q.value(s)
		if _, dup := seen[level]; dup {
			continue
		}
		seen[level] = struct{}{}
		groups = append(groups, func(s *corpus.Statement) bool {
			n, ok := q.value(s)
			return ok && n == level
		})
	}
	return groups
}
