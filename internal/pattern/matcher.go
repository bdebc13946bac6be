package pattern

import (
	"sort"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Matcher evaluates transactions against an ordered rule set.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles rules. Higher Priority wins; among equal priorities
// the earlier rule wins.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c, err := compile(r)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].rule.Priority > compiled[j].rule.Priority
	})
	return &Matcher{rules: compiled}, nil
}

// Match returns the winning rule for txn.
func (m *Matcher) Match(txn model.Transaction) (Rule, bool) {
	if m == nil {
		return Rule{}, false
	}
	for _, c := range m.rules {
		if c.matches(txn) {
			return c.rule, true
		}
	}
	return Rule{}, false
}

// Categorize replaces the Other category on txns with the matching rule's
// category and reports how many changed. Other categories are left alone.
func (m *Matcher) Categorize(txns []model.Transaction) int {
	changed := 0
	for i := range txns {
		if txns[i].Category != model.CategoryOther {
			continue
		}
		if rule, ok := m.Match(txns[i]); ok {
			txns[i].Category = rule.Category
			changed++
		}
	}
	return changed
}

// Len is the number of rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}
