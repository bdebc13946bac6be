// Package pattern assigns categories to imported transactions by matching
// their notes against merchant rules.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// Rule maps notes that match Pattern to Category. Plain patterns match a
// case-insensitive substring, regex patterns are compiled case-insensitive.
type Rule struct {
	Pattern  string `mapstructure:"pattern"`
	Category string `mapstructure:"category"`
	// Type limits the rule to INCOME or EXPENSE entries. Empty matches both,
	// except for income categories which only ever match income.
	Type     string `mapstructure:"type"`
	Regex    bool   `mapstructure:"regex"`
	Priority int    `mapstructure:"priority"`
}

type compiledRule struct {
	re   *regexp.Regexp
	typ  model.TransactionType
	rule Rule
	// needle is the lowered plain pattern, unused for regex rules.
	needle string
}

func compile(r Rule) (compiledRule, error) {
	r.Pattern = strings.TrimSpace(r.Pattern)
	r.Category = strings.TrimSpace(r.Category)
	if r.Pattern == "" {
		return compiledRule{}, fmt.Errorf("rule for %q: empty pattern", r.Category)
	}
	if r.Category == "" {
		return compiledRule{}, fmt.Errorf("rule %q: empty category", r.Pattern)
	}

	c := compiledRule{rule: r}
	if r.Type != "" {
		typ, err := model.ParseTransactionType(r.Type)
		if err != nil {
			return compiledRule{}, fmt.Errorf("rule %q: %w", r.Pattern, err)
		}
		c.typ = typ
	}
	if incomeCategory(r.Category) {
		if c.typ == model.TypeExpense {
			return compiledRule{}, fmt.Errorf("rule %q: %s is an income category", r.Pattern, r.Category)
		}
		c.typ = model.TypeIncome
	}

	if r.Regex {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return compiledRule{}, fmt.Errorf("rule %q: %w", r.Pattern, err)
		}
		c.re = re
	} else {
		c.needle = strings.ToLower(r.Pattern)
	}
	return c, nil
}

func (c compiledRule) matches(txn model.Transaction) bool {
	if c.typ != "" && txn.Type != c.typ {
		return false
	}
	if c.re != nil {
		return c.re.MatchString(txn.Note)
	}
	return strings.Contains(strings.ToLower(txn.Note), c.needle)
}

func incomeCategory(name string) bool {
	for _, b := range model.BuiltinCategories() {
		if b.Income && strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

// DefaultRules recognizes common merchants on student statements.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `scholarship|stipend|\bnsp\b`, Category: model.CategoryScholarship, Regex: true, Priority: 20},
		{Pattern: `allowance|pocket money`, Category: model.CategoryAllowance, Regex: true, Priority: 20},
		{Pattern: `tuition|exam fee|hostel fee|late fee|college fee`, Category: model.CategoryFees, Type: "expense", Regex: true, Priority: 15},
		{Pattern: `netflix|spotify|hotstar|prime video|bookmyshow|\bpvr\b|inox|steam`, Category: model.CategoryFun, Type: "expense", Regex: true, Priority: 10},
		{Pattern: `swiggy|zomato|cafe|canteen|restaurant|domino|mcdonald|starbucks|\bmess\b`, Category: model.CategoryFood, Type: "expense", Regex: true},
		{Pattern: `\buber\b|\bola\b|rapido|irctc|metro|redbus|petrol|fuel`, Category: model.CategoryTransport, Type: "expense", Regex: true},
		{Pattern: `book|stationery|xerox|kindle`, Category: model.CategoryBooks, Type: "expense", Regex: true},
		{Pattern: `electricity|recharge|airtel|\bjio\b|vodafone|broadband|\brent\b`, Category: model.CategoryBills, Type: "expense", Regex: true},
	}
}
