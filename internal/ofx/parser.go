// Package ofx imports bank and credit card statements in OFX/QFX format.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/pattern"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// opening tags on their own line that lost the closing bracket
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// idNamespace scopes statement IDs so the same FITID always maps to the same
// transaction ID.
var idNamespace = uuid.MustParse("6f1c3c1e-8d0a-4a57-9c2e-5b8f4f0f2a91")

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

var namePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"UPI/",
	"NEFT/",
	"IMPS/",
}

// Statement is the ledger view of one OFX file.
type Statement struct {
	Accounts     []string
	Transactions []model.Transaction
	// Skipped counts zero-amount entries that cannot be recorded.
	Skipped int
}

// Parser converts OFX statements into ledger transactions.
type Parser struct {
	rules *pattern.Matcher
}

// NewParser creates a new OFX parser. Lines that would land in Other are
// recategorized by rules when it is non-nil.
func NewParser(rules *pattern.Matcher) *Parser {
	return &Parser{rules: rules}
}

func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX/QFX document. Every statement line becomes a CARD
// transaction: credits are INCOME, debits EXPENSE.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return Statement{}, errors.New("failed to parse OFX file: empty input")
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return Statement{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var st Statement
	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return Statement{}, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			p.collect(&st, string(stmt.BankAcctFrom.AcctID), stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return Statement{}, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			p.collect(&st, string(stmt.CCAcctFrom.AcctID), stmt.BankTranList)
		}
	}

	recategorized := p.rules.Categorize(st.Transactions)

	slog.Info("Parsed OFX file",
		"accounts", len(st.Accounts),
		"recategorized", recategorized,
		"transactions", len(st.Transactions),
		"skipped", st.Skipped)

	return st, nil
}

func (p *Parser) collect(st *Statement, account string, list *ofxgo.TransactionList) {
	if account != "" {
		st.Accounts = append(st.Accounts, account)
	}
	if list == nil {
		return
	}
	for _, ofxTx := range list.Transactions {
		txn, ok := p.convert(ofxTx, account)
		if !ok {
			st.Skipped++
			continue
		}
		st.Transactions = append(st.Transactions, txn)
	}
}

func (p *Parser) convert(ofxTx ofxgo.Transaction, account string) (model.Transaction, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(4))
	if err != nil || amount.IsZero() {
		return model.Transaction{}, false
	}

	typ := model.TypeExpense
	if amount.IsPositive() {
		typ = model.TypeIncome
	}

	category := model.CategoryOther
	switch ofxTx.TrnType {
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		category = model.CategoryFees
	}

	return model.Transaction{
		ID:       TransactionID(account, string(ofxTx.FiTID)),
		Amount:   amount.Abs(),
		Type:     typ,
		Category: category,
		Method:   model.MethodCard,
		Date:     ofxTx.DtPosted.UTC(),
		Note:     merchantName(ofxTx),
	}, true
}

// TransactionID derives a stable transaction ID from the account and the
// institution's FITID, so re-importing a statement does not duplicate lines.
func TransactionID(account, fitID string) string {
	return uuid.NewSHA1(idNamespace, []byte(account+"\x00"+fitID)).String()
}

func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// leading "MM/DD " posting dates
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}
