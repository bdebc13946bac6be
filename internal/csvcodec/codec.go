// Package csvcodec reads and writes the ledger's CSV backup format.
//
// The format has a fixed header followed by one row per transaction:
//
//	Date,Type,Category,Amount,Method,Note
//	"2024-03-05 12:30","EXPENSE","Food",120.5,"CASH","lunch"
//
// Every field except the amount is quoted. Dates carry minute precision only.
package csvcodec

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/service"
)

// Header is the first line of every export.
const Header = "Date,Type,Category,Amount,Method,Note"

// DateLayout is the wall-clock layout used for the Date column.
const DateLayout = "2006-01-02 15:04"

const minColumns = 5

// Codec converts between transactions and CSV text.
type Codec struct {
	ids service.IDGenerator
	loc *time.Location
}

// Option configures a Codec.
type Option func(*Codec)

// WithLocation sets the wall-clock zone dates are written and read in. The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Codec) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New creates a codec that mints IDs for imported rows with ids.
func New(ids service.IDGenerator, opts ...Option) *Codec {
	c := &Codec{ids: ids, loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode writes the header and one line per transaction, separated by "\n".
func (c *Codec) Encode(w io.Writer, txns []model.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range txns {
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if _, err := bw.WriteString(c.encodeRow(t)); err != nil {
			return fmt.Errorf("failed to write row %s: %w", t.ID, err)
		}
	}
	return bw.Flush()
}

// EncodeString returns the CSV text for txns.
func (c *Codec) EncodeString(txns []model.Transaction) string {
	var sb strings.Builder
	_ = c.Encode(&sb, txns)
	return sb.String()
}

func (c *Codec) encodeRow(t model.Transaction) string {
	fields := []string{
		quote(t.Date.In(c.loc).Format(DateLayout)),
		quote(string(t.Type)),
		quote(t.Category),
		t.Amount.String(),
		quote(string(t.Method)),
		quote(t.Note),
	}
	return strings.Join(fields, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Result is the outcome of decoding CSV text.
type Result struct {
	Transactions []model.Transaction
	Skipped      int
}

// Decode parses CSV text. The first line is always treated as the header and
// blank lines are ignored. Rows that cannot be understood are counted in
// Skipped and otherwise dropped. Accepted rows get fresh IDs and keep file order.
func (c *Codec) Decode(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return c.DecodeString(string(data)), nil
}

// DecodeString parses CSV text held in memory.
func (c *Codec) DecodeString(text string) Result {
	var res Result
	for i, line := range logicalLines(text) {
		if i == 0 {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, ok := c.decodeRow(line)
		if !ok {
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, t)
	}
	return res
}

// logicalLines splits text into rows. A physical line that leaves a quoted
// field open continues on the next one, so notes with embedded line breaks
// decode as one row. A quote still open at the end of the text falls back to
// one row per physical line.
func logicalLines(text string) []string {
	var (
		rows    []string
		pending []string
		open    bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		pending = append(pending, line)
		if strings.Count(line, `"`)%2 == 1 {
			open = !open
		}
		if open {
			continue
		}
		rows = append(rows, strings.Join(pending, "\n"))
		pending = pending[:0]
	}
	return append(rows, pending...)
}

func (c *Codec) decodeRow(line string) (model.Transaction, bool) {
	cols := SplitLine(line)
	if len(cols) < minColumns {
		return model.Transaction{}, false
	}

	date, err := parseDate(cols[0], c.loc)
	if err != nil {
		return model.Transaction{}, false
	}
	amount, err := parseAmount(cols[3])
	if err != nil {
		return model.Transaction{}, false
	}
	typ, err := model.ParseTransactionType(cols[1])
	if err != nil {
		return model.Transaction{}, false
	}
	method, err := model.ParsePaymentMethod(cols[4])
	if err != nil {
		return model.Transaction{}, false
	}

	t := model.Transaction{
		ID:       c.ids.NewID(),
		Date:     date,
		Type:     typ,
		Category: cols[2],
		Amount:   amount,
		Method:   method,
	}
	if len(cols) > minColumns {
		t.Note = cols[5]
	}
	return t, true
}
