package csvcodec

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// TransactionSaver persists one transaction durably.
type TransactionSaver interface {
	SaveTransaction(ctx context.Context, txn model.Transaction) error
}

// ImportResult reports what an import stored.
type ImportResult struct {
	// Imported holds the stored rows in file order.
	Imported []model.Transaction
	Skipped  int
}

// Importer decodes CSV text and stores the accepted rows one at a time.
type Importer struct {
	codec *Codec
	store TransactionSaver
	// OnRow, when set, is called after each row is stored.
	OnRow func(done, total int)
}

// NewImporter creates an importer that writes to store.
func NewImporter(codec *Codec, store TransactionSaver) *Importer {
	return &Importer{codec: codec, store: store}
}

// Import stores accepted rows in file order. If a save fails, the rows stored
// before it remain durable and are returned alongside the error.
func (i *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	decoded, err := i.codec.Decode(r)
	if err != nil {
		return ImportResult{}, err
	}
	return i.save(ctx, decoded)
}

// ImportString is Import for text held in memory.
func (i *Importer) ImportString(ctx context.Context, text string) (ImportResult, error) {
	return i.save(ctx, i.codec.DecodeString(text))
}

func (i *Importer) save(ctx context.Context, decoded Result) (ImportResult, error) {
	res := ImportResult{Skipped: decoded.Skipped}
	total := len(decoded.Transactions)

	for n, txn := range decoded.Transactions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := i.store.SaveTransaction(ctx, txn); err != nil {
			return res, fmt.Errorf("failed to import row %d of %d: %w", n+1, total, err)
		}
		res.Imported = append(res.Imported, txn)
		if i.OnRow != nil {
			i.OnRow(n+1, total)
		}
	}

	slog.Info("Imported transactions from csv",
		"imported", len(res.Imported),
		"skipped", res.Skipped)
	return res, nil
}
