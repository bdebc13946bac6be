// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/MoneNarendra/unibudget/internal/model"
	"github.com/MoneNarendra/unibudget/internal/storage"
)

// TestDB wraps an in-memory store opened for one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB opens a migrated in-memory store that is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.OpenSQLiteStorage(context.Background(), storage.MemoryPath, storage.DriverCGo)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedTransactions saves txns and fails the test on error.
func (db *TestDB) SeedTransactions(txns ...model.Transaction) {
	db.t.Helper()
	for _, txn := range txns {
		if err := db.Storage.SaveTransaction(context.Background(), txn); err != nil {
			db.t.Fatalf("failed to seed transaction %q: %v", txn.ID, err)
		}
	}
}

// SeedLimits saves limits and fails the test on error.
func (db *TestDB) SeedLimits(limits ...model.BudgetLimit) {
	db.t.Helper()
	for _, l := range limits {
		if err := db.Storage.SaveLimit(context.Background(), l); err != nil {
			db.t.Fatalf("failed to seed limit %q: %v", l.Category, err)
		}
	}
}

// Transactions lists stored transactions and fails the test on error.
func (db *TestDB) Transactions() []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.ListTransactions(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list transactions: %v", err)
	}
	return txns
}
