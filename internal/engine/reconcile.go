package engine

import (
	"fmt"
	"log/slog"
)

// Op names a coordinator operation that writes to the store.
type Op string

// Write operations.
const (
	OpSaveTransaction    Op = "save_transaction"
	OpDeleteTransaction  Op = "delete_transaction"
	OpSaveLimit          Op = "save_limit"
	OpDeleteLimit        Op = "delete_limit"
	OpSaveCustomCategory Op = "save_custom_category"
	OpSaveTheme          Op = "save_theme"
	OpImport             Op = "import"
)

// Reconciliation reports a write that changed the in-memory state but failed to reach the store.
type Reconciliation struct {
	Err error
	// Previous is the state before the tentative change.
	Previous Snapshot
	Op       Op
	Key      string
	// RolledBack is true when the in-memory state was restored to Previous.
	RolledBack bool
}

func (r Reconciliation) String() string {
	action := "kept"
	if r.RolledBack {
		action = "rolled back"
	}
	return fmt.Sprintf("%s %s failed (%v), in-memory change %s", r.Op, r.Key, r.Err, action)
}

// ReconcileHandler receives reconciliation events. It is called with the coordinator locked
// and must not call back into the coordinator.
type ReconcileHandler func(Reconciliation)

func logReconciliation(r Reconciliation) {
	slog.Warn("Store write failed",
		"op", r.Op,
		"key", r.Key,
		"rolled_back", r.RolledBack,
		"error", r.Err)
}
