package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRecord is one immutable audit entry for a balance mutation.
// Sequence and Timestamp are assigned by the transaction log at append time;
// records are never updated or deleted, and Sequence is the log's total order.
type TransactionRecord struct {
	Sequence      int64
	AccountID     uuid.UUID
	Delta         int64 // signed amount applied; 0 for absolute sets
	BalanceBefore int64
	BalanceAfter  int64
	Reason        string // free text, stored verbatim, never interpreted
	Timestamp     time.Time
}
