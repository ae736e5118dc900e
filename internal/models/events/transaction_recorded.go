package events

import "time"

// TransactionRecorded is emitted after a balance mutation has been committed
// and its audit record appended. Delivery is best-effort; the ledger state is
// authoritative.
type TransactionRecorded struct {
	Sequence      int64     `json:"sequence"`
	AccountID     string    `json:"account_id"`
	Delta         int64     `json:"delta"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}
