package interfaces

import (
	"context"

	"github.com/sheikh-saqib/token-ledger-system/internal/models"
)

// TransactionLog is the append-only audit trail. Append assigns the record's
// sequence number and timestamp and returns the completed record; prior
// records are never overwritten or removed.
type TransactionLog interface {
	Append(ctx context.Context, rec models.TransactionRecord) (models.TransactionRecord, error)
}
