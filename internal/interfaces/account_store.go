package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// AccountStore is the durable account-id to balance mapping. Accounts are
// created implicitly on first write; an account that has never been written
// reads as zero (absence is defined as zero balance, not an error).
//
// AccountStore makes no atomicity guarantee across a Read/Write pair. The
// ledger holds an account-scoped lock around the full read-modify-write
// sequence; implementations only need each individual call to be safe for
// concurrent use.
type AccountStore interface {
	Read(ctx context.Context, accountID uuid.UUID) (int64, error)
	Write(ctx context.Context, accountID uuid.UUID, balance int64) error
}
