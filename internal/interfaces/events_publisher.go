package interfaces

import (
	"context"

	"github.com/sheikh-saqib/token-ledger-system/internal/models/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.TransactionRecorded) error
}
