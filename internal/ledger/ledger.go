package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/models"
	"github.com/sheikh-saqib/token-ledger-system/internal/models/events"
	"github.com/sheikh-saqib/token-ledger-system/internal/policy"
)

// ErrInvalidAmount is returned when a negative amount is passed where a
// non-negative amount is required. The operation is rejected before any
// mutation is attempted.
var ErrInvalidAmount = errors.New("amount must be non-negative")

// Ledger enforces atomic, audited balance mutations. Every operation on one
// account runs under that account's lock, spanning the full
// read-modify-write-and-log sequence, so concurrent operations on the same
// account are linearizable. Operations on different accounts never contend.
type Ledger struct {
	accounts interfaces.AccountStore
	log      interfaces.TransactionLog
	policy   *policy.MultiplierPolicy
	events   interfaces.EventPublisher // optional, nil disables publishing
	logger   *zap.Logger

	muMap map[uuid.UUID]*sync.Mutex // per-account lock, created on first use
	mapMu sync.Mutex                // protects the muMap itself
}

// NewLedger creates a Ledger over the given storage and policy. The event
// publisher may be nil; a nil logger falls back to a no-op logger.
func NewLedger(
	accounts interfaces.AccountStore,
	log interfaces.TransactionLog,
	pol *policy.MultiplierPolicy,
	publisher interfaces.EventPublisher,
	logger *zap.Logger,
) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accounts: accounts,
		log:      log,
		policy:   pol,
		events:   publisher,
		logger:   logger,
		muMap:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (l *Ledger) getAccountLock(accountID uuid.UUID) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// GetBalance returns the current balance. Never-written accounts read as
// zero. No side effects.
func (l *Ledger) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return l.accounts.Read(ctx, accountID)
}

// SetBalance sets the absolute balance and appends an audit record with a
// zero delta. The amount is not clamped here; well-formed callers never pass
// a negative amount.
func (l *Ledger) SetBalance(ctx context.Context, accountID uuid.UUID, amount int64, reason string) error {
	mu := l.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	before, err := l.accounts.Read(ctx, accountID)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	return l.commitLocked(ctx, accountID, before, amount, 0, reason)
}

// Adjust applies a signed delta to the balance, clamping the result at a
// floor of zero, and returns the resulting balance. The audit record carries
// the unclamped delta together with the clamped after-value.
func (l *Ledger) Adjust(ctx context.Context, accountID uuid.UUID, delta int64, reason string) (int64, error) {
	mu := l.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	return l.adjustLocked(ctx, accountID, delta, reason)
}

func (l *Ledger) adjustLocked(ctx context.Context, accountID uuid.UUID, delta int64, reason string) (int64, error) {
	before, err := l.accounts.Read(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	after := before + delta
	if after < 0 {
		after = 0
	}

	if err := l.commitLocked(ctx, accountID, before, after, delta, reason); err != nil {
		return 0, err
	}
	return after, nil
}

// TryWithdraw withdraws amount if the balance covers it. Insufficient funds
// is an expected outcome reported as false, not an error. A negative amount
// is rejected with ErrInvalidAmount before any mutation.
func (l *Ledger) TryWithdraw(ctx context.Context, accountID uuid.UUID, amount int64, reason string) (bool, error) {
	if amount < 0 {
		return false, ErrInvalidAmount
	}

	mu := l.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	before, err := l.accounts.Read(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("read balance: %w", err)
	}
	if before < amount {
		return false, nil
	}

	if err := l.commitLocked(ctx, accountID, before, before-amount, -amount, reason); err != nil {
		return false, err
	}
	return true, nil
}

// DepositWithMultiplier scales the base amount by the account's multiplier
// tier, floors the product, and credits the result. Returns the applied
// amount and the resulting balance.
func (l *Ledger) DepositWithMultiplier(ctx context.Context, accountID uuid.UUID, baseAmount int64, reason string) (int64, int64, error) {
	if baseAmount < 0 {
		return 0, 0, ErrInvalidAmount
	}

	applied := int64(math.Floor(float64(baseAmount) * l.Multiplier(accountID)))

	mu := l.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	newBalance, err := l.adjustLocked(ctx, accountID, applied, reason)
	if err != nil {
		return 0, 0, err
	}
	return applied, newBalance, nil
}

// Multiplier returns the account's current deposit multiplier.
func (l *Ledger) Multiplier(accountID uuid.UUID) float64 {
	if l.policy == nil {
		return 1.0
	}
	return l.policy.MultiplierFor(accountID)
}

// commitLocked persists the new balance and appends the audit record. The
// account lock must be held. A log-append failure after the balance write is
// warned and tolerated: the mutation stands, it is not rolled back.
func (l *Ledger) commitLocked(ctx context.Context, accountID uuid.UUID, before, after, delta int64, reason string) error {
	if err := l.accounts.Write(ctx, accountID, after); err != nil {
		return fmt.Errorf("write balance: %w", err)
	}

	rec, err := l.log.Append(ctx, models.TransactionRecord{
		AccountID:     accountID,
		Delta:         delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
	})
	if err != nil {
		l.logger.Warn("transaction log append failed, balance already committed",
			zap.String("account_id", accountID.String()),
			zap.Int64("delta", delta),
			zap.Int64("balance_after", after),
			zap.Error(err))
		return nil
	}

	l.publish(ctx, rec)
	return nil
}

// publish emits the recorded transaction, best-effort. Publish failures never
// fail the mutation.
func (l *Ledger) publish(ctx context.Context, rec models.TransactionRecord) {
	if l.events == nil {
		return
	}
	event := events.TransactionRecorded{
		Sequence:      rec.Sequence,
		AccountID:     rec.AccountID.String(),
		Delta:         rec.Delta,
		BalanceBefore: rec.BalanceBefore,
		BalanceAfter:  rec.BalanceAfter,
		Reason:        rec.Reason,
		OccurredAt:    rec.Timestamp,
	}
	if err := l.events.Publish(ctx, event); err != nil {
		l.logger.Warn("failed to publish transaction event",
			zap.String("account_id", event.AccountID),
			zap.Int64("sequence", event.Sequence),
			zap.Error(err))
	}
}
