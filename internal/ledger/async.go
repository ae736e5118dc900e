package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/token-ledger-system/internal/async"
)

// DepositResult carries the outcome of a multiplier-scaled deposit.
type DepositResult struct {
	Applied int64
	Balance int64
}

// AsyncLedger offloads ledger operations to a worker pool so latency-sensitive
// callers are not blocked on storage I/O. It changes delivery only, never
// semantics: the per-account locks inside Ledger remain the serialization
// boundary, regardless of which worker runs the operation.
//
// Submitted operations run with a detached context: once started they are
// never cancelled mid-flight, so partial application cannot happen. A caller
// that stops waiting on the returned future experiences a delivery failure,
// not a rollback.
type AsyncLedger struct {
	ledger *Ledger
	pool   *async.Pool
}

func NewAsyncLedger(l *Ledger, pool *async.Pool) *AsyncLedger {
	return &AsyncLedger{
		ledger: l,
		pool:   pool,
	}
}

func (a *AsyncLedger) GetBalance(ctx context.Context, accountID uuid.UUID) *async.Future[int64] {
	opCtx := context.WithoutCancel(ctx)
	return async.Run(a.pool, func() (int64, error) {
		return a.ledger.GetBalance(opCtx, accountID)
	})
}

func (a *AsyncLedger) SetBalance(ctx context.Context, accountID uuid.UUID, amount int64, reason string) *async.Future[struct{}] {
	opCtx := context.WithoutCancel(ctx)
	return async.Run(a.pool, func() (struct{}, error) {
		return struct{}{}, a.ledger.SetBalance(opCtx, accountID, amount, reason)
	})
}

func (a *AsyncLedger) Adjust(ctx context.Context, accountID uuid.UUID, delta int64, reason string) *async.Future[int64] {
	opCtx := context.WithoutCancel(ctx)
	return async.Run(a.pool, func() (int64, error) {
		return a.ledger.Adjust(opCtx, accountID, delta, reason)
	})
}

func (a *AsyncLedger) TryWithdraw(ctx context.Context, accountID uuid.UUID, amount int64, reason string) *async.Future[bool] {
	opCtx := context.WithoutCancel(ctx)
	return async.Run(a.pool, func() (bool, error) {
		return a.ledger.TryWithdraw(opCtx, accountID, amount, reason)
	})
}

func (a *AsyncLedger) DepositWithMultiplier(ctx context.Context, accountID uuid.UUID, baseAmount int64, reason string) *async.Future[DepositResult] {
	opCtx := context.WithoutCancel(ctx)
	return async.Run(a.pool, func() (DepositResult, error) {
		applied, balance, err := a.ledger.DepositWithMultiplier(opCtx, accountID, baseAmount, reason)
		return DepositResult{Applied: applied, Balance: balance}, err
	})
}

// Reward credits a plain amount, the manual reward path. Equivalent to an
// Adjust with a positive delta.
func (a *AsyncLedger) Reward(ctx context.Context, accountID uuid.UUID, amount int64, reason string) *async.Future[int64] {
	return a.Adjust(ctx, accountID, amount, reason)
}
