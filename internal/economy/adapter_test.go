package economy_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/token-ledger-system/internal/economy"
	"github.com/sheikh-saqib/token-ledger-system/internal/format"
	"github.com/sheikh-saqib/token-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/token-ledger-system/internal/policy"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage/memory"
)

func newAdapter(t *testing.T) (*economy.Adapter, *ledger.Ledger, *policy.StaticResolver) {
	t.Helper()
	store := memory.NewMemoryStore()
	resolver := policy.NewStaticResolver()
	l := ledger.NewLedger(store, store, policy.NewMultiplierPolicy(resolver, nil), nil, zap.NewNop())
	f, err := format.NewFormatter("en-US")
	require.NoError(t, err)
	return economy.NewAdapter(l, f, "Token"), l, resolver
}

func TestWithdrawRoundsUp(t *testing.T) {
	adapter, l, _ := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, l.SetBalance(ctx, account, 10, "seed"))

	// Withdrawing 2.3 debits 3 whole tokens; the caller never receives less
	// than requested through truncation.
	resp, err := adapter.Withdraw(ctx, account, "alice", decimal.RequireFromString("2.3"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3), resp.Amount)
	assert.Equal(t, int64(7), resp.Balance)
}

func TestWithdrawInsufficientFundsIsReportedNotError(t *testing.T) {
	adapter, l, _ := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, l.SetBalance(ctx, account, 5, "seed"))

	resp, err := adapter.Withdraw(ctx, account, "alice", decimal.NewFromInt(6))
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, int64(0), resp.Amount)
	assert.Equal(t, int64(5), resp.Balance)
	assert.Equal(t, "Insufficient funds", resp.Message)
}

func TestDepositMultipliesThenFloors(t *testing.T) {
	adapter, _, resolver := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()
	resolver.Grant(account, "tokens.multiplier.1.5")

	// 100.5 x 1.5 = 150.75, floored to 150.
	resp, err := adapter.Deposit(ctx, account, "bob", decimal.RequireFromString("100.5"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(150), resp.Amount)
	assert.Equal(t, int64(150), resp.Balance)
	assert.Equal(t, "Deposit successful with 1.5x multiplier", resp.Message)
}

func TestDepositWithoutTier(t *testing.T) {
	adapter, _, _ := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()

	resp, err := adapter.Deposit(ctx, account, "bob", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, int64(40), resp.Amount)
	assert.Equal(t, "Deposit successful with 1x multiplier", resp.Message)
}

func TestDepositRejectsNegativeAmount(t *testing.T) {
	adapter, _, _ := newAdapter(t)

	_, err := adapter.Deposit(context.Background(), uuid.New(), "bob", decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestHasUsesWithdrawalCeiling(t *testing.T) {
	adapter, l, _ := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, l.SetBalance(ctx, account, 3, "seed"))

	ok, err := adapter.Has(ctx, account, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.Has(ctx, account, decimal.RequireFromString("3.1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountIDFromNameIsStable(t *testing.T) {
	a := economy.AccountIDFromName("steve")
	b := economy.AccountIDFromName("steve")
	c := economy.AccountIDFromName("alex")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, uuid.Nil, a)
}

func TestNameAndIDPathsConvergeOnOneAccount(t *testing.T) {
	adapter, _, _ := newAdapter(t)
	ctx := context.Background()

	_, err := adapter.DepositByName(ctx, "steve", decimal.NewFromInt(25))
	require.NoError(t, err)

	balance, err := adapter.Balance(ctx, economy.AccountIDFromName("steve"))
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	balance, err = adapter.BalanceByName(ctx, "steve")
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)
}

func TestFormattedBalance(t *testing.T) {
	adapter, l, _ := newAdapter(t)
	ctx := context.Background()
	account := uuid.New()
	require.NoError(t, l.SetBalance(ctx, account, 1234567, "seed"))

	formatted, err := adapter.FormattedBalance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "1,234,567", formatted)
}

func TestCurrencyMetadata(t *testing.T) {
	adapter, _, _ := newAdapter(t)

	assert.Equal(t, "Token", adapter.CurrencyNameSingular())
	assert.Equal(t, "Tokens", adapter.CurrencyNamePlural())
	assert.Equal(t, 0, adapter.FractionalDigits())
	assert.True(t, adapter.HasAccount(uuid.New()))
}
