package economy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/token-ledger-system/internal/format"
	"github.com/sheikh-saqib/token-ledger-system/internal/ledger"
)

// Adapter translates economy-protocol calls, which carry decimal amounts and
// sometimes only a display name, into integral ledger operations. All
// rounding happens here, never inside the ledger: withdrawals round up so a
// caller can never withdraw less than requested by truncation, deposits
// multiply the decimal base by the account's tier factor and floor the
// product. Tokens have no fractional digits.
type Adapter struct {
	ledger       *ledger.Ledger
	formatter    *format.Formatter
	currencyName string
}

// Response mirrors the economy-protocol per-call result: the amount actually
// applied, the balance after the call, and whether the call succeeded.
type Response struct {
	Amount  int64
	Balance int64
	Success bool
	Message string
}

func NewAdapter(l *ledger.Ledger, f *format.Formatter, currencyName string) *Adapter {
	return &Adapter{
		ledger:       l,
		formatter:    f,
		currencyName: currencyName,
	}
}

func (a *Adapter) CurrencyNameSingular() string { return a.currencyName }
func (a *Adapter) CurrencyNamePlural() string   { return a.currencyName + "s" }

// FractionalDigits is always zero: no fractional tokens exist at the ledger
// level.
func (a *Adapter) FractionalDigits() int { return 0 }

// AccountIDFromName derives a stable account identity from a display name,
// the offline-lookup path. It converges on the same account entity as the
// stable-identity path when both resolve the same subject.
func AccountIDFromName(name string) uuid.UUID {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(name))
}

// HasAccount always reports true: accounts are created implicitly on first
// write and absence reads as a zero balance.
func (a *Adapter) HasAccount(accountID uuid.UUID) bool { return true }

// Balance returns the whole-token balance for the account.
func (a *Adapter) Balance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return a.ledger.GetBalance(ctx, accountID)
}

// BalanceByName is the name-keyed balance lookup.
func (a *Adapter) BalanceByName(ctx context.Context, name string) (int64, error) {
	return a.Balance(ctx, AccountIDFromName(name))
}

// Has reports whether the account can cover the given decimal amount, using
// the same ceiling the withdrawal path uses.
func (a *Adapter) Has(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (bool, error) {
	balance, err := a.ledger.GetBalance(ctx, accountID)
	if err != nil {
		return false, err
	}
	return balance >= amount.Ceil().IntPart(), nil
}

// Withdraw debits the account by the ceiling of the requested decimal amount.
// Insufficient funds is a reported outcome, not an error.
func (a *Adapter) Withdraw(ctx context.Context, accountID uuid.UUID, name string, amount decimal.Decimal) (Response, error) {
	actual := amount.Ceil().IntPart()

	ok, err := a.ledger.TryWithdraw(ctx, accountID, actual, "Withdrawal by "+name)
	if err != nil {
		return Response{Message: "Withdrawal error"}, err
	}

	balance, err := a.ledger.GetBalance(ctx, accountID)
	if err != nil {
		return Response{Message: "Withdrawal error"}, err
	}

	if !ok {
		return Response{Balance: balance, Message: "Insufficient funds"}, nil
	}
	return Response{Amount: actual, Balance: balance, Success: true, Message: "Withdrawal successful"}, nil
}

// WithdrawByName is the name-keyed withdrawal path.
func (a *Adapter) WithdrawByName(ctx context.Context, name string, amount decimal.Decimal) (Response, error) {
	return a.Withdraw(ctx, AccountIDFromName(name), name, amount)
}

// Deposit credits the account with floor(amount x multiplier). The multiplier
// is resolved from the account's tier; the base amount must not be negative.
func (a *Adapter) Deposit(ctx context.Context, accountID uuid.UUID, name string, amount decimal.Decimal) (Response, error) {
	if amount.IsNegative() {
		return Response{Message: "Deposit amount must not be negative"}, ledger.ErrInvalidAmount
	}

	multiplier := a.ledger.Multiplier(accountID)
	applied := amount.Mul(decimal.NewFromFloat(multiplier)).Floor().IntPart()

	balance, err := a.ledger.Adjust(ctx, accountID, applied, "Deposit by "+name)
	if err != nil {
		return Response{Message: "Deposit error"}, err
	}

	return Response{
		Amount:  applied,
		Balance: balance,
		Success: true,
		Message: fmt.Sprintf("Deposit successful with %gx multiplier", multiplier),
	}, nil
}

// DepositByName is the name-keyed deposit path.
func (a *Adapter) DepositByName(ctx context.Context, name string, amount decimal.Decimal) (Response, error) {
	return a.Deposit(ctx, AccountIDFromName(name), name, amount)
}

// FormatAmount renders a decimal amount as whole tokens with grouping
// separators.
func (a *Adapter) FormatAmount(amount decimal.Decimal) string {
	return a.formatter.Format(amount.Floor().IntPart())
}

// FormattedBalance renders the account balance for display, the
// placeholder-expansion path.
func (a *Adapter) FormattedBalance(ctx context.Context, accountID uuid.UUID) (string, error) {
	balance, err := a.ledger.GetBalance(ctx, accountID)
	if err != nil {
		return "", err
	}
	return a.formatter.Format(balance), nil
}
