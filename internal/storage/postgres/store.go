package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/models"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage"
)

// PostgresStore persists balances and the audit trail in PostgreSQL. It
// implements both the AccountStore and TransactionLog interfaces.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, storage.Failure("open postgres", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storage.Failure("ping postgres", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	const accounts = `CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`

	const transactions = `CREATE TABLE IF NOT EXISTS transactions (
		sequence BIGSERIAL PRIMARY KEY,
		account_id UUID NOT NULL,
		delta BIGINT NOT NULL,
		balance_before BIGINT NOT NULL,
		balance_after BIGINT NOT NULL,
		reason VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	if _, err := p.db.ExecContext(ctx, accounts); err != nil {
		return storage.Failure("create accounts table", err)
	}
	if _, err := p.db.ExecContext(ctx, transactions); err != nil {
		return storage.Failure("create transactions table", err)
	}
	return nil
}

// Read returns the balance for the account, or zero if no row exists.
func (p *PostgresStore) Read(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const query = `SELECT balance FROM accounts WHERE id = $1`

	var balance int64
	err := p.db.QueryRowContext(ctx, query, accountID).Scan(&balance)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storage.Failure("read balance", err)
	}

	return balance, nil
}

// Write upserts the balance for the account.
func (p *PostgresStore) Write(ctx context.Context, accountID uuid.UUID, balance int64) error {
	const query = `INSERT INTO accounts (id, balance) VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance`

	if _, err := p.db.ExecContext(ctx, query, accountID, balance); err != nil {
		return storage.Failure("write balance", err)
	}
	return nil
}

// Append inserts the audit record and returns it with the server-assigned
// sequence number and timestamp.
func (p *PostgresStore) Append(ctx context.Context, rec models.TransactionRecord) (models.TransactionRecord, error) {
	const query = `INSERT INTO transactions (account_id, delta, balance_before, balance_after, reason)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING sequence, created_at`

	err := p.db.QueryRowContext(ctx, query,
		rec.AccountID,
		rec.Delta,
		rec.BalanceBefore,
		rec.BalanceAfter,
		rec.Reason,
	).Scan(&rec.Sequence, &rec.Timestamp)

	if err != nil {
		return models.TransactionRecord{}, storage.Failure("append transaction", err)
	}
	return rec, nil
}

var (
	_ interfaces.AccountStore   = (*PostgresStore)(nil)
	_ interfaces.TransactionLog = (*PostgresStore)(nil)
)
