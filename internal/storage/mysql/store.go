package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/models"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage"
)

// accountRow maps an account balance to the tokens table.
type accountRow struct {
	ID      string `gorm:"column:uuid;primaryKey;size:36"`
	Balance int64  `gorm:"column:balance;not null;default:0"`
}

func (accountRow) TableName() string { return "tokens" }

// transactionRow maps one audit record to the token_transactions table.
type transactionRow struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID     string    `gorm:"column:uuid;size:36;not null;index"`
	Delta         int64     `gorm:"column:amount;not null"`
	BalanceBefore int64     `gorm:"column:balance_before;not null"`
	BalanceAfter  int64     `gorm:"column:balance_after;not null"`
	Reason        string    `gorm:"column:reason;size:255"`
	CreatedAt     time.Time `gorm:"column:timestamp;autoCreateTime"`
}

func (transactionRow) TableName() string { return "token_transactions" }

// MySQLStore persists balances and the audit trail in MySQL via GORM. It
// implements both the AccountStore and TransactionLog interfaces.
type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Open connects to MySQL.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, storage.Failure("open mysql", err)
	}
	return db, nil
}

// Migrate creates or updates the tables.
func (s *MySQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&accountRow{}, &transactionRow{}); err != nil {
		return storage.Failure("auto migrate", err)
	}
	return nil
}

// Read returns the balance for the account, or zero if no row exists.
func (s *MySQLStore) Read(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where("uuid = ?", accountID.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storage.Failure("read balance", err)
	}
	return row.Balance, nil
}

// Write upserts the balance for the account.
func (s *MySQLStore) Write(ctx context.Context, accountID uuid.UUID, balance int64) error {
	row := accountRow{ID: accountID.String(), Balance: balance}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance"}),
	}).Create(&row).Error
	if err != nil {
		return storage.Failure("write balance", err)
	}
	return nil
}

// Append inserts the audit record and returns it with the assigned sequence
// number and timestamp.
func (s *MySQLStore) Append(ctx context.Context, rec models.TransactionRecord) (models.TransactionRecord, error) {
	row := transactionRow{
		AccountID:     rec.AccountID.String(),
		Delta:         rec.Delta,
		BalanceBefore: rec.BalanceBefore,
		BalanceAfter:  rec.BalanceAfter,
		Reason:        rec.Reason,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.TransactionRecord{}, storage.Failure("append transaction", err)
	}
	rec.Sequence = row.ID
	rec.Timestamp = row.CreatedAt
	return rec, nil
}

var (
	_ interfaces.AccountStore   = (*MySQLStore)(nil)
	_ interfaces.TransactionLog = (*MySQLStore)(nil)
)
