package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/models"
)

// MemoryStore is an in-memory implementation of both the AccountStore and
// TransactionLog interfaces. It keeps balances in a map and audit records in
// an append-only slice, and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	records  []models.TransactionRecord
	nextSeq  int64
}

// NewMemoryStore creates and returns a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[uuid.UUID]int64),
	}
}

// Read returns the current balance for the account. Accounts that have never
// been written read as zero.
func (m *MemoryStore) Read(ctx context.Context, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[accountID], nil
}

// Write upserts the balance for the account.
func (m *MemoryStore) Write(ctx context.Context, accountID uuid.UUID, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[accountID] = balance
	return nil
}

// Append stores the record, assigning its sequence number and timestamp, and
// returns the completed record.
func (m *MemoryStore) Append(ctx context.Context, rec models.TransactionRecord) (models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	rec.Sequence = m.nextSeq
	rec.Timestamp = time.Now().UTC()
	m.records = append(m.records, rec)
	return rec, nil
}

// Records returns a copy of all audit records stored in memory.
// Useful for tests, debugging, and printing ledger state.
func (m *MemoryStore) Records() []models.TransactionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.TransactionRecord, len(m.records))
	copy(copied, m.records)
	return copied
}

// Compile-time checks: MemoryStore serves both storage contracts.
var (
	_ interfaces.AccountStore   = (*MemoryStore)(nil)
	_ interfaces.TransactionLog = (*MemoryStore)(nil)
)
