package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/token-ledger-system/internal/async"
	"github.com/sheikh-saqib/token-ledger-system/internal/config"
	"github.com/sheikh-saqib/token-ledger-system/internal/economy"
	"github.com/sheikh-saqib/token-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/token-ledger-system/internal/format"
	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/token-ledger-system/internal/policy"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage/mysql"
	"github.com/sheikh-saqib/token-ledger-system/internal/storage/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	accounts, txlog, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage backend", zap.Error(err), zap.String("backend", cfg.Backend))
	}
	defer closeStore()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	formatter, err := format.NewFormatter(cfg.Locale)
	if err != nil {
		logger.Fatal("invalid locale", zap.Error(err), zap.String("locale", cfg.Locale))
	}

	// The capability resolver is an external collaborator in real
	// deployments; with no permission service attached every account sits on
	// the default 1.0 multiplier.
	pol := policy.NewMultiplierPolicy(policy.NewStaticResolver(), nil)

	ledgerService := ledger.NewLedger(accounts, txlog, pol, publisher, logger)
	adapter := economy.NewAdapter(ledgerService, formatter, cfg.CurrencyName)

	pool := async.NewPool(cfg.Workers, cfg.QueueSize)
	defer pool.Shutdown()
	asyncLedger := ledger.NewAsyncLedger(ledgerService, pool)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/accounts/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		accountID, ok := accountIDFromQuery(w, r)
		if !ok {
			return
		}

		balance, err := ledgerService.GetBalance(r.Context(), accountID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, struct {
			AccountID string `json:"account_id"`
			Balance   int64  `json:"balance"`
			Formatted string `json:"formatted"`
		}{accountID.String(), balance, formatter.Format(balance)})
	})

	http.HandleFunc("/accounts/set", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			AccountID string `json:"account_id"`
			Amount    int64  `json:"amount"`
			Reason    string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		if err := ledgerService.SetBalance(r.Context(), accountID, req.Amount, req.Reason); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	http.HandleFunc("/accounts/adjust", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			AccountID string `json:"account_id"`
			Delta     int64  `json:"delta"`
			Reason    string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		balance, err := ledgerService.Adjust(r.Context(), accountID, req.Delta, req.Reason)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, struct {
			Balance int64 `json:"balance"`
		}{balance})
	})

	http.HandleFunc("/accounts/withdraw", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			AccountID string `json:"account_id"`
			Amount    int64  `json:"amount"`
			Reason    string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		ok, err := ledgerService.TryWithdraw(r.Context(), accountID, req.Amount, req.Reason)
		if errors.Is(err, ledger.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		balance, err := ledgerService.GetBalance(r.Context(), accountID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, struct {
			Success bool  `json:"success"`
			Balance int64 `json:"balance"`
		}{ok, balance})
	})

	// Manual reward path, offloaded to the worker pool.
	http.HandleFunc("/accounts/reward", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Name   string `json:"name"`
			Amount int64  `json:"amount"`
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is a mandatory field", http.StatusBadRequest)
			return
		}
		reason := req.Reason
		if reason == "" {
			reason = "Manual reward"
		}

		accountID := economy.AccountIDFromName(req.Name)
		future := asyncLedger.Reward(r.Context(), accountID, req.Amount, reason)
		balance, err := future.Wait(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, struct {
			AccountID string `json:"account_id"`
			Balance   int64  `json:"balance"`
			Formatted string `json:"formatted"`
		}{accountID.String(), balance, formatter.Format(balance)})
	})

	http.HandleFunc("/economy/deposit", func(w http.ResponseWriter, r *http.Request) {
		economyHandler(w, r, adapter.DepositByName)
	})

	http.HandleFunc("/economy/withdraw", func(w http.ResponseWriter, r *http.Request) {
		economyHandler(w, r, adapter.WithdrawByName)
	})

	logger.Info("starting server", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.Backend))
	if err := http.ListenAndServe(cfg.HTTPAddr, nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildStore selects the storage backend. Every backend serves both the
// account store and the transaction log.
func buildStore(cfg *config.Config) (interfaces.AccountStore, interfaces.TransactionLog, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		store := postgres.NewPostgresStore(db)
		if err := store.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return store, store, func() { db.Close() }, nil

	case config.BackendMySQL:
		db, err := mysql.Open(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		store := mysql.NewMySQLStore(db)
		if err := store.Migrate(); err != nil {
			return nil, nil, nil, err
		}
		return store, store, func() {}, nil

	default:
		store := memory.NewMemoryStore()
		return store, store, func() {}, nil
	}
}

func accountIDFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if name := r.URL.Query().Get("name"); name != "" {
		return economy.AccountIDFromName(name), true
	}

	raw := r.URL.Query().Get("account_id")
	if raw == "" {
		http.Error(w, "account_id or name is a mandatory field", http.StatusBadRequest)
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid account_id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return accountID, true
}

func economyHandler(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, name string, amount decimal.Decimal) (economy.Response, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is a mandatory field", http.StatusBadRequest)
		return
	}

	resp, err := op(r.Context(), req.Name, req.Amount)
	if errors.Is(err, ledger.ErrInvalidAmount) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		Amount  int64  `json:"amount"`
		Balance int64  `json:"balance"`
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{resp.Amount, resp.Balance, resp.Success, resp.Message})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
