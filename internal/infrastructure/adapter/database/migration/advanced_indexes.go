package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// index is a composite index created outside the model tags
type index struct {
	name    string
	table   any
	columns string
}

// IndexManager creates the composite indexes the hot queries depend on
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

func compositeIndexes() []index {
	return []index{
		// cooldown lookup: newest task entry of a user for a task
		{name: "idx_transactions_user_task_created", table: &model.LedgerEntry{}, columns: "user_id, task_id, created_at"},
		// ledger history per user, newest first
		{name: "idx_transactions_user_created", table: &model.LedgerEntry{}, columns: "user_id, created_at"},
		// admin payout queue
		{name: "idx_payouts_status_requested", table: &model.Payout{}, columns: "status, requested_at"},
		{name: "idx_payouts_user_requested", table: &model.Payout{}, columns: "user_id, requested_at"},
		{name: "idx_contact_messages_status_created", table: &model.ContactMessage{}, columns: "status, created_at"},
	}
}

// CreateIndexes creates every composite index that does not exist yet
func (m *IndexManager) CreateIndexes(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	migrator := db.Migrator()

	for _, idx := range compositeIndexes() {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.table); err != nil {
			return err
		}
		sql := "CREATE INDEX " + idx.name + " ON " + stmt.Schema.Table + " (" + idx.columns + ")"
		if err := db.Exec(sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
		m.logger.Info("Index created", map[string]any{
			"index": idx.name,
		})
	}
	return nil
}

// ApplyPostgresTweaks adds postgres-only indexes and storage settings.
// Failures are logged and ignored; none of these are needed for correctness.
func (m *IndexManager) ApplyPostgresTweaks(ctx context.Context) {
	db := m.db.WithContext(ctx)
	if db.Dialector.Name() != "postgres" {
		return
	}

	statements := map[string]string{
		"pending payouts partial index": `CREATE INDEX IF NOT EXISTS idx_payouts_pending
			ON payouts (requested_at) WHERE status = 'pending'`,
		"ledger BRIN index": `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
			ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`,
		"users fillfactor": `ALTER TABLE users SET (fillfactor = 90)`,
	}
	for name, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			m.logger.Warn("Failed to apply postgres tweak", map[string]any{
				"tweak": name,
				"error": err.Error(),
			})
		}
	}
}
