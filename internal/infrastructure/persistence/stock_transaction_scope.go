package persistence

import (
	"context"

	appstock "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback is bound to the same transaction,
// so a returned error rolls back all writes together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides transaction-scoped repositories
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// EntryRepo returns the stock entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) EntryRepo() stock.StockEntryRepository {
	return NewGormStockEntryRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// SectionInventoryRepo returns the section inventory repository scoped to the current transaction
func (r *gormTransactionalRepositories) SectionInventoryRepo() stock.SectionInventoryRepository {
	return NewGormSectionInventoryRepository(r.tx)
}

// ConsumptionRepo returns the consumption repository scoped to the current transaction
func (r *gormTransactionalRepositories) ConsumptionRepo() stock.SectionConsumptionRepository {
	return NewGormSectionConsumptionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
