package stock

import (
	"context"

	"github.com/resto/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within
// a transaction. All repositories returned share the same underlying database
// transaction, so an availability check and the writes it guards see one
// consistent snapshot.
type TransactionalRepositories interface {
	// EntryRepo returns the stock entry repository scoped to the current transaction
	EntryRepo() stock.StockEntryRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.StockMovementRepository
	// SectionInventoryRepo returns the section allocation repository scoped to the current transaction
	SectionInventoryRepo() stock.SectionInventoryRepository
	// ConsumptionRepo returns the consumption audit repository scoped to the current transaction
	ConsumptionRepo() stock.SectionConsumptionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests and for callers that provide their own
// transaction boundary.
type NoOpTransactionScope struct {
	entryRepo       stock.StockEntryRepository
	movementRepo    stock.StockMovementRepository
	sectionInvRepo  stock.SectionInventoryRepository
	consumptionRepo stock.SectionConsumptionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	entryRepo stock.StockEntryRepository,
	movementRepo stock.StockMovementRepository,
	sectionInvRepo stock.SectionInventoryRepository,
	consumptionRepo stock.SectionConsumptionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:       entryRepo,
		movementRepo:    movementRepo,
		sectionInvRepo:  sectionInvRepo,
		consumptionRepo: consumptionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EntryRepo returns the stock entry repository.
func (s *NoOpTransactionScope) EntryRepo() stock.StockEntryRepository {
	return s.entryRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() stock.StockMovementRepository {
	return s.movementRepo
}

// SectionInventoryRepo returns the section allocation repository.
func (s *NoOpTransactionScope) SectionInventoryRepo() stock.SectionInventoryRepository {
	return s.sectionInvRepo
}

// ConsumptionRepo returns the consumption audit repository.
func (s *NoOpTransactionScope) ConsumptionRepo() stock.SectionConsumptionRepository {
	return s.consumptionRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
