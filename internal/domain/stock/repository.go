package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
)

// StockEntryRepository defines the interface for stock entry persistence
type StockEntryRepository interface {
	// FindByID finds a stock entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockEntry, error)

	// FindByMaterial finds entries for a material, paginated
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]StockEntry, error)

	// FindAllByMaterial finds every entry for a material, oldest received
	// first. Used by level replay and lot selection, which must see the
	// complete history.
	FindAllByMaterial(ctx context.Context, materialID uuid.UUID) ([]StockEntry, error)

	// FindAll finds all entries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockEntry, error)

	// FindExpiringBefore finds entries whose expiry date falls before the cutoff
	FindExpiringBefore(ctx context.Context, cutoff time.Time, filter shared.Filter) ([]StockEntry, error)

	// Create creates a new stock entry (append-only, no update allowed)
	Create(ctx context.Context, entry *StockEntry) error

	// Delete removes an entry. Callers must first verify no movements
	// reference it, or carry an explicit force flag.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByMaterial counts entries for a material
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}

// StockMovementRepository defines the interface for movement persistence.
// Movements are the append-only record of every stock change; rows are
// created once and never updated or deleted.
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByMaterial finds movements for a material, paginated
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindAllByMaterial finds every movement for a material, in movement
	// date order. Used by level replay, which must see the complete log.
	FindAllByMaterial(ctx context.Context, materialID uuid.UUID) ([]StockMovement, error)

	// FindByEntry finds movements recorded against a stock entry
	FindByEntry(ctx context.Context, entryID uuid.UUID) ([]StockMovement, error)

	// FindByReference finds movements carrying a reference identifier
	FindByReference(ctx context.Context, referenceID string) ([]StockMovement, error)

	// FindByDateRange finds movements within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockMovement, error)

	// Create creates a new movement
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch creates multiple movements
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// CountByMaterial counts movements for a material
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}

// SectionInventoryRepository defines the interface for section allocation persistence
type SectionInventoryRepository interface {
	// FindByID finds a section inventory row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SectionInventory, error)

	// FindBySectionAndMaterial finds the allocation for a section-material pair
	FindBySectionAndMaterial(ctx context.Context, sectionID, materialID uuid.UUID) (*SectionInventory, error)

	// FindBySectionAndMaterialForUpdate loads the pair under a row lock so
	// concurrent debits serialize. Must run inside a transaction.
	FindBySectionAndMaterialForUpdate(ctx context.Context, sectionID, materialID uuid.UUID) (*SectionInventory, error)

	// FindBySection finds all allocations held by a section
	FindBySection(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]SectionInventory, error)

	// FindByMaterial finds all sections holding a material
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]SectionInventory, error)

	// Save creates or updates an allocation row
	Save(ctx context.Context, inv *SectionInventory) error

	// Delete removes an allocation row
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionConsumptionRepository defines the interface for consumption audit persistence
type SectionConsumptionRepository interface {
	// FindByID finds a consumption record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SectionConsumption, error)

	// FindBySection finds consumption records for a section
	FindBySection(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]SectionConsumption, error)

	// FindByMaterial finds consumption records for a material
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]SectionConsumption, error)

	// FindByOrder finds consumption records tied to an order identifier
	FindByOrder(ctx context.Context, orderID string) ([]SectionConsumption, error)

	// FindByDateRange finds consumption records within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]SectionConsumption, error)

	// Create creates a new consumption record (append-only)
	Create(ctx context.Context, c *SectionConsumption) error
}

// MovementFilter extends shared.Filter with movement-specific filters
type MovementFilter struct {
	shared.Filter
	MaterialID  *uuid.UUID
	SectionID   *uuid.UUID
	Type        *MovementType
	ReferenceID string
	StartDate   *time.Time
	EndDate     *time.Time
}
