package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The movements table is append-only; this repository exposes no update or
// delete operations.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockMovement, error) {
	var movement stock.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByMaterial finds movements for a material, paginated
func (r *GormStockMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	query := applyMovementFilter(
		r.db.WithContext(ctx).Model(&stock.StockMovement{}).
			Where("raw_material_id = ?", materialID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllByMaterial finds every movement for a material in movement date order
func (r *GormStockMovementRepository) FindAllByMaterial(ctx context.Context, materialID uuid.UUID) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("raw_material_id = ?", materialID).
		Order("movement_date ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByEntry finds movements recorded against a stock entry
func (r *GormStockMovementRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("stock_entry_id = ?", entryID).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference finds movements carrying a reference identifier
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceID string) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDateRange finds movements within a date range
func (r *GormStockMovementRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	query := applyMovementFilter(
		r.db.WithContext(ctx).Model(&stock.StockMovement{}).
			Where("movement_date >= ? AND movement_date <= ?", start, end),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Create creates a new movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch creates multiple movements in one insert
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*stock.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// CountByMaterial counts movements for a material
func (r *GormStockMovementRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Where("raw_material_id = ?", materialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var stockMovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"movement_date": true,
	"type":          true,
	"reference_id":  true,
}

func applyMovementFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, stockMovementSortFields, "movement_date")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ stock.StockMovementRepository = (*GormStockMovementRepository)(nil)
