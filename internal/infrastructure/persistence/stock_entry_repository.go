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

// GormStockEntryRepository implements StockEntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// FindByID finds a stock entry by its ID
func (r *GormStockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockEntry, error) {
	var entry stock.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByMaterial finds entries for a material, paginated
func (r *GormStockEntryRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]stock.StockEntry, error) {
	var entries []stock.StockEntry
	query := applyEntryFilter(
		r.db.WithContext(ctx).Model(&stock.StockEntry{}).
			Where("raw_material_id = ?", materialID),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllByMaterial finds every entry for a material, oldest received first.
// Level replay and lot selection depend on seeing the complete set.
func (r *GormStockEntryRepository) FindAllByMaterial(ctx context.Context, materialID uuid.UUID) ([]stock.StockEntry, error) {
	var entries []stock.StockEntry
	if err := r.db.WithContext(ctx).
		Where("raw_material_id = ?", materialID).
		Order("received_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds all entries matching the filter
func (r *GormStockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockEntry, error) {
	var entries []stock.StockEntry
	query := applyEntryFilter(r.db.WithContext(ctx).Model(&stock.StockEntry{}), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindExpiringBefore finds entries whose expiry date falls before the cutoff
func (r *GormStockEntryRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time, filter shared.Filter) ([]stock.StockEntry, error) {
	var entries []stock.StockEntry
	query := applyEntryFilter(
		r.db.WithContext(ctx).Model(&stock.StockEntry{}).
			Where("expiry_date IS NOT NULL AND expiry_date < ?", cutoff),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create creates a new stock entry
func (r *GormStockEntryRepository) Create(ctx context.Context, entry *stock.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Delete removes an entry
func (r *GormStockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.StockEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByMaterial counts entries for a material
func (r *GormStockEntryRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockEntry{}).
		Where("raw_material_id = ?", materialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var stockEntrySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"received_date": true,
	"expiry_date":   true,
	"batch_number":  true,
	"supplier":      true,
}

func applyEntryFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, stockEntrySortFields, "received_date")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ stock.StockEntryRepository = (*GormStockEntryRepository)(nil)
