package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSectionInventoryRepository implements SectionInventoryRepository using GORM
type GormSectionInventoryRepository struct {
	db *gorm.DB
}

// NewGormSectionInventoryRepository creates a new GormSectionInventoryRepository
func NewGormSectionInventoryRepository(db *gorm.DB) *GormSectionInventoryRepository {
	return &GormSectionInventoryRepository{db: db}
}

// FindByID finds a section inventory row by its ID
func (r *GormSectionInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.SectionInventory, error) {
	var inv stock.SectionInventory
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindBySectionAndMaterial finds the allocation for a section-material pair
func (r *GormSectionInventoryRepository) FindBySectionAndMaterial(ctx context.Context, sectionID, materialID uuid.UUID) (*stock.SectionInventory, error) {
	var inv stock.SectionInventory
	if err := r.db.WithContext(ctx).
		Where("section_id = ? AND raw_material_id = ?", sectionID, materialID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindBySectionAndMaterialForUpdate loads the pair under SELECT ... FOR UPDATE
// so concurrent debits of the same allocation serialize. Callers must run this
// inside a transaction or the lock is released immediately.
func (r *GormSectionInventoryRepository) FindBySectionAndMaterialForUpdate(ctx context.Context, sectionID, materialID uuid.UUID) (*stock.SectionInventory, error) {
	var inv stock.SectionInventory
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("section_id = ? AND raw_material_id = ?", sectionID, materialID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindBySection finds all allocations held by a section
func (r *GormSectionInventoryRepository) FindBySection(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]stock.SectionInventory, error) {
	var rows []stock.SectionInventory
	query := applySectionInventoryFilter(
		r.db.WithContext(ctx).Model(&stock.SectionInventory{}).
			Where("section_id = ?", sectionID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByMaterial finds all sections holding a material
func (r *GormSectionInventoryRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]stock.SectionInventory, error) {
	var rows []stock.SectionInventory
	query := applySectionInventoryFilter(
		r.db.WithContext(ctx).Model(&stock.SectionInventory{}).
			Where("raw_material_id = ?", materialID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates an allocation row
func (r *GormSectionInventoryRepository) Save(ctx context.Context, inv *stock.SectionInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// Delete removes an allocation row
func (r *GormSectionInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.SectionInventory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var sectionInventorySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"last_updated": true,
	"quantity":     true,
}

func applySectionInventoryFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, sectionInventorySortFields, "last_updated")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// Ensure GormSectionInventoryRepository implements SectionInventoryRepository
var _ stock.SectionInventoryRepository = (*GormSectionInventoryRepository)(nil)
