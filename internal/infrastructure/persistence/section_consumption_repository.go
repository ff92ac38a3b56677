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

// GormSectionConsumptionRepository implements SectionConsumptionRepository using GORM
type GormSectionConsumptionRepository struct {
	db *gorm.DB
}

// NewGormSectionConsumptionRepository creates a new GormSectionConsumptionRepository
func NewGormSectionConsumptionRepository(db *gorm.DB) *GormSectionConsumptionRepository {
	return &GormSectionConsumptionRepository{db: db}
}

// FindByID finds a consumption record by its ID
func (r *GormSectionConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.SectionConsumption, error) {
	var c stock.SectionConsumption
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindBySection finds consumption records for a section
func (r *GormSectionConsumptionRepository) FindBySection(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]stock.SectionConsumption, error) {
	var rows []stock.SectionConsumption
	query := applyConsumptionFilter(
		r.db.WithContext(ctx).Model(&stock.SectionConsumption{}).
			Where("section_id = ?", sectionID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByMaterial finds consumption records for a material
func (r *GormSectionConsumptionRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]stock.SectionConsumption, error) {
	var rows []stock.SectionConsumption
	query := applyConsumptionFilter(
		r.db.WithContext(ctx).Model(&stock.SectionConsumption{}).
			Where("raw_material_id = ?", materialID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByOrder finds consumption records tied to an order identifier
func (r *GormSectionConsumptionRepository) FindByOrder(ctx context.Context, orderID string) ([]stock.SectionConsumption, error) {
	var rows []stock.SectionConsumption
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("consumption_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByDateRange finds consumption records within a date range
func (r *GormSectionConsumptionRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]stock.SectionConsumption, error) {
	var rows []stock.SectionConsumption
	query := applyConsumptionFilter(
		r.db.WithContext(ctx).Model(&stock.SectionConsumption{}).
			Where("consumption_date >= ? AND consumption_date <= ?", start, end),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create creates a new consumption record
func (r *GormSectionConsumptionRepository) Create(ctx context.Context, c *stock.SectionConsumption) error {
	return r.db.WithContext(ctx).Create(c).Error
}

var consumptionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"consumption_date": true,
	"order_id":         true,
}

func applyConsumptionFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, consumptionSortFields, "consumption_date")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// Ensure GormSectionConsumptionRepository implements SectionConsumptionRepository
var _ stock.SectionConsumptionRepository = (*GormSectionConsumptionRepository)(nil)
