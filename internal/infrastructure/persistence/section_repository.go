package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSectionRepository implements SectionRepository using GORM
type GormSectionRepository struct {
	db *gorm.DB
}

// NewGormSectionRepository creates a new GormSectionRepository
func NewGormSectionRepository(db *gorm.DB) *GormSectionRepository {
	return &GormSectionRepository{db: db}
}

// FindByID finds a section by its ID
func (r *GormSectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Section, error) {
	var section catalog.Section
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// FindActiveByID finds a section by ID, treating inactive rows as missing
func (r *GormSectionRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Section, error) {
	var section catalog.Section
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// FindAllActive lists all active sections ordered by name
func (r *GormSectionRepository) FindAllActive(ctx context.Context) ([]catalog.Section, error) {
	var sections []catalog.Section
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// Save creates or updates a section
func (r *GormSectionRepository) Save(ctx context.Context, section *catalog.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

// Ensure GormSectionRepository implements SectionRepository
var _ catalog.SectionRepository = (*GormSectionRepository)(nil)
