package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRawMaterialRepository implements RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindActiveByID finds a material by ID, treating soft-deleted rows as missing
func (r *GormRawMaterialRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAllActive lists all active materials ordered by name
func (r *GormRawMaterialRepository) FindAllActive(ctx context.Context) ([]catalog.RawMaterial, error) {
	var materials []catalog.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormRawMaterialRepository) Save(ctx context.Context, material *catalog.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Ensure GormRawMaterialRepository implements RawMaterialRepository
var _ catalog.RawMaterialRepository = (*GormRawMaterialRepository)(nil)
