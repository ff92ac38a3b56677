package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages the raw-material and section reference data the
// ledger reads. Minimal by intent: materials and sections are owned by the
// back office, the ledger only needs them resolvable and deactivatable.
type CatalogService struct {
	materialRepo catalog.RawMaterialRepository
	sectionRepo  catalog.SectionRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(materialRepo catalog.RawMaterialRepository, sectionRepo catalog.SectionRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{materialRepo: materialRepo, sectionRepo: sectionRepo, logger: logger}
}

// CreateMaterialRequest describes a new purchasable material
type CreateMaterialRequest struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Unit          string          `json:"unit" binding:"required,material_unit"`
	UnitsPerPack  decimal.Decimal `json:"units_per_pack" binding:"omitempty,gte=0"`
	BaseUnit      string          `json:"base_unit" binding:"omitempty,material_unit"`
	UnitCost      decimal.Decimal `json:"unit_cost" binding:"omitempty,gte=0"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" binding:"omitempty,gte=0"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level" binding:"omitempty,gte=0"`
}

// CreateMaterial registers a material, enforcing the pack-conversion invariant
func (s *CatalogService) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*catalog.RawMaterial, error) {
	unit, err := catalog.ParseMaterialUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	baseUnit := unit
	if req.BaseUnit != "" {
		baseUnit, err = catalog.ParseMaterialUnit(req.BaseUnit)
		if err != nil {
			return nil, err
		}
	}

	material, err := catalog.NewRawMaterial(req.Name, unit, req.UnitsPerPack, baseUnit,
		req.UnitCost, req.MinStockLevel, req.MaxStockLevel)
	if err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("raw material created",
		zap.String("material_id", material.ID.String()),
		zap.String("name", material.Name),
		zap.String("unit", material.Unit.String()))
	return material, nil
}

// GetMaterial resolves a material by id
func (s *CatalogService) GetMaterial(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	return s.materialRepo.FindByID(ctx, id)
}

// ListMaterials lists the active materials
func (s *CatalogService) ListMaterials(ctx context.Context) ([]catalog.RawMaterial, error) {
	return s.materialRepo.FindAllActive(ctx)
}

// DeactivateMaterial soft-deletes a material; its ledger history stays intact
func (s *CatalogService) DeactivateMaterial(ctx context.Context, id uuid.UUID) error {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	material.Deactivate()
	return s.materialRepo.Save(ctx, material)
}

// CreateSection registers an operational section
func (s *CatalogService) CreateSection(ctx context.Context, name string) (*catalog.Section, error) {
	section, err := catalog.NewSection(name)
	if err != nil {
		return nil, err
	}
	if err := s.sectionRepo.Save(ctx, section); err != nil {
		return nil, err
	}
	s.logger.Info("section created",
		zap.String("section_id", section.ID.String()),
		zap.String("name", section.Name))
	return section, nil
}

// ListSections lists the active sections
func (s *CatalogService) ListSections(ctx context.Context) ([]catalog.Section, error) {
	return s.sectionRepo.FindAllActive(ctx)
}

// DeactivateSection soft-deletes a section
func (s *CatalogService) DeactivateSection(ctx context.Context, id uuid.UUID) error {
	section, err := s.sectionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	section.Deactivate()
	return s.sectionRepo.Save(ctx, section)
}
