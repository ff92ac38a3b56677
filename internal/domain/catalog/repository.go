package catalog

import (
	"context"

	"github.com/google/uuid"
)

// RawMaterialRepository defines persistence for raw material reference data
type RawMaterialRepository interface {
	// FindByID finds a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)

	// FindActiveByID finds a material by ID, failing with NotFound when the
	// material is missing or soft-deleted
	FindActiveByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)

	// FindAllActive lists all active materials
	FindAllActive(ctx context.Context) ([]RawMaterial, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *RawMaterial) error
}

// SectionRepository defines persistence for section reference data
type SectionRepository interface {
	// FindByID finds a section by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Section, error)

	// FindActiveByID finds a section by ID, failing with NotFound when the
	// section is missing or inactive
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Section, error)

	// FindAllActive lists all active sections
	FindAllActive(ctx context.Context) ([]Section, error)

	// Save creates or updates a section
	Save(ctx context.Context, section *Section) error
}
