package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SectionInventory is the allocated-quantity cache for one
// (section, material) pair, unique on that pair. Created lazily on first
// assignment, updated in place afterwards, deleted on explicit removal
// (which must also emit a reconciling movement).
type SectionInventory struct {
	shared.BaseAggregateRoot
	SectionID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_section_inventory_pair,priority:1"`
	RawMaterialID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_section_inventory_pair,priority:2"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Base units allocated to the section
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Forward compatibility, unused as hard reservation
	LastUpdated      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SectionInventory) TableName() string {
	return "section_inventories"
}

// NewSectionInventory creates the row for a first assignment
func NewSectionInventory(sectionID, materialID uuid.UUID, baseQty decimal.Decimal) (*SectionInventory, error) {
	if sectionID == uuid.Nil || materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAIR", "Section and material IDs cannot be empty")
	}
	if baseQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	return &SectionInventory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SectionID:         sectionID,
		RawMaterialID:     materialID,
		Quantity:          baseQty,
		ReservedQuantity:  decimal.Zero,
		LastUpdated:       time.Now(),
	}, nil
}

// Add increases the allocated quantity
func (s *SectionInventory) Add(baseQty decimal.Decimal) error {
	if baseQty.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	s.Quantity = s.Quantity.Add(baseQty)
	s.LastUpdated = time.Now()
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetQuantity rewrites the allocation to an absolute base quantity and
// returns the signed delta from the previous value.
func (s *SectionInventory) SetQuantity(baseQty decimal.Decimal) (decimal.Decimal, error) {
	if baseQty.IsNegative() {
		return decimal.Zero, shared.ErrInvalidQuantity
	}
	delta := baseQty.Sub(s.Quantity)
	s.Quantity = baseQty
	s.LastUpdated = time.Now()
	s.Touch()
	s.IncrementVersion()
	return delta, nil
}

// Debit reduces the allocation by a consumed base quantity, failing with
// INSUFFICIENT_SECTION_STOCK when the allocation cannot cover it.
func (s *SectionInventory) Debit(baseQty decimal.Decimal) error {
	if baseQty.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if s.Quantity.LessThan(baseQty) {
		return shared.NewDomainError(shared.ErrInsufficientSectionStock.Code,
			fmt.Sprintf("Requested %s exceeds the %s allocated to this section", baseQty.String(), s.Quantity.String()))
	}
	s.Quantity = s.Quantity.Sub(baseQty)
	s.LastUpdated = time.Now()
	s.Touch()
	s.IncrementVersion()
	return nil
}
