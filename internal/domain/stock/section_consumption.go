package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SectionConsumption is one append-only usage record against a section
// allocation. It is never updated or deleted after creation.
type SectionConsumption struct {
	shared.BaseEntity
	SectionID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RawMaterialID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Purchase units as entered
	BaseQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Converted base units debited
	OrderID         string          `gorm:"type:varchar(64);index"`
	ConsumedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	ConsumptionDate time.Time       `gorm:"not null;index"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SectionConsumption) TableName() string {
	return "section_consumptions"
}

// NewSectionConsumption records a usage against a section allocation
func NewSectionConsumption(sectionID, materialID uuid.UUID, qty, baseQty decimal.Decimal, orderID string, consumedBy uuid.UUID, notes string) (*SectionConsumption, error) {
	if sectionID == uuid.Nil || materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAIR", "Section and material IDs cannot be empty")
	}
	if qty.LessThanOrEqual(decimal.Zero) || baseQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if consumedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Consuming user cannot be empty")
	}
	return &SectionConsumption{
		BaseEntity:      shared.NewBaseEntity(),
		SectionID:       sectionID,
		RawMaterialID:   materialID,
		Quantity:        qty,
		BaseQuantity:    baseQty,
		OrderID:         strings.TrimSpace(orderID),
		ConsumedBy:      consumedBy,
		ConsumptionDate: time.Now(),
		Notes:           notes,
	}, nil
}
