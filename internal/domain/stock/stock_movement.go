package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType is the closed set of ledger movement types
type MovementType string

const (
	// MovementTypeIn records goods entering the ledger (paired with a StockEntry)
	MovementTypeIn MovementType = "IN"
	// MovementTypeOut records consumption, either entry-level or from a section
	MovementTypeOut MovementType = "OUT"
	// MovementTypeTransfer records stock moving between the central store and a section
	MovementTypeTransfer MovementType = "TRANSFER"
	// MovementTypeExpired records stock written off past its expiry date
	MovementTypeExpired MovementType = "EXPIRED"
	// MovementTypeDamaged records stock written off as damaged
	MovementTypeDamaged MovementType = "DAMAGED"
)

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is part of the closed set
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransfer, MovementTypeExpired, MovementTypeDamaged:
		return true
	}
	return false
}

// IsWriteOff returns true for waste movements (expired or damaged stock)
func (t MovementType) IsWriteOff() bool {
	return t == MovementTypeExpired || t == MovementTypeDamaged
}

// StockMovement is an immutable, append-only record of a quantity transfer.
// Quantity is always a positive magnitude in base units; direction is encoded
// by Type together with the FromSectionID/ToSectionID pair, never by sign.
// Corrections are new compensating movements, never edits.
type StockMovement struct {
	shared.BaseEntity
	StockEntryID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_entry"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_material"`
	Type          MovementType    `gorm:"type:varchar(20);not null;index:idx_stock_movement_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Base units, positive magnitude
	FromSectionID *uuid.UUID      `gorm:"type:uuid;index"`
	ToSectionID   *uuid.UUID      `gorm:"type:uuid;index"`
	Reason        string          `gorm:"type:varchar(255)"` // Carries the human-readable conversion note
	PerformedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	ReferenceID   string          `gorm:"type:varchar(50);index"` // Sequencer-issued, may be empty on sequencer outage
	MovementDate  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement record, validating the type, the
// positive magnitude and the TRANSFER section requirement.
func NewStockMovement(entryID, materialID uuid.UUID, movType MovementType, quantity decimal.Decimal, fromSectionID, toSectionID *uuid.UUID, reason string, performedBy uuid.UUID, referenceID string) (*StockMovement, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Stock entry ID cannot be empty")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if !movType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+movType.String())
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if movType == MovementTypeTransfer && fromSectionID == nil && toSectionID == nil {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Transfer movements require a source or destination section")
	}
	if performedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Performed-by user ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		StockEntryID:  entryID,
		RawMaterialID: materialID,
		Type:          movType,
		Quantity:      quantity,
		FromSectionID: fromSectionID,
		ToSectionID:   toSectionID,
		Reason:        reason,
		PerformedBy:   performedBy,
		ReferenceID:   referenceID,
		MovementDate:  time.Now(),
	}, nil
}

// AvailabilityDelta returns the movement's signed effect on the material's
// unassigned (centrally available) stock, in base units.
//
// The rules keep the derived level reconcilable against section allocations:
//   - IN contributes zero: the paired StockEntry already carries the received
//     quantity, and counting both would double-credit.
//   - TRANSFER into a section debits; TRANSFER back out of a section credits;
//     a section-to-section transfer nets to zero.
//   - OUT, EXPIRED and DAMAGED debit only when they do not come from a
//     section: section-scoped consumption debits an allocation that was
//     already debited from availability when it was assigned.
func (m *StockMovement) AvailabilityDelta() decimal.Decimal {
	switch m.Type {
	case MovementTypeIn:
		return decimal.Zero
	case MovementTypeTransfer:
		switch {
		case m.ToSectionID != nil && m.FromSectionID == nil:
			return m.Quantity.Neg()
		case m.FromSectionID != nil && m.ToSectionID == nil:
			return m.Quantity
		default:
			return decimal.Zero
		}
	case MovementTypeOut, MovementTypeExpired, MovementTypeDamaged:
		if m.FromSectionID != nil {
			return decimal.Zero
		}
		return m.Quantity.Neg()
	}
	return decimal.Zero
}
