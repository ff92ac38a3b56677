package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockEntry is a receipt of physical goods. Quantity is always stored in
// base units; TotalCost is recorded at purchase granularity (purchase-unit
// quantity times purchase-unit cost), because that is the price actually
// paid. Entries are immutable once movements reference them, except for
// corrective edits; they are never hard-deleted while referenced.
type StockEntry struct {
	shared.BaseEntity
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_entry_material"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Base units
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost per purchase unit
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Supplier      string          `gorm:"type:varchar(120)"`
	BatchNumber   string          `gorm:"type:varchar(60);index"`
	ExpiryDate    *time.Time
	ReceivedDate  time.Time       `gorm:"not null;index:idx_stock_entry_received"`
	ReceivedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	Notes         string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry creates an entry from an already-converted base quantity.
func NewStockEntry(materialID uuid.UUID, baseQty, purchaseUnitCost, totalCost decimal.Decimal, supplier, batchNumber string, expiryDate *time.Time, receivedDate time.Time, receivedBy uuid.UUID, notes string) (*StockEntry, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if baseQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if purchaseUnitCost.IsNegative() || totalCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Costs cannot be negative")
	}
	if receivedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Received-by user ID cannot be empty")
	}
	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}

	return &StockEntry{
		BaseEntity:    shared.NewBaseEntity(),
		RawMaterialID: materialID,
		Quantity:      baseQty,
		UnitCost:      purchaseUnitCost,
		TotalCost:     totalCost,
		Supplier:      strings.TrimSpace(supplier),
		BatchNumber:   strings.TrimSpace(batchNumber),
		ExpiryDate:    expiryDate,
		ReceivedDate:  receivedDate,
		ReceivedBy:    receivedBy,
		Notes:         notes,
	}, nil
}

// IsExpired returns true if the entry has an expiry date in the past
func (e *StockEntry) IsExpired(now time.Time) bool {
	return e.ExpiryDate != nil && e.ExpiryDate.Before(now)
}
