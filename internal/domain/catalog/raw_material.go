package catalog

import (
	"strings"

	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialUnit is the closed set of units a raw material can be purchased or
// stored in. Pack-style units (PACKS, BOXES) require a conversion rate to the
// material's base unit; all other units are their own base unit.
type MaterialUnit string

const (
	UnitPacks  MaterialUnit = "PACKS"
	UnitBoxes  MaterialUnit = "BOXES"
	UnitPieces MaterialUnit = "PIECES"
	UnitKG     MaterialUnit = "KG"
	UnitGrams  MaterialUnit = "GRAMS"
	UnitLiters MaterialUnit = "LITERS"
	UnitML     MaterialUnit = "ML"
)

// String returns the string representation
func (u MaterialUnit) String() string {
	return string(u)
}

// IsValid returns true if the unit is part of the closed set
func (u MaterialUnit) IsValid() bool {
	switch u {
	case UnitPacks, UnitBoxes, UnitPieces, UnitKG, UnitGrams, UnitLiters, UnitML:
		return true
	}
	return false
}

// IsPackBased returns true when quantities in this unit must be converted to a
// base unit before they enter the stock ledger.
func (u MaterialUnit) IsPackBased() bool {
	return u == UnitPacks || u == UnitBoxes
}

// ParseMaterialUnit normalizes and validates a unit string
func ParseMaterialUnit(s string) (MaterialUnit, error) {
	u := MaterialUnit(strings.TrimSpace(strings.ToUpper(s)))
	if !u.IsValid() {
		return "", shared.NewDomainError("INVALID_UNIT", "Unknown material unit: "+s)
	}
	return u, nil
}

// RawMaterial is reference data describing a purchasable ingredient. The stock
// ledger reads it to convert purchase quantities to base units and to price
// received goods; it never mutates it.
type RawMaterial struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(120);not null"`
	Unit          MaterialUnit    `gorm:"type:varchar(20);not null"`
	UnitsPerPack  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Base units per pack, meaningful only for PACKS/BOXES
	BaseUnit      MaterialUnit    `gorm:"type:varchar(20);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cost per purchase unit
	MinStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // In base units
	MaxStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // In base units
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a raw material, enforcing the pack-conversion
// invariant: pack-based units need a positive units-per-pack rate.
func NewRawMaterial(name string, unit MaterialUnit, unitsPerPack decimal.Decimal, baseUnit MaterialUnit, unitCost, minLevel, maxLevel decimal.Decimal) (*RawMaterial, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown purchase unit")
	}
	if unit.IsPackBased() {
		if unitsPerPack.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_UNITS_PER_PACK", "Pack-based materials require a positive units-per-pack value")
		}
		if !baseUnit.IsValid() || baseUnit.IsPackBased() {
			return nil, shared.NewDomainError("INVALID_BASE_UNIT", "Pack-based materials require a non-pack base unit")
		}
	} else {
		// Conversion is identity; the base unit is the purchase unit.
		baseUnit = unit
		unitsPerPack = decimal.Zero
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if minLevel.IsNegative() || maxLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK_LEVEL", "Stock thresholds cannot be negative")
	}
	if maxLevel.GreaterThan(decimal.Zero) && minLevel.GreaterThan(maxLevel) {
		return nil, shared.NewDomainError("INVALID_STOCK_LEVEL", "Minimum stock level cannot exceed maximum")
	}

	return &RawMaterial{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Unit:          unit,
		UnitsPerPack:  unitsPerPack,
		BaseUnit:      baseUnit,
		UnitCost:      unitCost,
		MinStockLevel: minLevel,
		MaxStockLevel: maxLevel,
		IsActive:      true,
	}, nil
}

// Deactivate soft-deletes the material
func (m *RawMaterial) Deactivate() {
	m.IsActive = false
	m.Touch()
}
