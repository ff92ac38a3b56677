package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PackInfo describes the purchase-unit to base-unit conversion for a
// pack-based material. It is nil for materials whose conversion is identity.
type PackInfo struct {
	UnitsPerPack decimal.Decimal
	PackUnit     MaterialUnit
	BaseUnit     MaterialUnit
}

// PackInfo returns the conversion description for the material, or nil when
// the purchase unit is not PACKS/BOXES.
func (m *RawMaterial) PackInfo() *PackInfo {
	if !m.Unit.IsPackBased() {
		return nil
	}
	return &PackInfo{
		UnitsPerPack: m.UnitsPerPack,
		PackUnit:     m.Unit,
		BaseUnit:     m.BaseUnit,
	}
}

// ToBase converts a purchase-unit quantity to base units. Full decimal
// precision is preserved; nothing is rounded before the value reaches the
// ledger.
func (m *RawMaterial) ToBase(qty decimal.Decimal) decimal.Decimal {
	if info := m.PackInfo(); info != nil {
		return qty.Mul(info.UnitsPerPack)
	}
	return qty
}

// ToPack converts a base-unit quantity back to purchase units without
// rounding. Use DisplayPack for display-facing values.
func (m *RawMaterial) ToPack(baseQty decimal.Decimal) decimal.Decimal {
	info := m.PackInfo()
	if info == nil {
		return baseQty
	}
	return baseQty.Div(info.UnitsPerPack)
}

// DisplayPack converts a base-unit quantity to purchase units rounded to one
// decimal place. Rounding happens only here, at the display boundary.
func (m *RawMaterial) DisplayPack(baseQty decimal.Decimal) decimal.Decimal {
	return m.ToPack(baseQty).Round(1)
}

// BaseUnitCost returns the cost of one base unit. For non-pack materials this
// is the purchase unit cost unchanged.
func (m *RawMaterial) BaseUnitCost() decimal.Decimal {
	info := m.PackInfo()
	if info == nil || info.UnitsPerPack.IsZero() {
		return m.UnitCost
	}
	return m.UnitCost.Div(info.UnitsPerPack)
}

// DescribeQuantity renders a base-unit quantity with both unit
// representations for movement reason notes, e.g. "2 PACKS (48 PIECES)".
func (m *RawMaterial) DescribeQuantity(baseQty decimal.Decimal) string {
	info := m.PackInfo()
	if info == nil {
		return fmt.Sprintf("%s %s", baseQty.String(), m.BaseUnit)
	}
	return fmt.Sprintf("%s %s (%s %s)", m.DisplayPack(baseQty).String(), info.PackUnit, baseQty.String(), info.BaseUnit)
}
