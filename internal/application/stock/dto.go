package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// Result is the structured outcome every write operation returns. Expected
// business conditions never surface as errors: callers always get a
// negative-success result with a message they can show directly. The error
// channel is reserved for infrastructure failures.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Ok builds a positive result carrying data
func Ok[T any](data *T) *Result[T] {
	return &Result[T]{Success: true, Data: data}
}

// OkMessage builds a positive result carrying only a message
func OkMessage[T any](message string) *Result[T] {
	return &Result[T]{Success: true, Message: message}
}

// Fail builds a negative result from a business error
func Fail[T any](err error) *Result[T] {
	return &Result[T]{Success: false, Message: err.Error()}
}

// failOrError maps a repository or domain error to either a negative result
// (domain errors) or a propagated infrastructure error.
func failOrError[T any](err error) (*Result[T], error) {
	if _, ok := shared.AsDomain(err); ok {
		return Fail[T](err), nil
	}
	return nil, err
}

// ReceiveStockRequest is a goods receipt in purchase units
type ReceiveStockRequest struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"` // Purchase units
	UnitCost      decimal.Decimal `json:"unit_cost"`                   // Per purchase unit; material default when zero
	Supplier      string          `json:"supplier" binding:"max=120"`
	BatchNumber   string          `json:"batch_number" binding:"max=60"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	ReceivedDate  *time.Time      `json:"received_date"`
	ReceivedBy    uuid.UUID       `json:"received_by"`
	Notes         string          `json:"notes" binding:"max=255"`
}

// MoveStockRequest records a raw ledger movement against an entry
type MoveStockRequest struct {
	StockEntryID  uuid.UUID       `json:"stock_entry_id" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=IN OUT TRANSFER EXPIRED DAMAGED"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"` // Base units
	FromSectionID *uuid.UUID      `json:"from_section_id"`
	ToSectionID   *uuid.UUID      `json:"to_section_id"`
	Reason        string          `json:"reason" binding:"max=255"`
	PerformedBy   uuid.UUID       `json:"performed_by"`
	ReferenceID   string          `json:"reference_id" binding:"max=50"`
}

// AssignStockRequest allocates stock from the central store to a section
type AssignStockRequest struct {
	SectionID     uuid.UUID       `json:"section_id" binding:"required"`
	RawMaterialID uuid.UUID       `json:"raw_material_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"` // Purchase units
	AssignedBy    uuid.UUID       `json:"assigned_by"`
	Notes         string          `json:"notes" binding:"max=255"`
}

// UpdateAssignmentRequest rewrites a section allocation to an absolute target
type UpdateAssignmentRequest struct {
	Quantity  decimal.Decimal `json:"quantity"` // Purchase units, absolute target, zero allowed
	UpdatedBy uuid.UUID       `json:"updated_by"`
	Notes     string          `json:"notes" binding:"max=255"`
}

// ConsumeStockRequest records usage against a section allocation
type ConsumeStockRequest struct {
	SectionID     uuid.UUID       `json:"section_id" binding:"required"`
	RawMaterialID uuid.UUID       `json:"raw_material_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"` // Base units
	ConsumedBy    uuid.UUID       `json:"consumed_by"`
	Reason        string          `json:"reason" binding:"max=255"`
	OrderID       string          `json:"order_id" binding:"max=64"`
	Notes         string          `json:"notes" binding:"max=255"`
}

// StockEntryResponse represents a stock entry in API responses
type StockEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	Quantity      decimal.Decimal `json:"quantity"` // Base units
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Supplier      string          `json:"supplier,omitempty"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	ReceivedDate  time.Time       `json:"received_date"`
	ReceivedBy    uuid.UUID       `json:"received_by"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockMovementResponse represents a movement in API responses
type StockMovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockEntryID  uuid.UUID       `json:"stock_entry_id"`
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"` // Base units
	FromSectionID *uuid.UUID      `json:"from_section_id,omitempty"`
	ToSectionID   *uuid.UUID      `json:"to_section_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	PerformedBy   uuid.UUID       `json:"performed_by"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
}

// StockLevelResponse is a derived availability snapshot. Pack-display fields
// are present only for pack-based materials and are rounded to one decimal;
// the base-unit numbers are the source of truth.
type StockLevelResponse struct {
	RawMaterialID    uuid.UUID        `json:"raw_material_id"`
	MaterialName     string           `json:"material_name"`
	BaseUnit         string           `json:"base_unit"`
	TotalReceived    decimal.Decimal  `json:"total_received"`
	TotalUsed        decimal.Decimal  `json:"total_used"`
	Available        decimal.Decimal  `json:"available"`
	IsLowStock       bool             `json:"is_low_stock"`
	MinStockLevel    decimal.Decimal  `json:"min_stock_level"`
	PackUnit         string           `json:"pack_unit,omitempty"`
	AvailablePacks   *decimal.Decimal `json:"available_packs,omitempty"`
	UnitsPerPack     *decimal.Decimal `json:"units_per_pack,omitempty"`
	AvailableDisplay string           `json:"available_display"`
}

// SectionInventoryResponse represents a section allocation, annotated with
// pack-display fields when the material is pack-based
type SectionInventoryResponse struct {
	ID               uuid.UUID        `json:"id"`
	SectionID        uuid.UUID        `json:"section_id"`
	RawMaterialID    uuid.UUID        `json:"raw_material_id"`
	MaterialName     string           `json:"material_name"`
	BaseUnit         string           `json:"base_unit"`
	Quantity         decimal.Decimal  `json:"quantity"` // Base units
	PackUnit         string           `json:"pack_unit,omitempty"`
	QuantityPacks    *decimal.Decimal `json:"quantity_packs,omitempty"`
	QuantityDisplay  string           `json:"quantity_display"`
	LastUpdated      time.Time        `json:"last_updated"`
	ReservedQuantity decimal.Decimal  `json:"reserved_quantity"`
}

// ConsumptionResponse represents a consumption audit row
type ConsumptionResponse struct {
	ID              uuid.UUID       `json:"id"`
	SectionID       uuid.UUID       `json:"section_id"`
	RawMaterialID   uuid.UUID       `json:"raw_material_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	BaseQuantity    decimal.Decimal `json:"base_quantity"`
	OrderID         string          `json:"order_id,omitempty"`
	ConsumedBy      uuid.UUID       `json:"consumed_by"`
	ConsumptionDate time.Time       `json:"consumption_date"`
	Notes           string          `json:"notes,omitempty"`
}

// toEntryResponse converts a domain entry to its response form
func toEntryResponse(e *stock.StockEntry) *StockEntryResponse {
	return &StockEntryResponse{
		ID:            e.ID,
		RawMaterialID: e.RawMaterialID,
		Quantity:      e.Quantity,
		UnitCost:      e.UnitCost,
		TotalCost:     e.TotalCost,
		Supplier:      e.Supplier,
		BatchNumber:   e.BatchNumber,
		ExpiryDate:    e.ExpiryDate,
		ReceivedDate:  e.ReceivedDate,
		ReceivedBy:    e.ReceivedBy,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

// toMovementResponse converts a domain movement to its response form
func toMovementResponse(m *stock.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:            m.ID,
		StockEntryID:  m.StockEntryID,
		RawMaterialID: m.RawMaterialID,
		Type:          m.Type.String(),
		Quantity:      m.Quantity,
		FromSectionID: m.FromSectionID,
		ToSectionID:   m.ToSectionID,
		Reason:        m.Reason,
		PerformedBy:   m.PerformedBy,
		ReferenceID:   m.ReferenceID,
		MovementDate:  m.MovementDate,
	}
}

// toConsumptionResponse converts a domain consumption row to its response form
func toConsumptionResponse(c *stock.SectionConsumption) *ConsumptionResponse {
	return &ConsumptionResponse{
		ID:              c.ID,
		SectionID:       c.SectionID,
		RawMaterialID:   c.RawMaterialID,
		Quantity:        c.Quantity,
		BaseQuantity:    c.BaseQuantity,
		OrderID:         c.OrderID,
		ConsumedBy:      c.ConsumedBy,
		ConsumptionDate: c.ConsumptionDate,
		Notes:           c.Notes,
	}
}
