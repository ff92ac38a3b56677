package stock

import (
	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StockLevel is the derived availability of a material. It is never
// persisted: the movement log is the source of truth and the level is
// recomputed by replay, so it can always be audited against history.
type StockLevel struct {
	RawMaterialID uuid.UUID
	TotalReceived decimal.Decimal // Σ StockEntry.Quantity, base units
	TotalUsed     decimal.Decimal // Net base units no longer centrally available
	Available     decimal.Decimal // TotalReceived − TotalUsed
	IsLowStock    bool
}

// ComputeLevel replays the material's entries and movements into a derived
// level. TotalUsed is the net of every movement's availability delta, so
// allocations to sections count as used while section-internal consumption,
// already covered by its allocation, does not double-debit.
func ComputeLevel(material *catalog.RawMaterial, entries []StockEntry, movements []StockMovement) StockLevel {
	received := decimal.Zero
	for i := range entries {
		received = received.Add(entries[i].Quantity)
	}

	used := decimal.Zero
	for i := range movements {
		used = used.Sub(movements[i].AvailabilityDelta())
	}

	available := received.Sub(used)
	return StockLevel{
		RawMaterialID: material.ID,
		TotalReceived: received,
		TotalUsed:     used,
		Available:     available,
		IsLowStock:    available.LessThanOrEqual(material.MinStockLevel),
	}
}

// EntryRemaining computes how much of a single entry is still centrally
// available, by replaying only the movements referencing it. Section
// allocations debit it, so it drives FIFO lot selection for assignments.
func EntryRemaining(entry *StockEntry, movements []StockMovement) decimal.Decimal {
	remaining := entry.Quantity
	for i := range movements {
		if movements[i].StockEntryID == entry.ID {
			remaining = remaining.Add(movements[i].AvailabilityDelta())
		}
	}
	return remaining
}

// EntryUnconsumed computes how much of a single entry has not yet been
// consumed or written off, counting only the outward movements recorded
// against it. Allocations leave it untouched: stock assigned to a section
// still belongs to its receiving entry until an OUT attributes the use, so
// this measure drives FIFO lot selection for consumption.
func EntryUnconsumed(entry *StockEntry, movements []StockMovement) decimal.Decimal {
	remaining := entry.Quantity
	for i := range movements {
		if movements[i].StockEntryID != entry.ID {
			continue
		}
		switch movements[i].Type {
		case MovementTypeOut, MovementTypeExpired, MovementTypeDamaged:
			remaining = remaining.Sub(movements[i].Quantity)
		}
	}
	return remaining
}
