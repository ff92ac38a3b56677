package stock

import (
	"fmt"
	"sort"

	"github.com/resto/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Lot pairs a stock entry with its remaining (not yet attributed) quantity
type Lot struct {
	Entry     StockEntry
	Remaining decimal.Decimal
}

// LotAllocation is one slice of a requested quantity attributed to an entry
type LotAllocation struct {
	Entry    StockEntry
	Quantity decimal.Decimal
}

// SelectFIFO allocates a requested base quantity across lots in
// first-in-first-out order by received date (creation date as tiebreak).
// Shortfall is a hard error: if the lots cannot cover the full request the
// function fails with NO_AVAILABLE_ENTRY and allocates nothing, rather than
// best-effort attributing the movement to an entry that cannot cover it.
func SelectFIFO(requested decimal.Decimal, lots []Lot) ([]LotAllocation, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	sorted := make([]Lot, 0, len(lots))
	for _, lot := range lots {
		if lot.Remaining.GreaterThan(decimal.Zero) {
			sorted = append(sorted, lot)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Entry.ReceivedDate.Equal(sorted[j].Entry.ReceivedDate) {
			return sorted[i].Entry.ReceivedDate.Before(sorted[j].Entry.ReceivedDate)
		}
		return sorted[i].Entry.CreatedAt.Before(sorted[j].Entry.CreatedAt)
	})

	allocations := make([]LotAllocation, 0, len(sorted))
	remaining := requested
	for _, lot := range sorted {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, lot.Remaining)
		allocations = append(allocations, LotAllocation{Entry: lot.Entry, Quantity: take})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError(shared.ErrNoAvailableEntry.Code,
			fmt.Sprintf("No stock entries can cover the request: %s of %s short", remaining.String(), requested.String()))
	}
	return allocations, nil
}
