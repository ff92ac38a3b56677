package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaterial(t *testing.T) *catalog.RawMaterial {
	t.Helper()
	m, err := catalog.NewRawMaterial(
		"Paper Cups",
		catalog.UnitPacks,
		decimal.NewFromInt(24),
		catalog.UnitPieces,
		decimal.NewFromInt(12),
		decimal.NewFromInt(48),
		decimal.NewFromInt(480),
	)
	require.NoError(t, err)
	return m
}

func testEntry(t *testing.T, materialID uuid.UUID, baseQty int64, receivedDate time.Time) StockEntry {
	t.Helper()
	e, err := NewStockEntry(materialID, decimal.NewFromInt(baseQty), decimal.NewFromInt(12), decimal.NewFromInt(12*baseQty/24), "Acme Supplies", "", nil, receivedDate, uuid.New(), "")
	require.NoError(t, err)
	return *e
}

func TestComputeLevel(t *testing.T) {
	material := testMaterial(t)
	userID := uuid.New()
	now := time.Now()

	t.Run("no entries or movements", func(t *testing.T) {
		level := ComputeLevel(material, nil, nil)

		assert.True(t, level.TotalReceived.IsZero())
		assert.True(t, level.TotalUsed.IsZero())
		assert.True(t, level.Available.IsZero())
		assert.True(t, level.IsLowStock)
	})

	t.Run("receipts alone set the available level", func(t *testing.T) {
		entry := testEntry(t, material.ID, 240, now)
		in, err := NewStockMovement(entry.ID, material.ID, MovementTypeIn, decimal.NewFromInt(240), nil, nil, "", userID, "")
		require.NoError(t, err)

		level := ComputeLevel(material, []StockEntry{entry}, []StockMovement{*in})

		assert.Equal(t, "240", level.TotalReceived.String())
		assert.Equal(t, "0", level.TotalUsed.String())
		assert.Equal(t, "240", level.Available.String())
		assert.False(t, level.IsLowStock)
	})

	t.Run("assignment then section consumption debits availability once", func(t *testing.T) {
		sectionID := uuid.New()
		entry := testEntry(t, material.ID, 240, now)

		in, err := NewStockMovement(entry.ID, material.ID, MovementTypeIn, decimal.NewFromInt(240), nil, nil, "", userID, "")
		require.NoError(t, err)
		assign, err := NewStockMovement(entry.ID, material.ID, MovementTypeTransfer, decimal.NewFromInt(48), nil, &sectionID, "", userID, "")
		require.NoError(t, err)
		consume, err := NewStockMovement(entry.ID, material.ID, MovementTypeOut, decimal.NewFromInt(24), &sectionID, nil, "", userID, "")
		require.NoError(t, err)

		level := ComputeLevel(material, []StockEntry{entry}, []StockMovement{*in, *assign, *consume})

		assert.Equal(t, "48", level.TotalUsed.String())
		assert.Equal(t, "192", level.Available.String())
	})

	t.Run("returning stock from a section restores availability", func(t *testing.T) {
		sectionID := uuid.New()
		entry := testEntry(t, material.ID, 240, now)

		assign, err := NewStockMovement(entry.ID, material.ID, MovementTypeTransfer, decimal.NewFromInt(48), nil, &sectionID, "", userID, "")
		require.NoError(t, err)
		back, err := NewStockMovement(entry.ID, material.ID, MovementTypeTransfer, decimal.NewFromInt(24), &sectionID, nil, "", userID, "")
		require.NoError(t, err)

		level := ComputeLevel(material, []StockEntry{entry}, []StockMovement{*assign, *back})

		assert.Equal(t, "24", level.TotalUsed.String())
		assert.Equal(t, "216", level.Available.String())
	})

	t.Run("write-offs count as usage", func(t *testing.T) {
		entry := testEntry(t, material.ID, 240, now)

		expired, err := NewStockMovement(entry.ID, material.ID, MovementTypeExpired, decimal.NewFromInt(200), nil, nil, "past expiry", userID, "")
		require.NoError(t, err)

		level := ComputeLevel(material, []StockEntry{entry}, []StockMovement{*expired})

		assert.Equal(t, "200", level.TotalUsed.String())
		assert.Equal(t, "40", level.Available.String())
		assert.True(t, level.IsLowStock)
	})

	t.Run("low stock threshold is inclusive", func(t *testing.T) {
		entry := testEntry(t, material.ID, 48, now)

		level := ComputeLevel(material, []StockEntry{entry}, nil)

		assert.Equal(t, "48", level.Available.String())
		assert.True(t, level.IsLowStock)
	})
}

func TestEntryRemaining(t *testing.T) {
	material := testMaterial(t)
	userID := uuid.New()
	now := time.Now()

	entry := testEntry(t, material.ID, 240, now)
	other := testEntry(t, material.ID, 120, now)

	sectionID := uuid.New()
	assign, err := NewStockMovement(entry.ID, material.ID, MovementTypeTransfer, decimal.NewFromInt(48), nil, &sectionID, "", userID, "")
	require.NoError(t, err)
	otherOut, err := NewStockMovement(other.ID, material.ID, MovementTypeOut, decimal.NewFromInt(100), nil, nil, "", userID, "")
	require.NoError(t, err)

	movements := []StockMovement{*assign, *otherOut}

	assert.Equal(t, "192", EntryRemaining(&entry, movements).String())
	assert.Equal(t, "20", EntryRemaining(&other, movements).String())
}

func TestEntryUnconsumed(t *testing.T) {
	material := testMaterial(t)
	userID := uuid.New()
	now := time.Now()

	entry := testEntry(t, material.ID, 240, now)
	other := testEntry(t, material.ID, 120, now)

	sectionID := uuid.New()
	assign, err := NewStockMovement(entry.ID, material.ID, MovementTypeTransfer, decimal.NewFromInt(240), nil, &sectionID, "", userID, "")
	require.NoError(t, err)
	sectionOut, err := NewStockMovement(entry.ID, material.ID, MovementTypeOut, decimal.NewFromInt(24), &sectionID, nil, "", userID, "")
	require.NoError(t, err)
	expired, err := NewStockMovement(other.ID, material.ID, MovementTypeExpired, decimal.NewFromInt(100), nil, nil, "", userID, "")
	require.NoError(t, err)

	movements := []StockMovement{*assign, *sectionOut, *expired}

	// Assigning the full entry to a section leaves it attributable; only the
	// consumption and the write-off draw it down.
	assert.Equal(t, "216", EntryUnconsumed(&entry, movements).String())
	assert.Equal(t, "20", EntryUnconsumed(&other, movements).String())
}
