package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPackMaterial(t *testing.T, env *testEnv) *catalog.RawMaterial {
	t.Helper()
	m, err := catalog.NewRawMaterial(
		"Paper Cups",
		catalog.UnitPacks,
		decimal.NewFromInt(24),
		catalog.UnitPieces,
		decimal.RequireFromString("12.00"),
		decimal.NewFromInt(48),
		decimal.NewFromInt(480),
	)
	require.NoError(t, err)
	require.NoError(t, env.materials.Save(context.Background(), m))
	return m
}

func seedPlainMaterial(t *testing.T, env *testEnv) *catalog.RawMaterial {
	t.Helper()
	m, err := catalog.NewRawMaterial(
		"Olive Oil",
		catalog.UnitLiters,
		decimal.Zero,
		catalog.UnitLiters,
		decimal.RequireFromString("8.50"),
		decimal.NewFromInt(5),
		decimal.NewFromInt(50),
	)
	require.NoError(t, err)
	require.NoError(t, env.materials.Save(context.Background(), m))
	return m
}

func TestLedgerService_Receive(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("converts pack quantity to base units and prices at purchase granularity", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(10),
			UnitCost:      decimal.RequireFromString("12.00"),
			Supplier:      "Acme Supplies",
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "240", result.Data.Quantity.String())
		assert.Equal(t, "120", result.Data.TotalCost.String())
		assert.Contains(t, result.Data.Notes, "240 PIECES")
		assert.Contains(t, result.Data.Notes, "0.5 per PIECES")

		level, err := env.ledger.CurrentLevel(ctx, material.ID)
		require.NoError(t, err)
		assert.Equal(t, "240", level.Available.String())
		assert.Equal(t, "10", level.AvailablePacks.String())

		movements, err := env.movements.FindAllByMaterial(ctx, material.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, "IN", movements[0].Type.String())
		assert.Equal(t, "240", movements[0].Quantity.String())
	})

	t.Run("identity conversion for non-pack materials", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPlainMaterial(t, env)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.RequireFromString("7.5"),
			UnitCost:      decimal.RequireFromString("8.50"),
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "7.5", result.Data.Quantity.String())
		assert.Equal(t, "63.75", result.Data.TotalCost.String())
	})

	t.Run("the paired IN movement carries a sequencer reference", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		movements, err := env.movements.FindByEntry(ctx, result.Data.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, "ORDER-001", movements[0].ReferenceID)
	})

	t.Run("a sequencer outage does not fail the receipt", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		ledger := NewLedgerService(env.materials, env.entries, env.movements,
			NewNoOpTransactionScope(env.entries, env.movements, env.sectionInv, env.consumptions),
			failingSequencer{}, nil)

		result, err := ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		movements, err := env.movements.FindByEntry(ctx, result.Data.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Empty(t, movements[0].ReferenceID)
	})

	t.Run("fails for unknown material", func(t *testing.T) {
		env := newTestEnv(true)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: uuid.New(),
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("fails for inactive material", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		material.Deactivate()
		require.NoError(t, env.materials.Save(ctx, material))

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("fails for non-positive quantity", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.Zero,
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("fails for negative cost", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)

		result, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			UnitCost:      decimal.NewFromInt(-1),
			ReceivedBy:    userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestLedgerService_Move(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("records a movement and fills the reference from the sequencer", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		received, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(10),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)

		result, err := env.ledger.Move(ctx, MoveStockRequest{
			StockEntryID: received.Data.ID,
			Type:         "OUT",
			Quantity:     decimal.NewFromInt(24),
			Reason:       "kitchen prep",
			PerformedBy:  userID,
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "OUT", result.Data.Type)
		assert.NotEmpty(t, result.Data.ReferenceID)

		level, err := env.ledger.CurrentLevel(ctx, material.ID)
		require.NoError(t, err)
		assert.Equal(t, "216", level.Available.String())
	})

	t.Run("keeps a caller-supplied reference", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		received, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)

		result, err := env.ledger.Move(ctx, MoveStockRequest{
			StockEntryID: received.Data.ID,
			Type:         "DAMAGED",
			Quantity:     decimal.NewFromInt(2),
			PerformedBy:  userID,
			ReferenceID:  "ORDER-777",
		})

		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "ORDER-777", result.Data.ReferenceID)
	})

	t.Run("fails for missing entry", func(t *testing.T) {
		env := newTestEnv(true)

		result, err := env.ledger.Move(ctx, MoveStockRequest{
			StockEntryID: uuid.New(),
			Type:         "OUT",
			Quantity:     decimal.NewFromInt(1),
			PerformedBy:  userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("fails for unknown type", func(t *testing.T) {
		env := newTestEnv(true)

		result, err := env.ledger.Move(ctx, MoveStockRequest{
			StockEntryID: uuid.New(),
			Type:         "ADJUST",
			Quantity:     decimal.NewFromInt(1),
			PerformedBy:  userID,
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "movement type")
	})
}

func TestLedgerService_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("refuses to delete a referenced entry without force", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		received, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)

		result, err := env.ledger.DeleteEntry(ctx, received.Data.ID, false)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "force")

		_, err = env.entries.FindByID(ctx, received.Data.ID)
		assert.NoError(t, err)
	})

	t.Run("deletes a referenced entry with force", func(t *testing.T) {
		env := newTestEnv(true)
		material := seedPackMaterial(t, env)
		received, err := env.ledger.Receive(ctx, ReceiveStockRequest{
			RawMaterialID: material.ID,
			Quantity:      decimal.NewFromInt(1),
			ReceivedBy:    userID,
		})
		require.NoError(t, err)

		result, err := env.ledger.DeleteEntry(ctx, received.Data.ID, true)

		require.NoError(t, err)
		assert.True(t, result.Success)

		_, err = env.entries.FindByID(ctx, received.Data.ID)
		assert.Error(t, err)
	})

	t.Run("fails for missing entry", func(t *testing.T) {
		env := newTestEnv(true)

		result, err := env.ledger.DeleteEntry(ctx, uuid.New(), false)

		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestLedgerService_AllLevels(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	env := newTestEnv(true)
	cups := seedPackMaterial(t, env)
	oil := seedPlainMaterial(t, env)

	_, err := env.ledger.Receive(ctx, ReceiveStockRequest{
		RawMaterialID: cups.ID,
		Quantity:      decimal.NewFromInt(10),
		ReceivedBy:    userID,
	})
	require.NoError(t, err)
	_, err = env.ledger.Receive(ctx, ReceiveStockRequest{
		RawMaterialID: oil.ID,
		Quantity:      decimal.NewFromInt(3),
		ReceivedBy:    userID,
	})
	require.NoError(t, err)

	t.Run("derives a level per active material", func(t *testing.T) {
		levels, err := env.ledger.AllLevels(ctx, false)

		require.NoError(t, err)
		assert.Len(t, levels, 2)
	})

	t.Run("low-only filter returns materials at or below minimum", func(t *testing.T) {
		levels, err := env.ledger.AllLevels(ctx, true)

		require.NoError(t, err)
		require.Len(t, levels, 1)
		assert.Equal(t, oil.ID, levels[0].RawMaterialID)
		assert.True(t, levels[0].IsLowStock)
	})

	t.Run("disabled low-stock check never flags materials", func(t *testing.T) {
		quiet := NewLedgerService(env.materials, env.entries, env.movements,
			NewNoOpTransactionScope(env.entries, env.movements, env.sectionInv, env.consumptions),
			env.sequencer, nil, WithLowStockCheck(false))

		levels, err := quiet.AllLevels(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, levels)

		level, err := quiet.CurrentLevel(ctx, oil.ID)
		require.NoError(t, err)
		assert.False(t, level.IsLowStock)
	})
}
