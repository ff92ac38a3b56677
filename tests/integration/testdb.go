// Package integration exercises the application services end to end against
// an in-memory SQLite database, with the real repositories and transaction
// scope underneath.
package integration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/numbering"
	"github.com/resto/backend/internal/domain/stock"
)

// newTestDB opens a named shared-cache in-memory database so every
// connection in the pool sees the same schema, and migrates all tables.
// The busy timeout makes concurrent writers queue instead of erroring.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.RawMaterial{},
		&catalog.Section{},
		&stock.StockEntry{},
		&stock.StockMovement{},
		&stock.SectionInventory{},
		&stock.SectionConsumption{},
		&numbering.OrderCounter{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
