package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormSequencer_Next(t *testing.T) {
	t.Run("increments the counter under a row lock", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		seq := NewGormSequencer(gormDB)

		counterID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "order_counters" ORDER BY created_at ASC,.* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "last_order_number"}).
				AddRow(counterID, 41))
		mock.ExpectExec(`UPDATE "order_counters" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ref, err := seq.Next(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "ORDER-042", ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates the counter row on first use", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		seq := NewGormSequencer(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "order_counters"`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "order_counters"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		ref, err := seq.Next(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "ORDER-001", ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates counter store failure", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		seq := NewGormSequencer(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "order_counters"`).
			WillReturnError(gorm.ErrInvalidDB)
		mock.ExpectRollback()

		ref, err := seq.Next(context.Background())

		assert.Error(t, err)
		assert.Empty(t, ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
