package persistence

import (
	"context"
	"errors"

	"github.com/resto/backend/internal/domain/numbering"
	"github.com/resto/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequencer issues reference identifiers from a single counter row,
// incremented under SELECT ... FOR UPDATE inside its own short transaction.
// Concurrent callers serialize on the row lock, so issued values are strictly
// increasing and never duplicated.
type GormSequencer struct {
	db *gorm.DB
}

// NewGormSequencer creates a new GormSequencer
func NewGormSequencer(db *gorm.DB) *GormSequencer {
	return &GormSequencer{db: db}
}

// Next increments the counter row and returns the formatted reference
func (s *GormSequencer) Next(ctx context.Context) (string, error) {
	var seq int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter numbering.OrderCounter
		findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("created_at ASC").
			First(&counter).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			counter = numbering.OrderCounter{
				BaseEntity:      shared.NewBaseEntity(),
				LastOrderNumber: 1,
			}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
			seq = counter.LastOrderNumber
			return nil
		}
		if findErr != nil {
			return findErr
		}

		counter.LastOrderNumber++
		counter.Touch()
		if err := tx.Model(&counter).
			Updates(map[string]interface{}{
				"last_order_number": counter.LastOrderNumber,
				"updated_at":        counter.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		seq = counter.LastOrderNumber
		return nil
	})
	if err != nil {
		return "", err
	}
	return numbering.FormatReference(seq), nil
}

// Ensure GormSequencer implements Sequencer
var _ numbering.Sequencer = (*GormSequencer)(nil)
