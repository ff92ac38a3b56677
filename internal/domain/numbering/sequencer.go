package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/resto/backend/internal/domain/shared"
)

// ReferencePrefix is the prefix of every sequencer-issued identifier
const ReferencePrefix = "ORDER-"

// OrderCounter is the single durable row backing the reference sequencer.
// It is only ever mutated under a row lock inside a transaction.
type OrderCounter struct {
	shared.BaseEntity
	LastOrderNumber int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderCounter) TableName() string {
	return "order_counters"
}

// FormatReference renders a sequence value as a human-readable reference.
// Padding is a minimum of three digits, never a cap: values past 999 simply
// widen.
func FormatReference(seq int64) string {
	return fmt.Sprintf("%s%03d", ReferencePrefix, seq)
}

// FallbackReference builds a timestamp-derived identifier for use when the
// counter store is unreachable. References are audit aids, not primary keys,
// so availability wins over strict sequentiality here.
func FallbackReference(now time.Time) string {
	return fmt.Sprintf("%s%d", ReferencePrefix, now.UnixMilli())
}

// Sequencer issues monotonically increasing reference identifiers used to tag
// stock movements and consumption records for audit correlation.
type Sequencer interface {
	// Next returns the next reference identifier. Implementations must
	// serialize the underlying counter increment across all concurrent
	// callers (row lock or equivalent atomic increment).
	Next(ctx context.Context) (string, error)
}
