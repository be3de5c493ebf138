package sequence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
)

// Allocator issues unique, strictly increasing values from a named counter.
// Two concurrent calls never observe the same value and no value is skipped.
type Allocator interface {
	WithTx(tx *gorm.DB) Allocator
	Next(ctx context.Context, key string) (int64, error)
}

type allocator struct {
	db *gorm.DB
}

// NewAllocator builds a storage-backed allocator. The counter row is created
// lazily on first allocation; the first value handed out for a key is 1.
func NewAllocator(db *gorm.DB) (Allocator, error) {
	if db == nil {
		return nil, fmt.Errorf("sequence allocator requires a db connection")
	}
	return &allocator{db: db}, nil
}

// WithTx binds the allocator to a caller-owned transaction so an aborted
// enclosing write rolls the increment back with it, keeping values contiguous.
func (a *allocator) WithTx(tx *gorm.DB) Allocator {
	if tx == nil {
		return a
	}
	return &allocator{db: tx}
}

func (a *allocator) Next(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sequence key required")
	}

	// Single-statement upsert so the increment-and-read is atomic at the
	// storage layer. Reading then writing in two steps would race under
	// concurrent requests.
	var value int64
	err := a.db.WithContext(ctx).Raw(`
		INSERT INTO order_sequences (key, value)
		VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET value = order_sequences.value + 1
		RETURNING value
	`, key).Scan(&value).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeAllocation, err, "allocate sequence value")
	}
	if value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeAllocation, "allocator returned no value")
	}
	return value, nil
}

// FormatOrderID renders an allocated value as the customer-facing order
// identifier: prefix plus the value zero-padded to width. Values wider than
// the pad are not truncated (1000 with width 3 renders as ORD1000).
func FormatOrderID(prefix string, width int, value int64) string {
	if width <= 0 {
		width = 3
	}
	return fmt.Sprintf("%s%0*d", prefix, width, value)
}
