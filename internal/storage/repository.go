package storage

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/fringe-events/internal/show"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 200

// Repository clears and bulk-loads one table. Every method runs on the handle it is
// given, so the caller decides the transaction.
type Repository[T any] struct {
	name string
}

// Per-entity repositories used by Replace.
var (
	ContentRatings = Repository[show.ContentRating]{name: "content ratings"}
	Venues         = Repository[show.Venue]{name: "venues"}
	Shows          = Repository[show.Show]{name: "shows"}
	ShowTimes      = Repository[show.ShowTime]{name: "show times"}
	UserRatings    = Repository[show.UserRating]{name: "user ratings"}
)

// DeleteAll removes every row and returns how many were deleted
func (r Repository[T]) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	var model T
	res := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model)
	if res.Error != nil {
		return 0, fmt.Errorf("deleting %s: %w", r.name, res.Error)
	}
	return res.RowsAffected, nil
}

// InsertAll inserts rows in batches. Associations are never written through; each
// row's foreign keys must already be set. Generated IDs are written back to rows.
func (r Repository[T]) InsertAll(ctx context.Context, tx *gorm.DB, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("inserting %s: %w", r.name, err)
	}
	return nil
}

// Count returns the number of rows in the table
func (r Repository[T]) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var model T
	var n int64
	if err := tx.WithContext(ctx).Model(&model).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", r.name, err)
	}
	return n, nil
}
