package repository

import (
	"context"
	"fmt"

	"cargo-booking/internal/data/entity"
	"cargo-booking/pkg/database"

	"go.uber.org/zap"
)

// AdjustmentRepository records applied delivery-counter compensations. The
// insert-once semantics make retried reassignments idempotent for the
// counters.
type AdjustmentRepository interface {
	// InsertOnce stores the adjustment if no identical one exists, and
	// reports whether this call claimed it.
	InsertOnce(ctx context.Context, adj *entity.DeliveryAdjustment) (bool, error)
}

type adjustmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAdjustmentRepository(db database.PgxIface, log *zap.Logger) AdjustmentRepository {
	return &adjustmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "adjustment")),
	}
}

func (r *adjustmentRepository) InsertOnce(ctx context.Context, adj *entity.DeliveryAdjustment) (bool, error) {
	query := `
		INSERT INTO delivery_adjustments (id, booking_id, from_driver_id, to_driver_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (booking_id, from_driver_id, to_driver_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		adj.ID,
		adj.BookingID,
		adj.FromDriverID,
		adj.ToDriverID,
		adj.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert delivery adjustment",
			zap.Error(err),
			zap.String("booking_id", adj.BookingID.String()),
			zap.String("from_driver_id", adj.FromDriverID.String()),
			zap.String("to_driver_id", adj.ToDriverID.String()),
		)
		return false, fmt.Errorf("insert delivery adjustment for booking %s: %w", adj.BookingID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
