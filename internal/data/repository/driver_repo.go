package repository

import (
	"context"
	"fmt"

	"cargo-booking/internal/data/entity"
	"cargo-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *entity.Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error)
	FindAll(ctx context.Context, status entity.DriverStatus, limit, offset int) ([]*entity.Driver, error)
	CountAll(ctx context.Context, status entity.DriverStatus) (int64, error)
	UpdateStatus(ctx context.Context, driverID uuid.UUID, status entity.DriverStatus) error

	// Delivery-counter bookkeeping
	IncrementDeliveries(ctx context.Context, driverID uuid.UUID) error
	DecrementDeliveries(ctx context.Context, driverID uuid.UUID) error
}

type driverRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDriverRepository(db database.PgxIface, log *zap.Logger) DriverRepository {
	return &driverRepository{
		db:  db,
		log: log.With(zap.String("repository", "driver")),
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *entity.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, vehicle_type, status, total_deliveries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.VehicleType,
		driver.Status,
		driver.TotalDeliveries,
		driver.CreatedAt,
		driver.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create driver",
			zap.Error(err),
			zap.String("driver_id", driver.ID.String()),
		)
		return fmt.Errorf("create driver %s: %w", driver.ID.String(), err)
	}

	return nil
}

func (r *driverRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_type, status, total_deliveries, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`

	var driver entity.Driver
	err := r.db.QueryRow(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.VehicleType,
		&driver.Status,
		&driver.TotalDeliveries,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find driver by ID",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return nil, fmt.Errorf("find driver by ID %s: %w", id.String(), err)
	}

	return &driver, nil
}

func (r *driverRepository) FindAll(ctx context.Context, status entity.DriverStatus, limit, offset int) ([]*entity.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_type, status, total_deliveries, created_at, updated_at
		FROM drivers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to find drivers",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*entity.Driver
	for rows.Next() {
		var driver entity.Driver
		err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Phone,
			&driver.VehicleType,
			&driver.Status,
			&driver.TotalDeliveries,
			&driver.CreatedAt,
			&driver.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan driver row", zap.Error(err))
			return nil, fmt.Errorf("scan driver row: %w", err)
		}
		drivers = append(drivers, &driver)
	}

	return drivers, rows.Err()
}

func (r *driverRepository) CountAll(ctx context.Context, status entity.DriverStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM drivers WHERE ($1 = '' OR status = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count drivers", zap.Error(err))
		return 0, fmt.Errorf("count drivers: %w", err)
	}

	return count, nil
}

func (r *driverRepository) UpdateStatus(ctx context.Context, driverID uuid.UUID, status entity.DriverStatus) error {
	query := `UPDATE drivers SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, driverID, status)
	if err != nil {
		r.log.Error("Failed to update driver status",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update driver %s status to %s: %w", driverID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("driver %s not found", driverID.String())
	}

	return nil
}

func (r *driverRepository) IncrementDeliveries(ctx context.Context, driverID uuid.UUID) error {
	query := `UPDATE drivers SET total_deliveries = total_deliveries + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to increment driver deliveries",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return fmt.Errorf("increment deliveries for driver %s: %w", driverID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("driver %s not found", driverID.String())
	}

	return nil
}

// DecrementDeliveries floors the counter at zero.
func (r *driverRepository) DecrementDeliveries(ctx context.Context, driverID uuid.UUID) error {
	query := `UPDATE drivers SET total_deliveries = GREATEST(total_deliveries - 1, 0), updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to decrement driver deliveries",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return fmt.Errorf("decrement deliveries for driver %s: %w", driverID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("driver %s not found", driverID.String())
	}

	return nil
}
