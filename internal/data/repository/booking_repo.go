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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByBookingNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, booking_number, tracking_number, customer_id, driver_id,
	pickup_label, pickup_line1, pickup_line2, pickup_city, pickup_state, pickup_postal_code, pickup_phone,
	delivery_label, delivery_line1, delivery_line2, delivery_city, delivery_state, delivery_postal_code, delivery_phone,
	package_type, weight, service_type, pickup_date, special_instructions, insurance, insurance_value,
	base_cost, weight_charges, insurance_charges, total_cost, status,
	created_at, updated_at, confirmed_at, picked_up_at, delivered_at
`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.TrackingNumber, &b.CustomerID, &b.DriverID,
		&b.PickupAddress.Label, &b.PickupAddress.Line1, &b.PickupAddress.Line2,
		&b.PickupAddress.City, &b.PickupAddress.State, &b.PickupAddress.PostalCode, &b.PickupAddress.Phone,
		&b.DeliveryAddress.Label, &b.DeliveryAddress.Line1, &b.DeliveryAddress.Line2,
		&b.DeliveryAddress.City, &b.DeliveryAddress.State, &b.DeliveryAddress.PostalCode, &b.DeliveryAddress.Phone,
		&b.PackageType, &b.Weight, &b.ServiceType, &b.PickupDate, &b.SpecialInstructions, &b.Insurance, &b.InsuranceValue,
		&b.BaseCost, &b.WeightCharges, &b.InsuranceCharges, &b.TotalCost, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.ConfirmedAt, &b.PickedUpAt, &b.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5,
		        $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26,
		        $27, $28, $29, $30, $31,
		        $32, $33, $34, $35, $36)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.BookingNumber, booking.TrackingNumber, booking.CustomerID, booking.DriverID,
		booking.PickupAddress.Label, booking.PickupAddress.Line1, booking.PickupAddress.Line2,
		booking.PickupAddress.City, booking.PickupAddress.State, booking.PickupAddress.PostalCode, booking.PickupAddress.Phone,
		booking.DeliveryAddress.Label, booking.DeliveryAddress.Line1, booking.DeliveryAddress.Line2,
		booking.DeliveryAddress.City, booking.DeliveryAddress.State, booking.DeliveryAddress.PostalCode, booking.DeliveryAddress.Phone,
		booking.PackageType, booking.Weight, booking.ServiceType, booking.PickupDate,
		booking.SpecialInstructions, booking.Insurance, booking.InsuranceValue,
		booking.BaseCost, booking.WeightCharges, booking.InsuranceCharges, booking.TotalCost, booking.Status,
		booking.CreatedAt, booking.UpdatedAt, booking.ConfirmedAt, booking.PickedUpAt, booking.DeliveredAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_number", booking.BookingNumber),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingNumber, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByBookingNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_number = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by booking number",
			zap.Error(err),
			zap.String("booking_number", bookingNumber),
		)
		return nil, fmt.Errorf("find booking by booking number %s: %w", bookingNumber, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tracking_number = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, trackingNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by tracking number",
			zap.Error(err),
			zap.String("tracking_number", trackingNumber),
		)
		return nil, fmt.Errorf("find booking by tracking number %s: %w", trackingNumber, err)
	}

	return booking, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.queryBookings(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by customer ID %s: %w", customerID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE customer_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return 0, fmt.Errorf("count bookings by customer ID %s: %w", customerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	bookings, err := r.queryBookings(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// Update writes the mutable portion of a booking: driver binding, status and
// transition timestamps. Identity, snapshots and the stored cost breakdown
// are never rewritten.
func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = $2, status = $3, updated_at = $4,
		    confirmed_at = $5, picked_up_at = $6, delivered_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.DriverID,
		booking.Status,
		booking.UpdatedAt,
		booking.ConfirmedAt,
		booking.PickedUpAt,
		booking.DeliveredAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}
