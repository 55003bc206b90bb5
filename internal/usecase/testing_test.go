package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/ephemeral"
	"cargo-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// syncDispatcher runs dispatched tasks inline so best-effort side effects
// are observable deterministically in tests.
type syncDispatcher struct {
	mu     sync.Mutex
	names  []string
	errors []error
}

func (d *syncDispatcher) Dispatch(name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	d.errors = append(d.errors, fn(context.Background()))
}

func (d *syncDispatcher) dispatched(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.names {
		if n == name {
			return true
		}
	}
	return false
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func copyBooking(b *entity.Booking) *entity.Booking {
	cp := *b
	return &cp
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.BookingNumber == booking.BookingNumber {
			return fmt.Errorf("duplicate booking number %s", booking.BookingNumber)
		}
		if existing.TrackingNumber == booking.TrackingNumber {
			return fmt.Errorf("duplicate tracking number %s", booking.TrackingNumber)
		}
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) FindByBookingNumber(_ context.Context, number string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingNumber == number {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByTrackingNumber(_ context.Context, number string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TrackingNumber == number {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByCustomerID(_ context.Context, customerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		out = append(out, copyBooking(b))
	}
	return out, nil
}

func (r *fakeBookingRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[uuid.UUID]*entity.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[uuid.UUID]*entity.Driver)}
}

func (r *fakeDriverRepo) Create(_ context.Context, driver *entity.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *driver
	r.drivers[driver.ID] = &cp
	return nil
}

func (r *fakeDriverRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDriverRepo) FindAll(_ context.Context, status entity.DriverStatus, limit, offset int) ([]*entity.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Driver
	for _, d := range r.drivers {
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDriverRepo) CountAll(_ context.Context, status entity.DriverStatus) (int64, error) {
	drivers, _ := r.FindAll(context.Background(), status, 0, 0)
	return int64(len(drivers)), nil
}

func (r *fakeDriverRepo) UpdateStatus(_ context.Context, driverID uuid.UUID, status entity.DriverStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return fmt.Errorf("driver %s not found", driverID.String())
	}
	d.Status = status
	return nil
}

func (r *fakeDriverRepo) IncrementDeliveries(_ context.Context, driverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return fmt.Errorf("driver %s not found", driverID.String())
	}
	d.TotalDeliveries++
	return nil
}

func (r *fakeDriverRepo) DecrementDeliveries(_ context.Context, driverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return fmt.Errorf("driver %s not found", driverID.String())
	}
	if d.TotalDeliveries > 0 {
		d.TotalDeliveries--
	}
	return nil
}

func (r *fakeDriverRepo) deliveries(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drivers[id].TotalDeliveries
}

type fakeAdjustmentRepo struct {
	mu      sync.Mutex
	applied map[string]bool
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{applied: make(map[string]bool)}
}

func (r *fakeAdjustmentRepo) InsertOnce(_ context.Context, adj *entity.DeliveryAdjustment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := adj.BookingID.String() + "|" + adj.FromDriverID.String() + "|" + adj.ToDriverID.String()
	if r.applied[key] {
		return false, nil
	}
	r.applied[key] = true
	return true, nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		Draft: utils.DraftConfig{
			DefaultTTL: time.Hour,
			SaveTTL:    24 * time.Hour,
		},
	}
}

func newTestRepos() (*repository.Repository, *fakeBookingRepo, *fakeDriverRepo, *fakeAdjustmentRepo) {
	bookings := newFakeBookingRepo()
	drivers := newFakeDriverRepo()
	adjustments := newFakeAdjustmentRepo()
	repo := &repository.Repository{
		Booking:    bookings,
		Driver:     drivers,
		Adjustment: adjustments,
	}
	return repo, bookings, drivers, adjustments
}

func newTestDraftService() (DraftService, *ephemeral.MemoryStore) {
	store := ephemeral.NewMemoryStore(time.Hour, zap.NewNop())
	return NewDraftService(store, testConfig(), zap.NewNop()), store
}
