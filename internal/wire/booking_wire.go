package wire

import (
	"cargo-booking/internal/adaptor"
	"cargo-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/track/{trackingNumber} - Carrier-facing tracking lookup
	r.Get("/api/track/{trackingNumber}", bookingHandler.Track)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Principal(log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - View own booking history
		r.Get("/api/bookings", bookingHandler.GetMyBookings)

		// GET /api/bookings/number/{bookingNumber} - Look up by booking number
		r.Get("/api/bookings/number/{bookingNumber}", bookingHandler.GetBookingByNumber)

		// GET /api/bookings/{id} - View single booking
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id}/cancel - Cancel own booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Principal(log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/bookings - List all bookings
		r.Get("/", bookingHandler.GetAllBookings)

		// GET /api/admin/bookings/{id} - View any booking
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/admin/bookings/{id}/status - Advance booking status
		r.Put("/{id}/status", bookingHandler.UpdateStatus)

		// PUT /api/admin/bookings/{id}/cancel - Cancel any booking
		r.Put("/{id}/cancel", bookingHandler.AdminCancelBooking)
	})
}
