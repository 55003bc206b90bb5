package wire

import (
	"cargo-booking/internal/adaptor"
	"cargo-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireFulfillment(r chi.Router, fulfillmentHandler *adaptor.FulfillmentHandler, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Principal(log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/bookings/{id}/assign - Assign or reassign a driver
		r.Put("/api/admin/bookings/{id}/assign", fulfillmentHandler.AssignDriver)

		r.Route("/api/admin/drivers", func(r chi.Router) {
			// POST /api/admin/drivers - Register a driver
			r.Post("/", fulfillmentHandler.CreateDriver)

			// GET /api/admin/drivers - List drivers (optional ?status=)
			r.Get("/", fulfillmentHandler.ListDrivers)

			// GET /api/admin/drivers/{id} - View driver
			r.Get("/{id}", fulfillmentHandler.GetDriver)

			// PUT /api/admin/drivers/{id}/status - Activate/deactivate driver
			r.Put("/{id}/status", fulfillmentHandler.UpdateDriverStatus)
		})
	})
}
