package wire

import (
	"net/http"

	"cargo-booking/internal/adaptor"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/ephemeral"
	"cargo-booking/internal/usecase"
	"cargo-booking/pkg/middleware"
	"cargo-booking/pkg/tasks"
	"cargo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and the router.
func Wiring(repo *repository.Repository, store ephemeral.Store, dispatcher tasks.Dispatcher, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, store, dispatcher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireBooking(r, handler.Booking, logger)
	wireDraft(r, handler.Draft, logger)
	wireFulfillment(r, handler.Fulfillment, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
