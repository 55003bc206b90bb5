package adaptor

import (
	"encoding/json"
	"net/http"

	"cargo-booking/internal/dto/request"
	"cargo-booking/internal/usecase"
	"cargo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FulfillmentHandler struct {
	assignment usecase.AssignmentService
	drivers    usecase.DriverService
	log        *zap.Logger
}

func NewFulfillmentHandler(assignment usecase.AssignmentService, drivers usecase.DriverService, log *zap.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		assignment: assignment,
		drivers:    drivers,
		log:        log.With(zap.String("handler", "fulfillment")),
	}
}

// AssignDriver handles PUT /api/admin/bookings/{id}/assign (admin only)
func (h *FulfillmentHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.AssignDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.assignment.Assign(r.Context(), bookingID, req.DriverID)
	if err != nil {
		handleServiceError(w, h.log, err, "assign driver")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// CreateDriver handles POST /api/admin/drivers (admin only)
func (h *FulfillmentHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	driver, err := h.drivers.CreateDriver(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create driver")
		return
	}

	utils.ResponseCreated(w, "success", driver)
}

// GetDriver handles GET /api/admin/drivers/{id} (admin only)
func (h *FulfillmentHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	if driverID == "" {
		utils.ResponseBadRequest(w, "Driver ID is required", nil)
		return
	}

	driver, err := h.drivers.GetDriverByID(r.Context(), driverID)
	if err != nil {
		handleServiceError(w, h.log, err, "get driver")
		return
	}

	utils.ResponseSuccess(w, "success", driver)
}

// ListDrivers handles GET /api/admin/drivers (admin only)
func (h *FulfillmentHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	drivers, err := h.drivers.GetDrivers(r.Context(), query.Get("status"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list drivers")
		return
	}

	utils.ResponseSuccess(w, "success", drivers)
}

// UpdateDriverStatus handles PUT /api/admin/drivers/{id}/status (admin only)
func (h *FulfillmentHandler) UpdateDriverStatus(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	if driverID == "" {
		utils.ResponseBadRequest(w, "Driver ID is required", nil)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.drivers.UpdateDriverStatus(r.Context(), driverID, body.Status); err != nil {
		handleServiceError(w, h.log, err, "update driver status")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
