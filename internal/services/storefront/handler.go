package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aakash-redy/cravin-lije/internal/cart"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/models"
	"github.com/aakash-redy/cravin-lije/internal/store"
)

// Handler handles HTTP requests for the storefront service.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a storefront handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes sets up the HTTP routes.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/orders", h.withLogging(h.PlaceOrder))
	mux.HandleFunc("/orders/archive", h.withLogging(h.ArchiveAll))
	mux.HandleFunc("/orders/", h.withLogging(h.orderByID))
	mux.HandleFunc("/menu", h.withLogging(h.menu))
	mux.HandleFunc("/menu/", h.withLogging(h.menuItemByID))
	mux.HandleFunc("/health", h.HealthCheck)

	return mux
}

// PlaceOrder handles POST /orders requests.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		h.writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var req PlaceOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Error("validation_failed", "Request validation failed", requestID, err, map[string]interface{}{
			"customer_name": req.CustomerName,
		})
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := contextWithTimeout(r, 30*time.Second)
	defer cancel()

	response, err := h.service.PlaceOrder(ctx, &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, response)
}

// orderByID dispatches /orders/{id} and /orders/{id}/status.
func (h *Handler) orderByID(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.handleOrder(w, r, parts[0], requestID)
	case len(parts) == 2 && parts[1] == "status":
		h.handleStatus(w, r, parts[0], requestID)
	default:
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", requestID)
	}
}

func (h *Handler) handleOrder(w http.ResponseWriter, r *http.Request, id, requestID string) {
	ctx, cancel := contextWithTimeout(r, 10*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		order, err := h.service.GetOrder(ctx, id)
		if err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, order)
	case http.MethodDelete:
		if err := h.service.CancelOrder(ctx, id, requestID); err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{"status": string(models.StatusCancelled)})
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request, id, requestID string) {
	if r.Method != http.MethodPatch {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if _, err := models.ParseOrderStatus(req.Status); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := contextWithTimeout(r, 10*time.Second)
	defer cancel()

	if err := h.service.UpdateStatus(ctx, id, req.Status, requestID); err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ArchiveAll handles POST /orders/archive requests (end-of-day reset).
func (h *Handler) ArchiveAll(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	ctx, cancel := contextWithTimeout(r, 30*time.Second)
	defer cancel()

	response, err := h.service.ArchiveAll(ctx, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

// menu dispatches /menu: the public listing and the admin create.
func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := contextWithTimeout(r, 10*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		items, err := h.service.ListMenu(ctx)
		if err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req MenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
			return
		}
		if err := req.Validate(); err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}

		item, err := h.service.CreateMenuItem(ctx, &req, requestID)
		if err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusCreated, item)
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

// menuItemByID dispatches /menu/{id} and /menu/{id}/availability for the
// admin console.
func (h *Handler) menuItemByID(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	rest := strings.TrimPrefix(r.URL.Path, "/menu/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	ctx, cancel := contextWithTimeout(r, 10*time.Second)
	defer cancel()

	switch {
	case len(parts) == 1:
		h.handleMenuItem(ctx, w, r, id, requestID)
	case len(parts) == 2 && parts[1] == "availability":
		h.handleAvailability(ctx, w, r, id, requestID)
	default:
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", requestID)
	}
}

func (h *Handler) handleMenuItem(ctx context.Context, w http.ResponseWriter, r *http.Request, id int64, requestID string) {
	switch r.Method {
	case http.MethodPut:
		var req MenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
			return
		}
		if err := req.Validate(); err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}

		item, err := h.service.UpdateMenuItem(ctx, id, &req, requestID)
		if err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := h.service.DeleteMenuItem(ctx, id, requestID); err != nil {
			h.writeServiceError(w, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

func (h *Handler) handleAvailability(ctx context.Context, w http.ResponseWriter, r *http.Request, id int64, requestID string) {
	if r.Method != http.MethodPatch {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.service.SetMenuItemAvailability(ctx, id, req.Available, requestID); err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "available": req.Available})
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := contextWithTimeout(r, 5*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "storefront",
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
	}

	h.writeJSON(w, status, response)
}

// writeServiceError maps domain errors onto HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, requestID string) {
	var invalid *models.InvalidTransitionError

	switch {
	case errors.As(err, &invalid):
		h.writeErrorResponse(w, http.StatusConflict, invalid.Error(), requestID)
	case errors.Is(err, store.ErrOrderNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
	case errors.Is(err, store.ErrMenuItemNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Menu item not found", requestID)
	case errors.Is(err, cart.ErrItemUnavailable):
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, "One or more items are unavailable", requestID)
	case errors.Is(err, cart.ErrEmptyCart):
		h.writeErrorResponse(w, http.StatusBadRequest, "Cart is empty", requestID)
	case errors.Is(err, store.ErrPartialOrderWrite):
		h.logger.Error("partial_order_write", "Order persisted without items", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Order is corrupted and needs manual correction", requestID)
	default:
		h.logger.Error("request_failed", "Unhandled service error", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format.
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	h.writeJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// withLogging adds request logging middleware.
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			"", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
