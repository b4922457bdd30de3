package basket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userName := r.PathValue("userName")

	cart, err := h.service.GetOrCreate(r.Context(), userName)
	if err != nil {
		h.writeServiceError(w, err, "failed to get basket", "user_name", userName)
		return
	}

	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var cart domain.ShoppingCart
	if err := json.NewDecoder(r.Body).Decode(&cart); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), &cart)
	if err != nil {
		h.writeServiceError(w, err, "failed to update basket", "user_name", cart.UserName)
		return
	}

	h.logger.Info("basket updated", "user_name", updated.UserName, "items", len(updated.Items))
	h.writeJSON(w, http.StatusOK, updated)
}

type checkoutResponse struct {
	*domain.CheckoutEvent
	Warning string `json:"warning,omitempty"`
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	userName := r.PathValue("userName")

	event, err := h.service.Checkout(r.Context(), userName)
	if err != nil {
		if event != nil && errors.Is(err, ErrCheckoutIncomplete) {
			h.writeJSON(w, http.StatusAccepted, checkoutResponse{CheckoutEvent: event, Warning: "basket could not be cleared"})
			return
		}
		h.writeServiceError(w, err, "failed to checkout basket", "user_name", userName)
		return
	}

	h.writeJSON(w, http.StatusAccepted, checkoutResponse{CheckoutEvent: event})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userName := r.PathValue("userName")

	if err := h.service.Delete(r.Context(), userName); err != nil {
		h.writeServiceError(w, err, "failed to delete basket", "user_name", userName)
		return
	}

	h.logger.Info("basket deleted", "user_name", userName)
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps client errors to 4xx and dependency errors to distinct 5xx
// codes so callers can pick a retry policy.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrEmptyBasket):
		return http.StatusUnprocessableEntity, "basket is empty"
	case errors.Is(err, ErrEnrichmentFailed), errors.Is(err, ErrDependencyUnavailable):
		return http.StatusBadGateway, "discount service unavailable"
	case errors.Is(err, ErrCheckoutPublishFailed):
		return http.StatusServiceUnavailable, "checkout could not be published"
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "basket store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, append([]any{"error", err}, attrs...)...)
	}
	h.writeError(w, status, message)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
