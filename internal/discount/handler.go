package discount

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

type CouponStore interface {
	GetByProductName(ctx context.Context, productName string) (*domain.Coupon, error)
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, productName string) (bool, error)
}

type Handler struct {
	store  CouponStore
	logger *slog.Logger
}

func NewHandler(store CouponStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	productName := r.PathValue("productName")
	if productName == "" {
		h.writeError(w, http.StatusBadRequest, "missing product name")
		return
	}

	coupon, err := h.store.GetByProductName(r.Context(), productName)
	if errors.Is(err, domain.ErrCouponNotFound) {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get coupon", "error", err, "product_name", productName)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("coupon retrieved", "product_name", coupon.ProductName, "amount", coupon.Amount.String())
	h.writeJSON(w, http.StatusOK, coupon)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	coupon, ok := h.decodeCoupon(w, r)
	if !ok {
		return
	}

	err := h.store.Create(r.Context(), coupon)
	if errors.Is(err, ErrCouponExists) {
		h.writeError(w, http.StatusConflict, "coupon already exists")
		return
	}
	if err != nil {
		h.logger.Error("failed to create coupon", "error", err, "product_name", coupon.ProductName)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("coupon created", "product_name", coupon.ProductName)
	h.writeJSON(w, http.StatusCreated, coupon)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	coupon, ok := h.decodeCoupon(w, r)
	if !ok {
		return
	}

	err := h.store.Update(r.Context(), coupon)
	if errors.Is(err, domain.ErrCouponNotFound) {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update coupon", "error", err, "product_name", coupon.ProductName)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("coupon updated", "product_name", coupon.ProductName)
	h.writeJSON(w, http.StatusOK, coupon)
}

type deleteResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	productName := r.PathValue("productName")
	if productName == "" {
		h.writeError(w, http.StatusBadRequest, "missing product name")
		return
	}

	deleted, err := h.store.Delete(r.Context(), productName)
	if err != nil {
		h.logger.Error("failed to delete coupon", "error", err, "product_name", productName)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("coupon delete requested", "product_name", productName, "deleted", deleted)
	h.writeJSON(w, http.StatusOK, deleteResponse{Success: deleted})
}

func (h *Handler) decodeCoupon(w http.ResponseWriter, r *http.Request) (*domain.Coupon, bool) {
	var coupon domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if strings.TrimSpace(coupon.ProductName) == "" {
		h.writeError(w, http.StatusBadRequest, "product_name is required")
		return nil, false
	}
	if coupon.Amount.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "amount must not be negative")
		return nil, false
	}
	return &coupon, true
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
