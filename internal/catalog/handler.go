package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	store  ProductStore
	logger *slog.Logger
}

func NewHandler(store ProductStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	products, err := h.store.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list products by category", "error", err, "category", category)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.store.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	case errors.Is(err, ErrProductNotFound):
		h.logger.Warn("product not found", "product_id", id)
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	case err != nil:
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	err := h.store.Create(r.Context(), product)
	if errors.Is(err, ErrInvalidID) {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err != nil {
		h.logger.Error("failed to create product", "error", err, "name", product.Name)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	w.Header().Set("Location", "/catalog/"+product.ID)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	updated, err := h.store.Update(r.Context(), product)
	if errors.Is(err, ErrInvalidID) {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", product.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("product updated", "product_id", product.ID)
	h.writeJSON(w, http.StatusOK, product)
}

type deleteResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.store.Delete(r.Context(), id)
	if errors.Is(err, ErrInvalidID) {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product delete requested", "product_id", id, "deleted", deleted)
	h.writeJSON(w, http.StatusOK, deleteResponse{Success: deleted})
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if strings.TrimSpace(product.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	if product.Price.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "price must not be negative")
		return nil, false
	}
	return &product, true
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
