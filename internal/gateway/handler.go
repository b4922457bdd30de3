package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// Upstreams holds one proxy per backing service.
type Upstreams struct {
	Basket    *ServiceProxy
	Catalog   *ServiceProxy
	Discounts *ServiceProxy
	Orders    *ServiceProxy
}

type Handler struct {
	upstreams Upstreams
	logger    *slog.Logger
}

func NewHandler(upstreams Upstreams, logger *slog.Logger) *Handler {
	return &Handler{
		upstreams: upstreams,
		logger:    logger,
	}
}

func (h *Handler) HandleBasket(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.upstreams.Basket, r.URL.EscapedPath())
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.upstreams.Catalog, r.URL.EscapedPath())
}

func (h *Handler) HandleDiscounts(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.upstreams.Discounts, r.URL.EscapedPath())
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.upstreams.Orders, r.URL.EscapedPath())
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if location := resp.Header.Get("Location"); location != "" {
		w.Header().Set("Location", location)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
