package discount

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

type memCoupons struct {
	coupons map[string]domain.Coupon
	nextID  int64
	err     error
}

func newMemCoupons(coupons ...domain.Coupon) *memCoupons {
	m := &memCoupons{coupons: make(map[string]domain.Coupon)}
	for _, c := range coupons {
		m.nextID++
		c.ID = m.nextID
		m.coupons[c.ProductName] = c
	}
	return m
}

func (m *memCoupons) GetByProductName(_ context.Context, productName string) (*domain.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.coupons[productName]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return &c, nil
}

func (m *memCoupons) Create(_ context.Context, coupon *domain.Coupon) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.coupons[coupon.ProductName]; ok {
		return ErrCouponExists
	}
	m.nextID++
	coupon.ID = m.nextID
	m.coupons[coupon.ProductName] = *coupon
	return nil
}

func (m *memCoupons) Update(_ context.Context, coupon *domain.Coupon) error {
	if m.err != nil {
		return m.err
	}
	existing, ok := m.coupons[coupon.ProductName]
	if !ok {
		return domain.ErrCouponNotFound
	}
	coupon.ID = existing.ID
	m.coupons[coupon.ProductName] = *coupon
	return nil
}

func (m *memCoupons) Delete(_ context.Context, productName string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.coupons[productName]
	delete(m.coupons, productName)
	return ok, nil
}

func newTestMux(store CouponStore) *http.ServeMux {
	h := NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /discounts/{productName}", h.HandleGet)
	mux.HandleFunc("POST /discounts", h.HandleCreate)
	mux.HandleFunc("PUT /discounts", h.HandleUpdate)
	mux.HandleFunc("DELETE /discounts/{productName}", h.HandleDelete)
	return mux
}

func TestHandler_HandleGet(t *testing.T) {
	store := newMemCoupons(domain.Coupon{ProductName: "Phone X", Description: "promo", Amount: decimal.NewFromInt(2)})

	t.Run("returns coupon", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/discounts/Phone%20X", nil)
		rec := httptest.NewRecorder()
		newTestMux(store).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var coupon domain.Coupon
		if err := json.NewDecoder(rec.Body).Decode(&coupon); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if coupon.ProductName != "Phone X" || !coupon.Amount.Equal(decimal.NewFromInt(2)) {
			t.Errorf("unexpected coupon: %+v", coupon)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/discounts/Case", nil)
		rec := httptest.NewRecorder()
		newTestMux(store).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 500 on repository failure", func(t *testing.T) {
		failing := newMemCoupons()
		failing.err = errors.New("connection reset")

		req := httptest.NewRequest(http.MethodGet, "/discounts/Case", nil)
		rec := httptest.NewRecorder()
		newTestMux(failing).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"creates coupon", `{"product_name":"Case","description":"d","amount":"1.5"}`, http.StatusCreated},
		{"duplicate", `{"product_name":"Phone","amount":"1"}`, http.StatusConflict},
		{"missing product name", `{"amount":"1"}`, http.StatusBadRequest},
		{"negative amount", `{"product_name":"Case","amount":"-1"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemCoupons(domain.Coupon{ProductName: "Phone"})

			req := httptest.NewRequest(http.MethodPost, "/discounts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestMux(store).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandler_HandleUpdate(t *testing.T) {
	t.Run("updates coupon", func(t *testing.T) {
		store := newMemCoupons(domain.Coupon{ProductName: "Phone", Amount: decimal.NewFromInt(1)})

		req := httptest.NewRequest(http.MethodPut, "/discounts", strings.NewReader(`{"product_name":"Phone","amount":"4"}`))
		rec := httptest.NewRecorder()
		newTestMux(store).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !store.coupons["Phone"].Amount.Equal(decimal.NewFromInt(4)) {
			t.Errorf("expected amount 4, got %s", store.coupons["Phone"].Amount)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/discounts", strings.NewReader(`{"product_name":"Case","amount":"4"}`))
		rec := httptest.NewRecorder()
		newTestMux(newMemCoupons()).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleDelete(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing coupon", "/discounts/Phone", true},
		{"missing coupon", "/discounts/Case", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemCoupons(domain.Coupon{ProductName: "Phone"})

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			rec := httptest.NewRecorder()
			newTestMux(store).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			var body deleteResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Success != tt.want {
				t.Errorf("expected success %v, got %v", tt.want, body.Success)
			}
		})
	}
}
