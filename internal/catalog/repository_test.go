package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

func TestProductDocument(t *testing.T) {
	t.Run("keeps price precision", func(t *testing.T) {
		product := &domain.Product{
			ID:       "65f1a2b3c4d5e6f708192a3b",
			Name:     "Phone X",
			Category: "Smart Phone",
			Price:    decimal.RequireFromString("950.40"),
		}

		doc, err := toDocument(product)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		back, err := doc.toProduct()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back.ID != product.ID || back.Name != product.Name || back.Category != product.Category {
			t.Errorf("fields changed: %+v", back)
		}
		if !back.Price.Equal(product.Price) {
			t.Errorf("expected price %s, got %s", product.Price, back.Price)
		}
	})

	t.Run("empty id stays unset", func(t *testing.T) {
		doc, err := toDocument(&domain.Product{Name: "Case"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !doc.ID.IsZero() {
			t.Errorf("expected zero object id, got %s", doc.ID.Hex())
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		_, err := toDocument(&domain.Product{ID: "not-hex", Name: "Case"})
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("expected ErrInvalidID, got %v", err)
		}
	})
}
