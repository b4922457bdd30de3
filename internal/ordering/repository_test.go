package ordering

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

func newMockRepository(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewOrderRepository(db), mock
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		CorrelationID: "corr-1",
		UserName:      "alice",
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "A", Quantity: 2, Price: decimal.NewFromInt(10), DiscountAmount: decimal.NewFromInt(3)},
		},
		Total:     decimal.NewFromInt(14),
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOrderRepository_Record(t *testing.T) {
	t.Run("inserts order and items", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
			WithArgs(sqlmock.AnyArg(), "corr-1", "alice", domain.OrderStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "p1", "A", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order := sampleOrder()
		recorded, err := repo.Record(context.Background(), order)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !recorded {
			t.Errorf("expected order to be recorded")
		}
		if order.ID == "" {
			t.Errorf("expected order id to be assigned")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("skips duplicate correlation id", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (correlation_id) DO NOTHING`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		recorded, err := repo.Record(context.Background(), sampleOrder())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recorded {
			t.Errorf("expected duplicate to be skipped")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("item failure rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		if _, err := repo.Record(context.Background(), sampleOrder()); err == nil {
			t.Fatal("expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	t.Run("returns order with items", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, correlation_id, user_name, status, total, created_at`)).
			WithArgs("o1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "correlation_id", "user_name", "status", "total", "created_at"}).
				AddRow("o1", "corr-1", "alice", "pending", "14", created))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, product_name, quantity, price, discount_amount`)).
			WithArgs("o1").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "quantity", "price", "discount_amount"}).
				AddRow("p1", "A", 2, "10", "3"))

		order, err := repo.GetByID(context.Background(), "o1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.CorrelationID != "corr-1" || !order.Total.Equal(decimal.NewFromInt(14)) {
			t.Errorf("unexpected order: %+v", order)
		}
		if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
			t.Errorf("unexpected items: %+v", order.Items)
		}
	})

	t.Run("missing order is nil", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"id", "correlation_id", "user_name", "status", "total", "created_at"}))

		order, err := repo.GetByID(context.Background(), "nope")
		if err != nil || order != nil {
			t.Errorf("expected nil order and no error, got %+v, %v", order, err)
		}
	})
}

func TestOrderRepository_List(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
			WithArgs("").
			WillReturnRows(sqlmock.NewRows([]string{"id", "correlation_id", "user_name", "status", "total", "created_at"}))

		orders, err := repo.List(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if orders == nil || len(orders) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", orders)
		}
	})

	t.Run("attaches items to their orders", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "correlation_id", "user_name", "status", "total", "created_at"}).
				AddRow("o2", "corr-2", "alice", "pending", "5", now).
				AddRow("o1", "corr-1", "alice", "confirmed", "14", now.Add(-time.Hour)))
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE order_id = ANY($1)`)).
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "product_name", "quantity", "price", "discount_amount"}).
				AddRow("o1", "p1", "A", 2, "10", "3").
				AddRow("o2", "p2", "B", 1, "5", "0"))

		orders, err := repo.List(context.Background(), "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 2 || orders[0].ID != "o2" {
			t.Fatalf("unexpected orders: %+v", orders)
		}
		if len(orders[0].Items) != 1 || orders[0].Items[0].ProductID != "p2" {
			t.Errorf("unexpected items for o2: %+v", orders[0].Items)
		}
		if len(orders[1].Items) != 1 || orders[1].Items[0].ProductID != "p1" {
			t.Errorf("unexpected items for o1: %+v", orders[1].Items)
		}
	})
}
