package discount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

// ErrCouponExists is returned when a coupon for the product name already exists.
var ErrCouponExists = errors.New("coupon already exists")

const uniqueViolation = "23505"

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetByProductName(ctx context.Context, productName string) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_name, description, amount
		FROM coupons
		WHERE product_name = $1
	`, productName).Scan(&coupon.ID, &coupon.ProductName, &coupon.Description, &coupon.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coupon %s: %w", productName, err)
	}

	return coupon, nil
}

func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (product_name, description, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`, coupon.ProductName, coupon.Description, coupon.Amount).Scan(&coupon.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrCouponExists, coupon.ProductName)
	}
	if err != nil {
		return fmt.Errorf("create coupon %s: %w", coupon.ProductName, err)
	}
	return nil
}

// Update replaces description and amount of the coupon for coupon.ProductName.
func (r *CouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE coupons SET description = $1, amount = $2, updated_at = NOW()
		WHERE product_name = $3
		RETURNING id
	`, coupon.Description, coupon.Amount, coupon.ProductName).Scan(&coupon.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCouponNotFound
	}
	if err != nil {
		return fmt.Errorf("update coupon %s: %w", coupon.ProductName, err)
	}
	return nil
}

// Delete reports whether a coupon was removed.
func (r *CouponRepository) Delete(ctx context.Context, productName string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM coupons WHERE product_name = $1
	`, productName)
	if err != nil {
		return false, fmt.Errorf("delete coupon %s: %w", productName, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
