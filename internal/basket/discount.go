package basket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

// DiscountClient looks up the coupon for a product name. A miss is reported as
// domain.ErrCouponNotFound; any failure to get an answer is
// ErrDependencyUnavailable. A nil coupon with a nil error counts as a miss.
type DiscountClient interface {
	Lookup(ctx context.Context, productName string) (*domain.Coupon, error)
}

type HTTPDiscountClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDiscountClient(baseURL string, client *http.Client) *HTTPDiscountClient {
	return &HTTPDiscountClient{
		baseURL: baseURL,
		client:  client,
	}
}

func (c *HTTPDiscountClient) Lookup(ctx context.Context, productName string) (*domain.Coupon, error) {
	endpoint := c.baseURL + "/discounts/" + url.PathEscape(productName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create discount request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %w", ErrDependencyUnavailable, productName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrCouponNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: discount service returned status %d for %s", ErrDependencyUnavailable, resp.StatusCode, productName)
	}

	var coupon domain.Coupon
	if err := json.NewDecoder(resp.Body).Decode(&coupon); err != nil {
		return nil, fmt.Errorf("%w: decode coupon for %s: %w", ErrDependencyUnavailable, productName, err)
	}
	return &coupon, nil
}
