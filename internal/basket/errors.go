package basket

import "errors"

// Client errors. Never worth retrying unchanged.
var (
	ErrValidation  = errors.New("invalid basket")
	ErrEmptyBasket = errors.New("basket is empty")
)

// Dependency errors. Nothing was committed, the caller may retry.
var (
	ErrStoreUnavailable      = errors.New("basket store unavailable")
	ErrDependencyUnavailable = errors.New("discount service unavailable")
	ErrEnrichmentFailed      = errors.New("basket enrichment failed")
	ErrPublishFailed         = errors.New("event publish failed")
	ErrCheckoutPublishFailed = errors.New("checkout publish failed")
)

// ErrCheckoutIncomplete means the checkout event was published but the basket
// could not be removed afterwards. The checkout happened; do not retry it.
var ErrCheckoutIncomplete = errors.New("checkout published but basket not cleared")
