package config

import "time"

// Basket holds the basket service settings. Each dependency gets its own
// call timeout.
type Basket struct {
	Port          string
	RedisURL      string
	KafkaBrokers  []string
	CheckoutTopic string
	DiscountURL   string
	CartTTL       time.Duration

	StoreTimeout    time.Duration
	DiscountTimeout time.Duration
	PublishTimeout  time.Duration
	MaxLookups      int
}

func LoadBasket() (Basket, error) {
	cfg := Basket{
		Port:          String("PORT", "8081"),
		CheckoutTopic: String("CHECKOUT_TOPIC", "basket.checkout"),
		KafkaBrokers:  List("KAFKA_BROKERS"),
	}

	var err error
	if cfg.RedisURL, err = Required("REDIS_URL"); err != nil {
		return Basket{}, err
	}
	if cfg.DiscountURL, err = Required("DISCOUNT_SERVICE_URL"); err != nil {
		return Basket{}, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Basket{}, errRequired("KAFKA_BROKERS")
	}
	if cfg.CartTTL, err = Duration("CART_TTL", 0); err != nil {
		return Basket{}, err
	}
	if cfg.StoreTimeout, err = Duration("STORE_TIMEOUT", 2*time.Second); err != nil {
		return Basket{}, err
	}
	if cfg.DiscountTimeout, err = Duration("DISCOUNT_TIMEOUT", 2*time.Second); err != nil {
		return Basket{}, err
	}
	if cfg.PublishTimeout, err = Duration("PUBLISH_TIMEOUT", 5*time.Second); err != nil {
		return Basket{}, err
	}
	if cfg.MaxLookups, err = Int("MAX_CONCURRENT_LOOKUPS", 8); err != nil {
		return Basket{}, err
	}
	return cfg, nil
}
