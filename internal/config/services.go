package config

import "time"

type Discount struct {
	Port        string
	PostgresURL string
}

func LoadDiscount() (Discount, error) {
	cfg := Discount{Port: String("PORT", "8083")}

	var err error
	if cfg.PostgresURL, err = Required("POSTGRES_URL"); err != nil {
		return Discount{}, err
	}
	return cfg, nil
}

type Catalog struct {
	Port     string
	MongoURL string
	Database string
}

func LoadCatalog() (Catalog, error) {
	cfg := Catalog{
		Port:     String("PORT", "8082"),
		Database: String("MONGO_DATABASE", "catalog"),
	}

	var err error
	if cfg.MongoURL, err = Required("MONGO_URL"); err != nil {
		return Catalog{}, err
	}
	return cfg, nil
}

// Ordering configures both the orders API and the checkout consumer that
// runs in the same process.
type Ordering struct {
	Port          string
	PostgresURL   string
	KafkaBrokers  []string
	CheckoutTopic string
	ConsumerGroup string
}

func LoadOrdering() (Ordering, error) {
	cfg := Ordering{
		Port:          String("PORT", "8084"),
		KafkaBrokers:  List("KAFKA_BROKERS"),
		CheckoutTopic: String("CHECKOUT_TOPIC", "basket.checkout"),
		ConsumerGroup: String("CONSUMER_GROUP", "ordering"),
	}

	var err error
	if cfg.PostgresURL, err = Required("POSTGRES_URL"); err != nil {
		return Ordering{}, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Ordering{}, errRequired("KAFKA_BROKERS")
	}
	return cfg, nil
}

type Gateway struct {
	Port        string
	BasketURL   string
	CatalogURL  string
	DiscountURL string
	OrdersURL   string
	Timeout     time.Duration
}

func LoadGateway() (Gateway, error) {
	cfg := Gateway{Port: String("PORT", "8080")}

	var err error
	if cfg.BasketURL, err = Required("BASKET_SERVICE_URL"); err != nil {
		return Gateway{}, err
	}
	if cfg.CatalogURL, err = Required("CATALOG_SERVICE_URL"); err != nil {
		return Gateway{}, err
	}
	if cfg.DiscountURL, err = Required("DISCOUNT_SERVICE_URL"); err != nil {
		return Gateway{}, err
	}
	if cfg.OrdersURL, err = Required("ORDERS_SERVICE_URL"); err != nil {
		return Gateway{}, err
	}
	if cfg.Timeout, err = Duration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return Gateway{}, err
	}
	return cfg, nil
}
