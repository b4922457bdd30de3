package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	ImageFile   string          `json:"image_file"`
	Price       decimal.Decimal `json:"price"`
}
