package model

import "github.com/shopspring/decimal"

// CatalogEntry is the live product record of one store.
type CatalogEntry struct {
	ProductCode string
	StoreCode   string
	Name        string
	Active      bool
	Price       decimal.Decimal
	Stock       int
	// MaxQuantity caps a single order line; zero means no cap.
	MaxQuantity int
}
