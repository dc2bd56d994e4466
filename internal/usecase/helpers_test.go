package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cartItem(code string, quantity int, price string) model.CartItem {
	return model.CartItem{ProductCode: code, Name: "product " + code, Quantity: quantity, UnitPrice: money(price)}
}

func catalogEntry(code, store string, price string, stock, maxQuantity int) model.CatalogEntry {
	return model.CatalogEntry{
		ProductCode: code,
		StoreCode:   store,
		Name:        "product " + code,
		Active:      true,
		Price:       money(price),
		Stock:       stock,
		MaxQuantity: maxQuantity,
	}
}

func cartWith(customerID int64, store string, items ...model.CartItem) *model.Cart {
	cart := model.NewCart(customerID)
	cart.StoreCode = store
	cart.ProjectCode = "P1"
	cart.Items = append(cart.Items, items...)
	cart.Recalculate()
	return cart
}

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}
