package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartItem is a cart line as exchanged with clients.
type CartItem struct {
	ProductCode string          `json:"p_code" binding:"required"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity" binding:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PackageSize string          `json:"package_size,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	StoreCode   string          `json:"store_code,omitempty"`
}

// Model converts the payload to a domain cart item.
func (i CartItem) Model() model.CartItem {
	return model.CartItem{
		ProductCode: i.ProductCode,
		Name:        i.Name,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		PackageSize: i.PackageSize,
		Unit:        i.Unit,
		Brand:       i.Brand,
		ImageURL:    i.ImageURL,
		StoreCode:   i.StoreCode,
	}
}

// SaveCartRequest replaces the whole cart.
type SaveCartRequest struct {
	StoreCode       string     `json:"store_code" binding:"required"`
	ProjectCode     string     `json:"project_code" binding:"required"`
	Items           []CartItem `json:"items" binding:"dive"`
	ExpectedVersion *int64     `json:"expected_version" binding:"omitempty,min=0"`
}

// AddItemRequest upserts one line.
type AddItemRequest struct {
	StoreCode   string   `json:"store_code" binding:"required"`
	ProjectCode string   `json:"project_code" binding:"required"`
	Item        CartItem `json:"item"`
}

// CartResponse is the cart snapshot returned to clients.
type CartResponse struct {
	StoreCode     string           `json:"store_code"`
	ProjectCode   string           `json:"project_code"`
	Items         []model.CartItem `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	TotalItems    int              `json:"total_items"`
	TotalQuantity int              `json:"total_quantity"`
	Version       int64            `json:"version"`
	LastUpdated   *time.Time       `json:"last_updated,omitempty"`
}

// NewCartResponse maps a domain cart.
func NewCartResponse(cart *model.Cart) CartResponse {
	resp := CartResponse{
		StoreCode:     cart.StoreCode,
		ProjectCode:   cart.ProjectCode,
		Items:         cart.Items,
		Subtotal:      cart.Subtotal,
		TotalItems:    cart.TotalItems,
		TotalQuantity: cart.TotalQuantity,
		Version:       cart.Version,
	}
	if resp.Items == nil {
		resp.Items = []model.CartItem{}
	}
	if !cart.LastUpdated.IsZero() {
		updated := cart.LastUpdated
		resp.LastUpdated = &updated
	}
	return resp
}

// ValidateCartRequest names the store whose catalog is checked.
type ValidateCartRequest struct {
	StoreCode   string `json:"store_code" binding:"required"`
	ProjectCode string `json:"project_code" binding:"required"`
}

// InvalidItem describes a line that cannot be ordered.
type InvalidItem struct {
	ProductCode string `json:"p_code"`
	Name        string `json:"name"`
	Requested   int    `json:"requested_quantity"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
	Available   *int   `json:"available_stock,omitempty"`
	MaxAllowed  *int   `json:"max_allowed,omitempty"`
}

// UpdatedItem describes a price drift.
type UpdatedItem struct {
	ProductCode string          `json:"p_code"`
	Name        string          `json:"name"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	Delta       decimal.Decimal `json:"price_difference"`
}

// ValidationResponse is the verdict of a cart validation.
type ValidationResponse struct {
	Valid        bool          `json:"valid"`
	TotalItems   int           `json:"totalItems"`
	ValidItems   int           `json:"validItems"`
	InvalidItems []InvalidItem `json:"invalidItems"`
	UpdatedItems []UpdatedItem `json:"updatedItems"`
}

// NewValidationResponse maps a verdict. Lists are never null.
func NewValidationResponse(v model.ValidationVerdict) ValidationResponse {
	resp := ValidationResponse{
		Valid:        v.Valid,
		TotalItems:   v.TotalItems,
		ValidItems:   v.ValidItems,
		InvalidItems: make([]InvalidItem, 0, len(v.InvalidItems)),
		UpdatedItems: make([]UpdatedItem, 0, len(v.UpdatedItems)),
	}
	for _, item := range v.InvalidItems {
		resp.InvalidItems = append(resp.InvalidItems, InvalidItem{
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Requested:   item.Requested,
			Reason:      string(item.Reason),
			Message:     item.Reason.Message(),
			Available:   item.Available,
			MaxAllowed:  item.MaxAllowed,
		})
	}
	for _, item := range v.UpdatedItems {
		resp.UpdatedItems = append(resp.UpdatedItems, UpdatedItem{
			ProductCode: item.ProductCode,
			Name:        item.Name,
			OldPrice:    item.OldPrice,
			NewPrice:    item.NewPrice,
			Delta:       item.Delta,
		})
	}
	return resp
}
