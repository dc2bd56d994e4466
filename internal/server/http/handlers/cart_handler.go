package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// CartHandler manages the customer's cart.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// Save handles PUT /api/cart.
func (h *CartHandler) Save(c *gin.Context) {
	var req dto.SaveCartRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.Model())
	}
	cart, err := h.facade.SaveCart(c.Request.Context(), usecase.SaveCartInput{
		CustomerID:      CurrentCustomerID(c),
		StoreCode:       req.StoreCode,
		ProjectCode:     req.ProjectCode,
		Items:           items,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	cart, err := h.facade.AddCartItem(c.Request.Context(), CurrentCustomerID(c), req.StoreCode, req.ProjectCode, req.Item.Model())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), CurrentCustomerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Validate handles POST /api/cart/validate.
func (h *CartHandler) Validate(c *gin.Context) {
	var req dto.ValidateCartRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	verdict, err := h.facade.ValidateCart(c.Request.Context(), CurrentCustomerID(c), req.StoreCode, req.ProjectCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewValidationResponse(verdict))
}
