package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders/place.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), usecase.PlaceOrderInput{
		CustomerID:          CurrentCustomerID(c),
		StoreCode:           req.StoreCode,
		ProjectCode:         req.ProjectCode,
		CartValidated:       req.CartValidated,
		DeliverySlotID:      req.DeliverySlotID,
		DeliveryDate:        req.DeliveryDate,
		AddressID:           req.AddressID,
		PaymentModeID:       req.PaymentModeID,
		Notes:               req.Notes,
		PaymentDetails:      req.PaymentDetails,
		ExpectedCartVersion: req.ExpectedCartVersion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPlaceOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.NewOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:number.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentCustomerID(c), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// UpdateStatus handles PATCH /api/orders/:number/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("number"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// Delete handles DELETE /api/orders/:number.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("number")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
