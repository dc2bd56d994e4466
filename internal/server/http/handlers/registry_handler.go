package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// RegistryHandler serves reference data used at checkout.
type RegistryHandler struct {
	facade RegistryFacade
}

// NewRegistryHandler constructs RegistryHandler.
func NewRegistryHandler(facade RegistryFacade) *RegistryHandler {
	return &RegistryHandler{facade: facade}
}

// DeliverySlots handles GET /api/delivery-slots.
func (h *RegistryHandler) DeliverySlots(c *gin.Context) {
	store := strings.TrimSpace(c.Query("store_code"))
	if store == "" {
		respondError(c, domainErrors.MissingField("store_code"))
		return
	}
	slots, err := h.facade.DeliverySlots(c.Request.Context(), store)
	if err != nil {
		respondError(c, err)
		return
	}
	if slots == nil {
		slots = []model.DeliverySlot{}
	}
	c.JSON(http.StatusOK, slots)
}

// PaymentModes handles GET /api/payment-modes.
func (h *RegistryHandler) PaymentModes(c *gin.Context) {
	modes, err := h.facade.PaymentModes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if modes == nil {
		modes = []model.PaymentMode{}
	}
	c.JSON(http.StatusOK, modes)
}

// Addresses handles GET /api/addresses.
func (h *RegistryHandler) Addresses(c *gin.Context) {
	addresses, err := h.facade.Addresses(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, dto.NewAddressResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAddress handles POST /api/addresses.
func (h *RegistryHandler) CreateAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	address, err := h.facade.CreateAddress(c.Request.Context(), CurrentCustomerID(c), req.Model())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAddressResponse(*address))
}
