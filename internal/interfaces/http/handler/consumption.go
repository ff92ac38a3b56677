package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stockapp "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/interfaces/http/dto"
)

// ConsumptionHandler handles section consumption API endpoints
type ConsumptionHandler struct {
	BaseHandler
	consumption *stockapp.ConsumptionService
}

// NewConsumptionHandler creates a new ConsumptionHandler
func NewConsumptionHandler(consumption *stockapp.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{consumption: consumption}
}

// Consume handles POST /sections/consume
func (h *ConsumptionHandler) Consume(c *gin.Context) {
	var req stockapp.ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.ConsumedBy == uuid.Nil {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Acting user could not be determined")
			return
		}
		req.ConsumedBy = userID
	}

	result, err := h.consumption.Consume(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BySection handles GET /sections/:id/consumptions
func (h *ConsumptionHandler) BySection(c *gin.Context) {
	sectionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	rows, err := h.consumption.ConsumptionsBySection(c.Request.Context(), sectionID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ByMaterial handles GET /stock/materials/:id/consumptions
func (h *ConsumptionHandler) ByMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	rows, err := h.consumption.ConsumptionsByMaterial(c.Request.Context(), materialID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ByOrder handles GET /consumptions/orders/:orderId
func (h *ConsumptionHandler) ByOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		h.BadRequest(c, "Order identifier is required")
		return
	}

	rows, err := h.consumption.ConsumptionsByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
