package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stockapp "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock ledger API endpoints. Write operations reply
// with the structured result envelope: expected business refusals come back
// as HTTP 200 with success=false and a human-readable message.
type StockHandler struct {
	BaseHandler
	ledger *stockapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *stockapp.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Receive handles POST /stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	var req stockapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.ReceivedBy == uuid.Nil {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Acting user could not be determined")
			return
		}
		req.ReceivedBy = userID
	}

	result, err := h.ledger.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Move handles POST /stock/movements
func (h *StockHandler) Move(c *gin.Context) {
	var req stockapp.MoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.PerformedBy == uuid.Nil {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Acting user could not be determined")
			return
		}
		req.PerformedBy = userID
	}

	result, err := h.ledger.Move(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteEntry handles DELETE /stock/entries/:id
func (h *StockHandler) DeleteEntry(c *gin.Context) {
	entryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	result, err := h.ledger.DeleteEntry(c.Request.Context(), entryID, force)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Levels handles GET /stock/levels
func (h *StockHandler) Levels(c *gin.Context) {
	lowOnly := c.Query("low") == "true"

	levels, err := h.ledger.AllLevels(c.Request.Context(), lowOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// LevelByMaterial handles GET /stock/levels/:id
func (h *StockHandler) LevelByMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	level, err := h.ledger.CurrentLevel(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// EntriesByMaterial handles GET /stock/materials/:id/entries
func (h *StockHandler) EntriesByMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.ledger.EntriesByMaterial(c.Request.Context(), materialID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MovementsByMaterial handles GET /stock/materials/:id/movements
func (h *StockHandler) MovementsByMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.ledger.MovementsByMaterial(c.Request.Context(), materialID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MovementsByEntry handles GET /stock/entries/:id/movements
func (h *StockHandler) MovementsByEntry(c *gin.Context) {
	entryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	movements, err := h.ledger.MovementsByEntry(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// ExpiringEntries handles GET /stock/entries/expiring
func (h *StockHandler) ExpiringEntries(c *gin.Context) {
	cutoff := time.Now().AddDate(0, 0, 7)
	if before := c.Query("before"); before != "" {
		parsed, err := parseDateTime(before)
		if err != nil {
			h.BadRequest(c, "Invalid before parameter: expected a date")
			return
		}
		cutoff = parsed
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	entries, err := h.ledger.ExpiringEntries(c.Request.Context(), cutoff, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// parseDateTime parses a datetime string in the formats clients send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
