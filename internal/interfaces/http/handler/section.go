package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stockapp "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/interfaces/http/dto"
)

// SectionHandler handles section allocation API endpoints
type SectionHandler struct {
	BaseHandler
	sections *stockapp.SectionService
}

// NewSectionHandler creates a new SectionHandler
func NewSectionHandler(sections *stockapp.SectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

// Assign handles POST /sections/assignments
func (h *SectionHandler) Assign(c *gin.Context) {
	var req stockapp.AssignStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.AssignedBy == uuid.Nil {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Acting user could not be determined")
			return
		}
		req.AssignedBy = userID
	}

	result, err := h.sections.Assign(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateAssignment handles PUT /sections/assignments/:id
func (h *SectionHandler) UpdateAssignment(c *gin.Context) {
	inventoryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req stockapp.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.UpdatedBy == uuid.Nil {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Acting user could not be determined")
			return
		}
		req.UpdatedBy = userID
	}

	result, err := h.sections.UpdateAssignment(c.Request.Context(), inventoryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveAssignment handles DELETE /sections/assignments/:id
func (h *SectionHandler) RemoveAssignment(c *gin.Context) {
	inventoryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user could not be determined")
		return
	}

	result, err := h.sections.RemoveAssignment(c.Request.Context(), inventoryID, userID, c.Query("notes"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Inventory handles GET /sections/:id/inventory
func (h *SectionHandler) Inventory(c *gin.Context) {
	sectionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	rows, err := h.sections.Get(c.Request.Context(), sectionID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
