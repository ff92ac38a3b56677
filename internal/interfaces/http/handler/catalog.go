package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/resto/backend/internal/application/catalog"
	"github.com/resto/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles material and section reference data endpoints
type CatalogHandler struct {
	BaseHandler
	catalog *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateMaterial handles POST /materials
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req catalogapp.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.catalog.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, material)
}

// GetMaterial handles GET /materials/:id
func (h *CatalogHandler) GetMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.catalog.GetMaterial(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// ListMaterials handles GET /materials
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	materials, err := h.catalog.ListMaterials(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, materials)
}

// DeactivateMaterial handles DELETE /materials/:id
func (h *CatalogHandler) DeactivateMaterial(c *gin.Context) {
	materialID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeactivateMaterial(c.Request.Context(), materialID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateSectionRequest describes a new section
type CreateSectionRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// CreateSection handles POST /sections
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	section, err := h.catalog.CreateSection(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, section)
}

// ListSections handles GET /sections
func (h *CatalogHandler) ListSections(c *gin.Context) {
	sections, err := h.catalog.ListSections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sections)
}

// DeactivateSection handles DELETE /sections/:id
func (h *CatalogHandler) DeactivateSection(c *gin.Context) {
	sectionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeactivateSection(c.Request.Context(), sectionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
