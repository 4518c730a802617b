package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/househunt/internal/errors"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/services"
)

// LotHandler serves the shared lots and properties.
type LotHandler struct {
	service services.LotService
}

// NewLotHandler creates a new LotHandler instance.
func NewLotHandler(service services.LotService) *LotHandler {
	return &LotHandler{service: service}
}

// GetLot handles GET /api/v1/lots/:id.
func (h *LotHandler) GetLot(c *gin.Context) {
	lot, err := h.service.GetLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, lot)
}

// UpdateLot handles PUT /api/v1/lots/:id. Moving a lot onto the identity
// of another lot is refused.
func (h *LotHandler) UpdateLot(c *gin.Context) {
	var req UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	lot, err := h.service.UpdateLot(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, lot)
}

// DeleteLot handles DELETE /api/v1/lots/:id.
func (h *LotHandler) DeleteLot(c *gin.Context) {
	c.JSON(http.StatusOK, DeleteResponse{
		Deleted: h.service.DeleteLot(c.Request.Context(), c.Param("id")),
	})
}

// ListProperties handles GET /api/v1/lots/:id/properties.
func (h *LotHandler) ListProperties(c *gin.Context) {
	properties, err := h.service.ListLotProperties(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}

	c.JSON(http.StatusOK, PropertyListResponse{Properties: properties, Count: len(properties)})
}

// GetProperty handles GET /api/v1/properties/:id.
func (h *LotHandler) GetProperty(c *gin.Context) {
	property, err := h.service.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// UpdateProperty handles PUT /api/v1/properties/:id.
func (h *LotHandler) UpdateProperty(c *gin.Context) {
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	property, err := h.service.UpdateProperty(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /api/v1/properties/:id.
func (h *LotHandler) DeleteProperty(c *gin.Context) {
	c.JSON(http.StatusOK, DeleteResponse{
		Deleted: h.service.DeleteProperty(c.Request.Context(), c.Param("id")),
	})
}
