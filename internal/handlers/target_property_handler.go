package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/househunt/internal/errors"
	"github.com/stwalsh4118/househunt/internal/middleware"
	"github.com/stwalsh4118/househunt/internal/services"
)

// TargetPropertyHandler handles target-property HTTP requests.
type TargetPropertyHandler struct {
	service services.TargetPropertyService
}

// NewTargetPropertyHandler creates a new TargetPropertyHandler instance.
func NewTargetPropertyHandler(service services.TargetPropertyService) *TargetPropertyHandler {
	return &TargetPropertyHandler{service: service}
}

// Create handles POST /api/v1/target-property.
// A duplicate within the hunt answers 409 with the duplicity reason.
func (h *TargetPropertyHandler) Create(c *gin.Context) {
	var req CreateTargetPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	target, err := h.service.CreateTargetProperty(c.Request.Context(), req.ToModel())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusCreated, target)
}

// Get handles GET /api/v1/target-property/:id.
func (h *TargetPropertyHandler) Get(c *gin.Context) {
	target, err := h.service.GetTargetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// Update handles PUT /api/v1/target-property/:id. The address is
// re-resolved on every update.
func (h *TargetPropertyHandler) Update(c *gin.Context) {
	var req UpdateTargetPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	target, err := h.service.UpdateTargetProperty(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// Delete handles DELETE /api/v1/target-property/:id.
func (h *TargetPropertyHandler) Delete(c *gin.Context) {
	c.JSON(http.StatusOK, DeleteResponse{
		Deleted: h.service.DeleteTargetProperty(c.Request.Context(), c.Param("id")),
	})
}

// CheckDuplicity handles POST /api/v1/target-property/duplicity-check.
// It runs the same guard as Create without writing anything.
func (h *TargetPropertyHandler) CheckDuplicity(c *gin.Context) {
	var req DuplicityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	if err := h.service.PreventDuplicity(c.Request.Context(), req.HuntID, req.Address.ToModel()); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			if reason, ok := services.DuplicityReason(err); ok {
				log.Info("Duplicity check matched", map[string]interface{}{
					"hunt_id": req.HuntID,
					"reason":  reason,
				})
			}
		}
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, DuplicityCheckResponse{Duplicate: false})
}
