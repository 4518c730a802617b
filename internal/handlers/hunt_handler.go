package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/househunt/internal/errors"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/services"
)

// HuntHandler handles hunt-related HTTP requests.
type HuntHandler struct {
	hunts   services.HuntService
	targets services.TargetPropertyService
}

// NewHuntHandler creates a new HuntHandler instance.
func NewHuntHandler(hunts services.HuntService, targets services.TargetPropertyService) *HuntHandler {
	return &HuntHandler{hunts: hunts, targets: targets}
}

// Create handles POST /api/v1/hunts.
func (h *HuntHandler) Create(c *gin.Context) {
	var req CreateHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	hunt, err := h.hunts.CreateHunt(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusCreated, hunt)
}

// List handles GET /api/v1/hunts.
func (h *HuntHandler) List(c *gin.Context) {
	hunts, err := h.hunts.ListHunts(c.Request.Context())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if hunts == nil {
		hunts = []models.Hunt{}
	}

	c.JSON(http.StatusOK, HuntListResponse{Hunts: hunts, Count: len(hunts)})
}

// Get handles GET /api/v1/hunts/:id.
func (h *HuntHandler) Get(c *gin.Context) {
	hunt, err := h.hunts.GetOneHuntByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, hunt)
}

// Update handles PUT /api/v1/hunts/:id.
func (h *HuntHandler) Update(c *gin.Context) {
	var req UpdateHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	hunt, err := h.hunts.UpdateHunt(c.Request.Context(), c.Param("id"), models.HuntPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, hunt)
}

// Delete handles DELETE /api/v1/hunts/:id. The hunt's target properties
// are removed with it; lots and properties are shared and stay.
func (h *HuntHandler) Delete(c *gin.Context) {
	c.JSON(http.StatusOK, DeleteResponse{
		Deleted: h.hunts.DeleteHunt(c.Request.Context(), c.Param("id")),
	})
}

// ListTargets handles GET /api/v1/hunts/:id/target-properties.
func (h *HuntHandler) ListTargets(c *gin.Context) {
	targets, err := h.targets.ListTargetPropertiesByHunt(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if targets == nil {
		targets = []models.TargetProperty{}
	}

	c.JSON(http.StatusOK, TargetPropertyListResponse{TargetProperties: targets, Count: len(targets)})
}
