package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/househunt/internal/errors"
	"github.com/stwalsh4118/househunt/internal/middleware"
	"github.com/stwalsh4118/househunt/internal/services"
)

// AddressHandler exposes the address resolver.
type AddressHandler struct {
	resolver services.AddressResolver
}

// NewAddressHandler creates a new AddressHandler instance.
func NewAddressHandler(resolver services.AddressResolver) *AddressHandler {
	return &AddressHandler{resolver: resolver}
}

// Resolve handles POST /api/v1/addresses/resolve.
// It finds or creates the lot and property of the posted address.
func (h *AddressHandler) Resolve(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	res, err := h.resolver.Resolve(c.Request.Context(), req.ToModel())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Address resolved", map[string]interface{}{
			"lot_id":           res.Lot.ID,
			"property_id":      res.Property.ID,
			"lot_created":      res.LotCreated,
			"property_created": res.PropertyCreated,
		})
	}

	c.JSON(http.StatusOK, ResolveAddressResponse{
		Lot:             res.Lot,
		Property:        res.Property,
		LotCreated:      res.LotCreated,
		PropertyCreated: res.PropertyCreated,
	})
}
