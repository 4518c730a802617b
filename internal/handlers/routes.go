package handlers

import "github.com/gin-gonic/gin"

// API groups the domain handlers mounted under /api/v1.
type API struct {
	Addresses *AddressHandler
	Hunts     *HuntHandler
	Targets   *TargetPropertyHandler
	Lots      *LotHandler
}

// Register mounts every domain route on v1.
func (a *API) Register(v1 *gin.RouterGroup) {
	v1.POST("/addresses/resolve", a.Addresses.Resolve)

	hunts := v1.Group("/hunts")
	{
		hunts.POST("", a.Hunts.Create)
		hunts.GET("", a.Hunts.List)
		hunts.GET("/:id", a.Hunts.Get)
		hunts.PUT("/:id", a.Hunts.Update)
		hunts.DELETE("/:id", a.Hunts.Delete)
		hunts.GET("/:id/target-properties", a.Hunts.ListTargets)
	}

	targets := v1.Group("/target-property")
	{
		targets.POST("", a.Targets.Create)
		targets.POST("/duplicity-check", a.Targets.CheckDuplicity)
		targets.GET("/:id", a.Targets.Get)
		targets.PUT("/:id", a.Targets.Update)
		targets.DELETE("/:id", a.Targets.Delete)
	}

	lots := v1.Group("/lots")
	{
		lots.GET("/:id", a.Lots.GetLot)
		lots.PUT("/:id", a.Lots.UpdateLot)
		lots.DELETE("/:id", a.Lots.DeleteLot)
		lots.GET("/:id/properties", a.Lots.ListProperties)
	}

	properties := v1.Group("/properties")
	{
		properties.GET("/:id", a.Lots.GetProperty)
		properties.PUT("/:id", a.Lots.UpdateProperty)
		properties.DELETE("/:id", a.Lots.DeleteProperty)
	}
}
