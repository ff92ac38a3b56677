package router

import (
	"github.com/gin-gonic/gin"
	"github.com/resto/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Stock       *handler.StockHandler
	Section     *handler.SectionHandler
	Consumption *handler.ConsumptionHandler
	Catalog     *handler.CatalogHandler
	Health      *handler.HealthHandler
}

// RegisterAll wires every route group onto the engine. Probe endpoints
// are registered outside the versioned API prefix so load balancers can
// reach them without authentication.
func RegisterAll(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	r := NewRouter(engine, WithAPIVersion("v1"))

	stockRoutes := NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/receipts", h.Stock.Receive)
	stockRoutes.POST("/movements", h.Stock.Move)
	stockRoutes.GET("/levels", h.Stock.Levels)
	stockRoutes.GET("/levels/:id", h.Stock.LevelByMaterial)
	stockRoutes.GET("/entries/expiring", h.Stock.ExpiringEntries)
	stockRoutes.DELETE("/entries/:id", h.Stock.DeleteEntry)
	stockRoutes.GET("/entries/:id/movements", h.Stock.MovementsByEntry)
	stockRoutes.GET("/materials/:id/entries", h.Stock.EntriesByMaterial)
	stockRoutes.GET("/materials/:id/movements", h.Stock.MovementsByMaterial)
	r.Register(stockRoutes)

	sectionRoutes := NewDomainGroup("sections", "/sections")
	sectionRoutes.POST("/assignments", h.Section.Assign)
	sectionRoutes.PUT("/assignments/:id", h.Section.UpdateAssignment)
	sectionRoutes.DELETE("/assignments/:id", h.Section.RemoveAssignment)
	sectionRoutes.GET("/:id/inventory", h.Section.Inventory)
	sectionRoutes.GET("/:id/consumptions", h.Consumption.BySection)
	r.Register(sectionRoutes)

	consumptionRoutes := NewDomainGroup("consumptions", "/consumptions")
	consumptionRoutes.POST("", h.Consumption.Consume)
	consumptionRoutes.GET("/materials/:id", h.Consumption.ByMaterial)
	consumptionRoutes.GET("/orders/:orderId", h.Consumption.ByOrder)
	r.Register(consumptionRoutes)

	catalogRoutes := NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/materials", h.Catalog.CreateMaterial)
	catalogRoutes.GET("/materials", h.Catalog.ListMaterials)
	catalogRoutes.GET("/materials/:id", h.Catalog.GetMaterial)
	catalogRoutes.DELETE("/materials/:id", h.Catalog.DeactivateMaterial)
	catalogRoutes.POST("/sections", h.Catalog.CreateSection)
	catalogRoutes.GET("/sections", h.Catalog.ListSections)
	catalogRoutes.DELETE("/sections/:id", h.Catalog.DeactivateSection)
	r.Register(catalogRoutes)

	r.Setup()
}
