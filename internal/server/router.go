// Package server assembles the HTTP routes of the inventory API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/services"
)

// Services bundles what the routes need.
type Services struct {
	Resources   services.ResourceServicer
	Transfer    services.TransferServicer
	Preferences services.PreferenceServicer
	Operations  services.OperationServicer
	Dashboard   services.DashboardServicer
	Users       services.UserServicer
}

// Options tunes the router.
type Options struct {
	// ServiceKey guards POST /operations. Empty disables the route.
	ServiceKey string
	// Swagger mounts the API docs at /swagger.
	Swagger bool
}

// NewRouter builds the Gin engine with middleware and every route.
func NewRouter(svc Services, opts Options) *gin.Engine {
	resourceHandler := handlers.NewResourceHandler(svc.Resources)
	transferHandler := handlers.NewTransferHandler(svc.Transfer)
	viewHandler := handlers.NewViewHandler(svc.Preferences)
	operationHandler := handlers.NewOperationHandler(svc.Operations)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	profileHandler := handlers.NewProfileHandler(svc.Users)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Power-control service
	v1.POST("/operations", middleware.ServiceKeyMiddleware(opts.ServiceKey), operationHandler.RecordOperation)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.TrackUsers(svc.Users))

	protected.GET("/profile", profileHandler.GetProfile)

	protected.GET("/dashboard", dashboardHandler.Summary)
	protected.GET("/resources", resourceHandler.ListSchemas)

	resources := protected.Group("/resources/:resource")
	resources.GET("", resourceHandler.List)
	resources.GET("/filter-options", resourceHandler.FilterOptions)
	resources.GET("/records/:id", resourceHandler.Get)
	resources.POST("/records", resourceHandler.Create)
	resources.PUT("/records/:id", resourceHandler.Update)
	resources.DELETE("/records/:id", resourceHandler.Delete)
	resources.POST("/bulk-delete", resourceHandler.BulkDelete)
	resources.POST("/bulk-edit", resourceHandler.BulkEdit)
	resources.POST("/import", transferHandler.Import)
	resources.GET("/export", transferHandler.Export)
	resources.GET("/view", viewHandler.GetView)
	resources.PUT("/view", viewHandler.SaveView)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
