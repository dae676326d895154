package router

import (
	"github.com/gin-gonic/gin"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/handler"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	validationH *handler.ValidationHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	validations := v1.Group("/validations")
	validations.POST("", validationH.Upload)
	validations.POST("/s3", validationH.FromObject)

	return r
}
