package router

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/vendora/taxengine/internal/api/v1"
	"github.com/vendora/taxengine/internal/rest/middleware"
)

func SetupRouter(taxHandler *v1.TaxHandler, healthHandler *v1.HealthHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", healthHandler.Health)

	taxes := router.Group("/v1/taxes")
	{
		taxes.POST("/calculate", taxHandler.CalculateTax)
		taxes.GET("/rates", taxHandler.ListRates)
	}

	return router
}
