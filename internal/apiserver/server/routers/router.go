package routers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ladp/internal/apiserver/pkg/logger"
	"ladp/internal/apiserver/server/handlers/detection"
	"ladp/internal/apiserver/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	detectionHandler *detection.DetectionHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "ladp",
			"message": "Service is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		detections := v1.Group("/detections")
		{
			detections.POST("", detectionHandler.Create)
			detections.GET("", detectionHandler.List)
			detections.GET("/:id", detectionHandler.Get)
		}
	}

	return r
}
