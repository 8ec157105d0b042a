package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docindex/internal/middleware"
)

type RouterDeps struct {
	Sync      *SyncHandler
	Search    *SearchHandler
	Organize  *OrganizeHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.POST("/sync", deps.Sync.Sync)
	authGroup.GET("/status", deps.Sync.Status)
	authGroup.GET("/search", deps.Search.Search)
	authGroup.POST("/organize/analyze", deps.Organize.Analyze)
	authGroup.POST("/organize/execute", deps.Organize.Execute)
}
