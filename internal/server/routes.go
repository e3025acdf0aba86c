package server

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/david50407/obs-studio/internal/server/handlers"
)

// setupRoutes mounts every API route under /api
func setupRoutes(r *gin.Engine, deps Dependencies, logger hclog.Logger) {
	modules := handlers.NewModulesHandler(deps.Modules)
	history := handlers.NewHistoryHandler(deps.History)
	system := handlers.NewSystemHandler(deps.RunID, logger)
	eventsHandler := handlers.NewEventsHandler(deps.Events, logger)

	api := r.Group("/api")
	{
		api.GET("", listRoutes(r))
		api.GET("/health", system.Health)
		api.GET("/stats", modules.GetStats)

		moduleGroup := api.Group("/modules")
		{
			moduleGroup.GET("", modules.ListModules)
			moduleGroup.GET("/:name", modules.GetModule)
			moduleGroup.POST("/:name/load", modules.LoadModule)
			moduleGroup.GET("/:name/file", modules.FindFile)
			moduleGroup.GET("/:name/locale", modules.GetLocale)
		}

		typeGroup := api.Group("/types")
		{
			typeGroup.GET("", modules.ListTypes)
			typeGroup.GET("/:category", modules.ListTypes)
		}

		api.GET("/history", history.GetHistory)

		eventGroup := api.Group("/events")
		{
			eventGroup.GET("", eventsHandler.GetEvents)
			eventGroup.GET("/stream", eventsHandler.Stream)
		}
	}
}

// listRoutes describes the mounted routes
func listRoutes(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := r.Routes()
		out := make([]gin.H, 0, len(routes))
		for _, route := range routes {
			out = append(out, gin.H{"method": route.Method, "path": route.Path})
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i]["path"].(string) < out[j]["path"].(string)
		})
		c.JSON(http.StatusOK, gin.H{"routes": out})
	}
}
