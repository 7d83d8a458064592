package api

import (
	"github.com/reeltv/reeltv/internal/api/handlers"
	"github.com/reeltv/reeltv/internal/preferences"
)

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	if s.deps.Hub != nil {
		s.echo.GET("/ws", s.deps.Hub.HandleWebSocket)
	}

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	api.GET("/browse", s.getBrowse)

	grids := api.Group("/grids")
	grids.POST("", s.createGrid)
	grids.POST("/:id/more", s.loadMoreGrid)
	grids.POST("/:id/select", s.selectGridItem)
	grids.DELETE("/:id", s.closeGrid)

	details := api.Group("/details")
	details.POST("", s.openDetails)
	details.POST("/:id/favorite", s.toggleFavorite)
	details.POST("/:id/:kind/more", s.loadMoreRelated)
	details.DELETE("/:id", s.closeDetails)

	api.GET("/cast/:id", s.getCast)

	search := api.Group("/search")
	search.POST("", s.openSearch)
	search.POST("/:id/query", s.updateQuery)
	search.POST("/:id/more", s.loadMoreSearch)
	search.POST("/:id/select", s.selectSearchItem)
	search.GET("/:id/results", s.getSearchResults)
	search.DELETE("/:id", s.closeSearch)

	recs := api.Group("/recommendations")
	recs.GET("", s.getRecommendations)
	recs.GET("/history", s.getRecommendationHistory)
	recs.POST("/refresh", s.refreshRecommendations, s.limiter.Middleware())
	if s.deps.Scheduler != nil {
		recs.POST("/schedule", s.scheduleRecommendations, s.limiter.Middleware())
	}

	api.GET("/permissions", s.getPermissions)
	api.POST("/permissions", s.grantPermissions)

	preferences.NewHandlers(s.deps.Preferences).RegisterRoutes(api.Group("/preferences"))

	if s.deps.Scheduler != nil {
		handlers.NewSchedulerHandler(s.deps.Scheduler).RegisterRoutes(api.Group("/scheduler"))
	}
}
