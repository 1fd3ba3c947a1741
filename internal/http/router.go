// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"covoit/internal/config"
	"covoit/internal/http/handlers"
	"covoit/internal/http/middleware"
	"covoit/internal/modules/matching"
	"covoit/internal/modules/profile"
)

func NewRouter(
	profileService *profile.Service,
	engine *matching.Engine,
	results *matching.Store,
	cfg config.MatchingConfig,
	logger *slog.Logger,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Default())

	profileHandler := handlers.NewProfileHandler(profileService)
	r.PUT("/api/profiles/:id", profileHandler.Upsert)
	r.GET("/api/profiles/:id", profileHandler.Get)

	matchHandler := handlers.NewMatchHandler(engine, profileService, results, cfg, logger)
	r.GET("/api/profiles/:id/matches", matchHandler.Compute)
	r.GET("/api/profiles/:id/matches/latest", matchHandler.Latest)
	r.GET("/api/profiles/:id/matches/stream", matchHandler.Stream)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
