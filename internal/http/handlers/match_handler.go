// README: Match handlers: on-demand computation and cached latest results.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"covoit/internal/config"
	"covoit/internal/modules/matching"
	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

type MatchHandler struct {
	engine   *matching.Engine
	profiles *profile.Service
	results  *matching.Store
	cfg      config.MatchingConfig
	logger   *slog.Logger
}

func NewMatchHandler(engine *matching.Engine, profiles *profile.Service, results *matching.Store, cfg config.MatchingConfig, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{engine: engine, profiles: profiles, results: results, cfg: cfg, logger: logger}
}

// Compute runs a fresh matching computation over the current pool
// snapshot for the requesting user.
func (h *MatchHandler) Compute(c *gin.Context) {
	id := types.ID(c.Param("id"))
	day, tod, maxDetour, ok := h.query(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	self, err := h.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	pool, err := h.profiles.Pool(ctx, day)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "candidate pool unavailable"})
		return
	}

	set, err := h.engine.ComputeMatches(ctx, *self, pool, day, tod, maxDetour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	// Write-through so Latest serves this result until a feed
	// supersedes it. Best effort; the response does not depend on it.
	_ = h.results.SetLatest(ctx, set)
	c.JSON(http.StatusOK, set)
}

// Latest returns the most recently published match set for the user,
// if a feed has produced one.
func (h *MatchHandler) Latest(c *gin.Context) {
	id := types.ID(c.Param("id"))
	day, tod, _, ok := h.query(c)
	if !ok {
		return
	}
	set, found, err := h.results.GetLatest(c.Request.Context(), id, day, tod)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no match results yet"})
		return
	}
	c.JSON(http.StatusOK, set)
}

// Stream opens a feed for the user and pushes every published match
// set as a server-sent event. The feed recomputes on each pool change
// and only the latest computation's output is ever delivered.
func (h *MatchHandler) Stream(c *gin.Context) {
	id := types.ID(c.Param("id"))
	day, tod, maxDetour, ok := h.query(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	self, err := h.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	feed := matching.NewFeed(h.engine, h.profiles, h.results, h.logger)
	out, err := feed.Run(ctx, *self, day, tod, maxDetour)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "candidate pool unavailable"})
		return
	}

	c.Stream(func(_ io.Writer) bool {
		set, ok := <-out
		if !ok {
			return false
		}
		c.SSEvent("matches", set)
		return true
	})
}

func (h *MatchHandler) query(c *gin.Context) (schedule.Day, schedule.TimeOfDay, int, bool) {
	day, err := schedule.ParseDay(c.DefaultQuery("day", "monday"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, "", 0, false
	}
	tod, err := schedule.ParseTimeOfDay(c.DefaultQuery("section", "morning"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, "", 0, false
	}
	maxDetour := h.cfg.DefaultMaxDetourMinutes
	if raw := c.Query("max_detour"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_detour must be a non-negative integer"})
			return 0, "", 0, false
		}
		maxDetour = n
	}
	return day, tod, maxDetour, true
}
