// README: Profile handlers for upsert and fetch.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

type ProfileHandler struct {
	profiles *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: svc}
}

type upsertProfileReq struct {
	Name             string          `json:"name"`
	HomeAddress      string          `json:"home_address"`
	WorkAddress      string          `json:"work_address"`
	HomeLat          float64         `json:"home_lat"`
	HomeLng          float64         `json:"home_lng"`
	WorkLat          float64         `json:"work_lat"`
	WorkLng          float64         `json:"work_lng"`
	Schedule         schedule.Weekly `json:"schedule"`
	HasLicense       bool            `json:"has_license"`
	HasCar           bool            `json:"has_car"`
	MaxDetourMinutes *int            `json:"max_detour_minutes"`
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing profile id"})
		return
	}
	var req upsertProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p := &profile.Profile{
		ID:               types.ID(id),
		Name:             req.Name,
		HomeAddress:      req.HomeAddress,
		WorkAddress:      req.WorkAddress,
		Home:             types.Point{Lat: req.HomeLat, Lng: req.HomeLng},
		Work:             types.Point{Lat: req.WorkLat, Lng: req.WorkLng},
		Schedule:         req.Schedule,
		HasLicense:       req.HasLicense,
		HasCar:           req.HasCar,
		MaxDetourMinutes: req.MaxDetourMinutes,
	}
	if err := h.profiles.Upsert(c.Request.Context(), p); err != nil {
		if errors.Is(err, types.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, p)
}
