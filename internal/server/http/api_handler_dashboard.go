package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rekindle/internal/intake"
	"rekindle/internal/server/app"
)

// DashboardHandler serves the profile-shaped content pages. Every endpoint
// requires a completed intake; without a stored profile the pages have
// nothing to condition on.
type DashboardHandler struct {
	coordinator *app.Coordinator
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(coordinator *app.Coordinator) *DashboardHandler {
	return &DashboardHandler{coordinator: coordinator}
}

func (h *DashboardHandler) profile(c *gin.Context) (intake.Profile, bool) {
	profile, err := h.coordinator.Profile(c.Request.Context(), callerIdentity(c).UserID)
	if err != nil {
		writeError(c, err)
		return intake.Profile{}, false
	}
	return profile, true
}

// Overview returns every page in one response.
func (h *DashboardHandler) Overview(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	overview, err := h.coordinator.Dashboards.BuildOverview(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: overview})
}

// Housing returns the housing page.
func (h *DashboardHandler) Housing(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Housing(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Schools returns the schools page, or 404 for households without children.
func (h *DashboardHandler) Schools(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Schools(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Error:   "schools page does not apply to this household",
		})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Employment returns the employment page.
func (h *DashboardHandler) Employment(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Employment(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Resources returns the recovery insights page.
func (h *DashboardHandler) Resources(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Resources(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Community returns the support feed. The feed itself is shared, but like
// the other pages it only opens after intake.
func (h *DashboardHandler) Community(c *gin.Context) {
	if _, ok := h.profile(c); !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Community(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}

// Insurance returns the insurance page.
func (h *DashboardHandler) Insurance(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	view, err := h.coordinator.Dashboards.Insurance(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: view})
}
