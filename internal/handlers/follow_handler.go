package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graphService *services.GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graphService *services.GraphService) *FollowHandler {
	return &FollowHandler{graphService: graphService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// ToggleFollow flips the follow relationship with the target user
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	targetID := c.Param("id")

	result, err := h.graphService.ToggleFollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTarget) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"isFollowing":    result.IsFollowing,
		"followersCount": result.FollowersCount,
	})
}
