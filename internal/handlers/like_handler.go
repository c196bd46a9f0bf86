package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	contentService *services.ContentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(contentService *services.ContentService) *LikeHandler {
	return &LikeHandler{contentService: contentService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike flips the caller's like on a post
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	result, err := h.contentService.ToggleLike(c.Request().Context(), postID, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"liked":      result.Liked,
		"likesCount": result.LikesCount,
	})
}
