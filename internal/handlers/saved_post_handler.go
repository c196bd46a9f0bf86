package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
)

// SavedPostHandler handles HTTP requests related to saved posts
type SavedPostHandler struct {
	contentService *services.ContentService
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(contentService *services.ContentService) *SavedPostHandler {
	return &SavedPostHandler{contentService: contentService}
}

// RegisterSavedPostRoutes registers save-related routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.ToggleSave)
}

// ToggleSave flips the caller's bookmark on a post
func (h *SavedPostHandler) ToggleSave(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	result, err := h.contentService.ToggleSave(c.Request().Context(), postID, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle save")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"saved":      result.Saved,
		"savesCount": result.SavesCount,
	})
}
