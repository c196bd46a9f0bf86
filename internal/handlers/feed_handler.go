package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/explore/posts", h.GetExplore)
}

// GetFeed returns the chronological home feed, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := h.feedService.HomeFeed(c.Request().Context(), limit, offset, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch feed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": posts, "count": len(posts)})
}

// GetExplore returns a fresh uniform sample of posts. Not idempotent:
// two calls may return different sets.
func (h *FeedHandler) GetExplore(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 {
		limit = 20
	}
	if limit > services.DiscoveryMaxLimit {
		limit = services.DiscoveryMaxLimit
	}

	posts, err := h.feedService.Discovery(c.Request().Context(), limit, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": posts, "count": len(posts)})
}
