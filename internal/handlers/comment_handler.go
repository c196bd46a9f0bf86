package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	contentService *services.ContentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(contentService *services.ContentService) *CommentHandler {
	return &CommentHandler{contentService: contentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.POST("/posts/:id/comments/:comment_id/replies", h.CreateReply)
}

// CreateComment appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.contentService.AddComment(c.Request().Context(), postID, currentUserID, req.Text)
	if err != nil {
		return commentError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "comment": comment})
}

// CreateReply appends a reply under an existing comment
func (h *CommentHandler) CreateReply(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")
	commentID := c.Param("comment_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.contentService.AddReply(c.Request().Context(), postID, commentID, currentUserID, req.Text)
	if err != nil {
		return commentError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "comment": reply})
}

func commentError(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text must be between 1 and 500 characters")
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post or comment not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save comment")
	}
}
