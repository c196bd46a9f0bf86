package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	feedService    *services.FeedService
	contentService *services.ContentService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, feedService *services.FeedService, contentService *services.ContentService) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		feedService:    feedService,
		contentService: contentService,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.POST("/posts/:id/views", h.IncrementView)
}

// CreatePost publishes a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:    currentUserID,
		ProfileID: req.ProfileID,
		Media:     req.Media,
		IsVideo:   req.IsVideo,
		Title:     req.Title,
		Caption:   req.Caption,
	}

	ctx := c.Request().Context()
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	// The post itself is already persisted; the ref on the user document
	// is bookkeeping for the postsCount projection.
	if err := h.userRepository.AddPostRef(ctx, currentUserID, post.ID.Hex()); err != nil {
		c.Logger().Warnf("failed to record post ref for user %s: %v", currentUserID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// GetPost retrieves a single post with its owner summary
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	view := models.PostView{
		Post:          *post,
		LikesCount:    len(post.Likes),
		CommentsCount: len(post.Comments),
		SavesCount:    len(post.SavedBy),
	}
	if currentUserID != "" {
		view.Liked = post.HasLike(currentUserID)
		view.Saved = post.HasSave(currentUserID)
	}
	if owner, err := h.userRepository.GetUserByID(ctx, post.UserID); err == nil {
		view.Owner = owner.ToSummary()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": view})
}

// UpdatePost edits the title/caption of an owned post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can edit a post")
	}

	fields := bson.M{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Caption != "" {
		fields["caption"] = req.Caption
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.postRepository.UpdatePost(ctx, postID, fields); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeletePost deletes an owned post
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can delete a post")
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}
	if err := h.userRepository.RemovePostRef(ctx, currentUserID, postID); err != nil {
		c.Logger().Warnf("failed to remove post ref for user %s: %v", currentUserID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUserPosts returns a user's posts newest first, optionally scoped to a
// sub-profile tag via the profile query parameter
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	ownerID := c.Param("id")
	profileID := c.QueryParam("profile")

	posts, err := h.feedService.PostsByOwner(c.Request().Context(), ownerID, profileID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": posts, "count": len(posts)})
}

// IncrementView applies an unconditional +1 to the post's view counter
func (h *PostHandler) IncrementView(c echo.Context) error {
	postID := c.Param("id")

	views, err := h.contentService.IncrementView(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update view count")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "views": views})
}
