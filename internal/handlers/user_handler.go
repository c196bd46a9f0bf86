package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	searchResultCap   = 50
	suggestedUsersCap = 10
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo, profileRepository: profileRepo}
}

// RegisterUserRoutes registers user profile, search and suggestion routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateOwnProfile)
	g.GET("/users/profile/:username", h.GetPublicProfile)
	g.GET("/users/suggested", h.GetSuggestedUsers)
	g.GET("/search/users", h.SearchUsers)
	g.GET("/users/:id/profiles", h.GetSubProfiles)
	g.POST("/users/:id/profiles", h.CreateSubProfile)
	g.PUT("/users/:id/profiles/:profile_id", h.UpdateSubProfile)
	g.DELETE("/users/:id/profiles/:profile_id", h.DeleteSubProfile)
}

// GetOwnProfile retrieves the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateOwnProfile updates the authenticated user's profile
func (h *UserHandler) UpdateOwnProfile(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.Organization != "" {
		fields["organization"] = req.Organization
	}
	if req.Avatar != nil {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	ctx := c.Request().Context()
	if err := h.userRepository.UpdateProfile(ctx, currentUserID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	user, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// PublicProfile is a user joined with counts and the viewer's follow state
type PublicProfile struct {
	models.User
	IsFollowing    bool `json:"isFollowing"`
	FollowersCount int  `json:"followersCount"`
	FollowingCount int  `json:"followingCount"`
	PostsCount     int  `json:"postsCount"`
}

// GetPublicProfile retrieves a public profile by username with derived counts
func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	profile := PublicProfile{
		User:           *user,
		IsFollowing:    user.HasFollower(currentUserID),
		FollowersCount: len(user.Followers),
		FollowingCount: len(user.Following),
		PostsCount:     len(user.Posts),
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}

// GetSuggestedUsers returns a store-order slice of users excluding the caller
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)

	users, err := h.userRepository.GetSuggestedUsers(c.Request().Context(), currentUserID, suggestedUsersCap)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch suggested users")
	}

	summaries := make([]models.UserSummary, len(users))
	for i := range users {
		summaries[i] = users[i].ToSummary()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": summaries})
}

// SearchUsers performs a case-insensitive substring search over username
// and display name. A blank query yields an empty result, not an error.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "users": []models.UserSummary{}, "count": 0})
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, searchResultCap)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search users")
	}

	summaries := make([]models.UserSummary, len(users))
	for i := range users {
		summaries[i] = users[i].ToSummary()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": summaries, "count": len(summaries)})
}

// GetSubProfiles lists a user's sub-profiles
func (h *UserHandler) GetSubProfiles(c echo.Context) error {
	userID := c.Param("id")

	profiles, err := h.profileRepository.GetProfilesByUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profiles")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "profiles": profiles, "count": len(profiles)})
}

// CreateSubProfile adds a sub-profile to the authenticated user
func (h *UserHandler) CreateSubProfile(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if c.Param("id") != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot create a profile for another user")
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile := &models.Profile{
		UserID:   currentUserID,
		Username: req.Username,
		Website:  req.Website,
		About:    req.About,
		Avatar:   req.Avatar,
	}
	if err := h.profileRepository.CreateProfile(c.Request().Context(), profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create profile")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "profile": profile})
}

// checkProfileOwner verifies the sub-profile exists and the caller owns it
func (h *UserHandler) checkProfileOwner(c echo.Context, profileID string) error {
	profile, err := h.profileRepository.GetProfileByID(c.Request().Context(), profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}
	if profile.UserID != middleware.UserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot modify another user's profile")
	}
	return nil
}

// UpdateSubProfile edits an owned sub-profile
func (h *UserHandler) UpdateSubProfile(c echo.Context) error {
	if err := h.checkProfileOwner(c, c.Param("profile_id")); err != nil {
		return err
	}

	var req models.UpdateSubProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fields := bson.M{}
	if req.Username != "" {
		fields["username"] = req.Username
	}
	if req.Website != "" {
		fields["website"] = req.Website
	}
	if req.About != "" {
		fields["about"] = req.About
	}
	if req.Avatar != nil {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.profileRepository.UpdateProfile(c.Request().Context(), c.Param("profile_id"), fields); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteSubProfile removes an owned sub-profile. Posts tagged with it keep
// their tag and fall back to the owner's untagged feed.
func (h *UserHandler) DeleteSubProfile(c echo.Context) error {
	if err := h.checkProfileOwner(c, c.Param("profile_id")); err != nil {
		return err
	}

	if err := h.profileRepository.DeleteProfile(c.Request().Context(), c.Param("profile_id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
