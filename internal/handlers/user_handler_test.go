package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubUserRepo serves the read paths the user handler exercises.
type stubUserRepo struct {
	users []models.User
}

func (s *stubUserRepo) CreateUser(context.Context, *models.User) error { return nil }

func (s *stubUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for i := range s.users {
		if s.users[i].ID.Hex() == id {
			return &s.users[i], nil
		}
	}
	return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func (s *stubUserRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func (s *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range s.users {
		if s.users[i].Username == username {
			return &s.users[i], nil
		}
	}
	return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func (s *stubUserRepo) GetUserByFirebaseUID(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func (s *stubUserRepo) GetUsersByIDs(context.Context, []string) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) UpdateProfile(context.Context, string, bson.M) error       { return nil }
func (s *stubUserRepo) AddFollower(context.Context, string, string) error         { return nil }
func (s *stubUserRepo) RemoveFollower(context.Context, string, string) error      { return nil }
func (s *stubUserRepo) AddFollowing(context.Context, string, string) error        { return nil }
func (s *stubUserRepo) RemoveFollowing(context.Context, string, string) error     { return nil }
func (s *stubUserRepo) AddPostRef(context.Context, string, string) error          { return nil }
func (s *stubUserRepo) RemovePostRef(context.Context, string, string) error       { return nil }

func (s *stubUserRepo) SearchUsers(_ context.Context, query string, limit int64) ([]models.User, error) {
	matched := []models.User{}
	for _, u := range s.users {
		if int64(len(matched)) == limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (s *stubUserRepo) GetSuggestedUsers(_ context.Context, excludeID string, limit int64) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		if int64(len(out)) == limit {
			break
		}
		if u.ID.Hex() != excludeID {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubProfileRepo struct {
	profiles []models.Profile
	updated  map[string]bson.M
	deleted  []string
}

func (s *stubProfileRepo) CreateProfile(context.Context, *models.Profile) error { return nil }

func (s *stubProfileRepo) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	for i := range s.profiles {
		if s.profiles[i].ID.Hex() == id {
			return &s.profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile: %w", repositories.ErrNotFound)
}

func (s *stubProfileRepo) GetProfilesByUser(context.Context, string) ([]models.Profile, error) {
	return []models.Profile{}, nil
}

func (s *stubProfileRepo) UpdateProfile(_ context.Context, id string, fields bson.M) error {
	if s.updated == nil {
		s.updated = map[string]bson.M{}
	}
	s.updated[id] = fields
	return nil
}

func (s *stubProfileRepo) DeleteProfile(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestUser(username, name string) models.User {
	return models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Name:      name,
		Followers: []string{},
		Following: []string{},
		Posts:     []string{},
	}
}

func request(t *testing.T, h echo.HandlerFunc, target string, setup func(echo.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return requestBody(t, h, http.MethodGet, target, "", setup)
}

func requestBody(t *testing.T, h echo.HandlerFunc, method, target, payload string, setup func(echo.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	err := h(c)
	if err != nil {
		e.DefaultHTTPErrorHandler(err, c)
	}
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSearchUsersBlankQuery(t *testing.T) {
	h := NewUserHandler(&stubUserRepo{users: []models.User{newTestUser("alice", "Alice")}}, &stubProfileRepo{})

	rec, body := request(t, h.SearchUsers, "/api/v1/search/users?q=++", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, body["users"])
}

func TestSearchUsersSubstringMatch(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{
		newTestUser("alice", "Alice A"),
		newTestUser("bob", "Bob B"),
		newTestUser("alicia", "Alicia C"),
	}}
	h := NewUserHandler(repo, &stubProfileRepo{})

	rec, body := request(t, h.SearchUsers, "/api/v1/search/users?q=ali", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetPublicProfileCounts(t *testing.T) {
	viewer := newTestUser("viewer", "Viewer")
	target := newTestUser("alice", "Alice")
	target.Followers = []string{viewer.ID.Hex()}
	target.Following = []string{viewer.ID.Hex(), primitive.NewObjectID().Hex()}
	target.Posts = []string{primitive.NewObjectID().Hex()}

	h := NewUserHandler(&stubUserRepo{users: []models.User{viewer, target}}, &stubProfileRepo{})

	rec, body := request(t, h.GetPublicProfile, "/api/v1/users/profile/alice", func(c echo.Context) {
		c.SetParamNames("username")
		c.SetParamValues("alice")
		c.Set("userID", viewer.ID.Hex())
	})
	require.Equal(t, http.StatusOK, rec.Code)

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, user["isFollowing"])
	assert.Equal(t, float64(1), user["followersCount"])
	assert.Equal(t, float64(2), user["followingCount"])
	assert.Equal(t, float64(1), user["postsCount"])
}

func TestUpdateSubProfileOwnerOnly(t *testing.T) {
	owner := newTestUser("alice", "Alice")
	stranger := newTestUser("bob", "Bob")
	profile := models.Profile{ID: primitive.NewObjectID(), UserID: owner.ID.Hex(), Username: "travel"}
	profiles := &stubProfileRepo{profiles: []models.Profile{profile}}
	h := NewUserHandler(&stubUserRepo{users: []models.User{owner, stranger}}, profiles)

	rec, _ := requestBody(t, h.UpdateSubProfile, http.MethodPut,
		"/api/v1/users/"+owner.ID.Hex()+"/profiles/"+profile.ID.Hex(),
		`{"about":"trip notes"}`, func(c echo.Context) {
			c.SetParamNames("id", "profile_id")
			c.SetParamValues(owner.ID.Hex(), profile.ID.Hex())
			c.Set("userID", stranger.ID.Hex())
		})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, profiles.updated)

	rec, body := requestBody(t, h.UpdateSubProfile, http.MethodPut,
		"/api/v1/users/"+owner.ID.Hex()+"/profiles/"+profile.ID.Hex(),
		`{"about":"trip notes"}`, func(c echo.Context) {
			c.SetParamNames("id", "profile_id")
			c.SetParamValues(owner.ID.Hex(), profile.ID.Hex())
			c.Set("userID", owner.ID.Hex())
		})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "trip notes", profiles.updated[profile.ID.Hex()]["about"])
}

func TestDeleteSubProfile(t *testing.T) {
	owner := newTestUser("alice", "Alice")
	profile := models.Profile{ID: primitive.NewObjectID(), UserID: owner.ID.Hex(), Username: "travel"}
	profiles := &stubProfileRepo{profiles: []models.Profile{profile}}
	h := NewUserHandler(&stubUserRepo{users: []models.User{owner}}, profiles)

	rec, _ := requestBody(t, h.DeleteSubProfile, http.MethodDelete,
		"/api/v1/users/"+owner.ID.Hex()+"/profiles/"+profile.ID.Hex(), "", func(c echo.Context) {
			c.SetParamNames("id", "profile_id")
			c.SetParamValues(owner.ID.Hex(), profile.ID.Hex())
			c.Set("userID", owner.ID.Hex())
		})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{profile.ID.Hex()}, profiles.deleted)

	rec, _ = requestBody(t, h.DeleteSubProfile, http.MethodDelete,
		"/api/v1/users/"+owner.ID.Hex()+"/profiles/missing", "", func(c echo.Context) {
			c.SetParamNames("id", "profile_id")
			c.SetParamValues(owner.ID.Hex(), primitive.NewObjectID().Hex())
			c.Set("userID", owner.ID.Hex())
		})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPublicProfileNotFound(t *testing.T) {
	h := NewUserHandler(&stubUserRepo{}, &stubProfileRepo{})

	rec, _ := request(t, h.GetPublicProfile, "/api/v1/users/profile/ghost", func(c echo.Context) {
		c.SetParamNames("username")
		c.SetParamValues("ghost")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
