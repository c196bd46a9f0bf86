package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media is an opaque blob reference plus a kind tag.
type Media struct {
	URL  string `json:"url" bson:"url" validate:"required"`
	Kind string `json:"kind" bson:"kind" validate:"required,oneof=image video"`
}

// User is the identity aggregate stored in MongoDB. Follower/following sets
// are embedded as hex-id arrays so a single document read answers both sides
// of a profile view; the symmetric-pair invariant across two documents is
// maintained by the graph service.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Username     string             `json:"username" bson:"username"`
	Name         string             `json:"name" bson:"name"`
	Password     string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Avatar       *Media             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Organization string             `json:"organization,omitempty" bson:"organization,omitempty"`
	Followers    []string           `json:"followers" bson:"followers"`
	Following    []string           `json:"following" bson:"following"`
	Posts        []string           `json:"posts" bson:"posts"`
	FirebaseUID  string             `json:"-" bson:"firebase_uid,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the compact projection joined into feeds, notifications
// and search results.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   *Media `json:"avatar,omitempty"`
}

// ToSummary returns the compact projection of a user.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}

// HasFollower reports whether userID is in the follower set.
func (u *User) HasFollower(userID string) bool {
	for _, id := range u.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// RegisterRequest defines the request body for local registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for local sign-in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits
type UpdateProfileRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio          string `json:"bio,omitempty" validate:"omitempty,max=150"`
	Organization string `json:"organization,omitempty" validate:"omitempty,max=200"`
	Avatar       *Media `json:"avatar,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
