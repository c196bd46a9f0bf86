package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is a lightweight sub-profile owned by a user. Stored as its own
// collection keyed back to the owner rather than embedded in the user
// document; posts reference one by id through their profile tag.
type Profile struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Username   string             `json:"username" bson:"username"`
	Website    string             `json:"website,omitempty" bson:"website,omitempty"`
	About      string             `json:"about,omitempty" bson:"about,omitempty"`
	Avatar     *Media             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsComplete bool               `json:"is_complete" bson:"is_complete"`
	PostsCount int                `json:"posts_count" bson:"posts_count"`
	LikesCount int                `json:"likes_count" bson:"likes_count"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateProfileRequest defines the request body for adding a sub-profile
type CreateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	About    string `json:"about,omitempty" validate:"omitempty,max=150"`
	Avatar   *Media `json:"avatar,omitempty"`
}

// UpdateSubProfileRequest defines the request body for editing a sub-profile
type UpdateSubProfileRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	About    string `json:"about,omitempty" validate:"omitempty,max=150"`
	Avatar   *Media `json:"avatar,omitempty"`
}
