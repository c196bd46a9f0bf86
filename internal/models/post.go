package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in the post document. Replies nest one level and
// share the same shape.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Replies   []Comment `json:"replies,omitempty" bson:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post is the content aggregate stored in MongoDB. Like and save relations
// are embedded hex-id sets; counts are always derived from their lengths,
// never cached.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	ProfileID string             `json:"profile_id,omitempty" bson:"profile_id,omitempty"` // optional sub-profile tag
	Media     []Media            `json:"media" bson:"media"`                               // first element is the primary blob
	IsVideo   bool               `json:"is_video" bson:"is_video"`
	Title     string             `json:"title,omitempty" bson:"title,omitempty"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Likes     []string           `json:"likes" bson:"likes"`
	SavedBy   []string           `json:"saved_by" bson:"saved_by"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	Views     int64              `json:"views" bson:"views"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasLike reports whether userID is in the like set.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HasSave reports whether userID is in the save set.
func (p *Post) HasSave(userID string) bool {
	for _, id := range p.SavedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// FirstMedia returns the primary blob reference, if any.
func (p *Post) FirstMedia() *Media {
	if len(p.Media) == 0 {
		return nil
	}
	return &p.Media[0]
}

// PostView is a post joined with its owner summary and derived counts.
type PostView struct {
	Post
	Owner         UserSummary `json:"owner"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	SavesCount    int         `json:"saves_count"`
	Liked         bool        `json:"liked"`
	Saved         bool        `json:"saved"`
}

// CreatePostRequest defines the request body for publishing a post
type CreatePostRequest struct {
	Media     []Media `json:"media" validate:"required,min=1,max=5,dive"`
	IsVideo   bool    `json:"is_video"`
	Title     string  `json:"title,omitempty" validate:"omitempty,max=300"`
	Caption   string  `json:"caption,omitempty" validate:"omitempty,max=2200"`
	ProfileID string  `json:"profile_id,omitempty"`
}

// UpdatePostRequest defines the request body for editing title/caption
type UpdatePostRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,max=300"`
	Caption string `json:"caption,omitempty" validate:"omitempty,max=2200"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
