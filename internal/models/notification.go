package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

// Notification is a derived event record written as a side effect of a
// graph or content mutation. Immutable after insert; recipient never
// equals sender.
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID string             `json:"recipient_id" bson:"recipient_id"`
	SenderID    string             `json:"sender_id" bson:"sender_id"`
	Type        string             `json:"type" bson:"type"`
	PostID      string             `json:"post_id,omitempty" bson:"post_id,omitempty"`
	CommentText string             `json:"comment_text,omitempty" bson:"comment_text,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// NotificationView is a notification joined with sender and post summaries.
// IsNew is computed from age at read time, nothing is persisted.
type NotificationView struct {
	Notification
	Sender    UserSummary `json:"sender"`
	PostMedia *Media      `json:"post_media,omitempty"`
	IsNew     bool        `json:"is_new"`
}
