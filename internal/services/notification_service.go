package services

import (
	"context"
	"log"
	"time"

	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
)

// newWindow is the age below which a notification counts as new.
const newWindow = 24 * time.Hour

// NotificationService records derived event notifications. Emission is
// best effort: a failed write is logged and swallowed so it can never
// degrade the mutation that triggered it.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
	now           func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository) *NotificationService {
	return &NotificationService{
		notifications: notifRepo,
		users:         userRepo,
		posts:         postRepo,
		now:           time.Now,
	}
}

// Notify persists a notification record. Self-actions are suppressed with
// no write. Callers never observe a failure.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID, notifType, postID, commentText string) {
	if recipientID == senderID {
		return
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		PostID:      postID,
		CommentText: commentText,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("notification write failed (type=%s recipient=%s): %v", notifType, recipientID, err)
	}
}

// ListForRecipient returns a recipient's notifications newest first, each
// joined with a sender summary and, when a post is referenced, its first
// media. The new/earlier split is computed from age at read time.
func (s *NotificationService) ListForRecipient(ctx context.Context, userID string, limit int64) ([]models.NotificationView, error) {
	notifications, err := s.notifications.GetByRecipientID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]models.NotificationView, len(notifications))
	senderCache := make(map[string]models.UserSummary)
	postCache := make(map[string]*models.Media)

	for i, n := range notifications {
		views[i] = models.NotificationView{
			Notification: n,
			IsNew:        now.Sub(n.CreatedAt) < newWindow,
		}

		if sender, ok := senderCache[n.SenderID]; ok {
			views[i].Sender = sender
		} else if user, err := s.users.GetUserByID(ctx, n.SenderID); err == nil {
			summary := user.ToSummary()
			senderCache[n.SenderID] = summary
			views[i].Sender = summary
		}

		if n.PostID == "" {
			continue
		}
		if media, ok := postCache[n.PostID]; ok {
			views[i].PostMedia = media
		} else if post, err := s.posts.GetPostByID(ctx, n.PostID); err == nil {
			media := post.FirstMedia()
			postCache[n.PostID] = media
			views[i].PostMedia = media
		}
	}
	return views, nil
}
