package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
)

// maxCommentLen bounds comment and reply text.
const maxCommentLen = 500

// ErrValidation is returned for malformed mutation input.
var ErrValidation = errors.New("validation failed")

// LikeResult reports the post-toggle like state.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// SaveResult reports the post-toggle save state.
type SaveResult struct {
	Saved      bool `json:"saved"`
	SavesCount int  `json:"savesCount"`
}

// ContentService handles like/save toggles, comment appends and the view
// counter. Toggles are membership-test-then-flip on the embedded sets;
// counts are derived from the loaded document, never cached.
type ContentService struct {
	posts    repositories.PostRepository
	notifier *NotificationService
}

// NewContentService creates a new ContentService
func NewContentService(postRepo repositories.PostRepository, notifier *NotificationService) *ContentService {
	return &ContentService{posts: postRepo, notifier: notifier}
}

// ToggleLike flips the viewer's membership in the post's like set. A like
// notification goes to the post owner on the transition to liked only.
func (s *ContentService) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.HasLike(userID) {
		if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
			return nil, err
		}
		return &LikeResult{Liked: false, LikesCount: len(post.Likes) - 1}, nil
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, post.UserID, userID, models.NotificationTypeLike, postID, "")
	return &LikeResult{Liked: true, LikesCount: len(post.Likes) + 1}, nil
}

// ToggleSave flips the viewer's membership in the post's save set. Saves
// never generate a notification.
func (s *ContentService) ToggleSave(ctx context.Context, postID, userID string) (*SaveResult, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.HasSave(userID) {
		if err := s.posts.RemoveSave(ctx, postID, userID); err != nil {
			return nil, err
		}
		return &SaveResult{Saved: false, SavesCount: len(post.SavedBy) - 1}, nil
	}

	if err := s.posts.AddSave(ctx, postID, userID); err != nil {
		return nil, err
	}
	return &SaveResult{Saved: true, SavesCount: len(post.SavedBy) + 1}, nil
}

func newComment(userID, text string) (models.Comment, error) {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxCommentLen {
		return models.Comment{}, ErrValidation
	}
	return models.Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
	}, nil
}

// AddComment appends a comment with a server-assigned timestamp and
// notifies the post owner with a snapshot of the text.
func (s *ContentService) AddComment(ctx context.Context, postID, userID, text string) (*models.Comment, error) {
	comment, err := newComment(userID, text)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment.CreatedAt = time.Now()
	if err := s.posts.AppendComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, post.UserID, userID, models.NotificationTypeComment, postID, text)
	return &comment, nil
}

// AddReply appends a reply under an existing comment, same bounds as a
// top-level comment. The post owner is notified.
func (s *ContentService) AddReply(ctx context.Context, postID, commentID, userID, text string) (*models.Comment, error) {
	reply, err := newComment(userID, text)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	reply.CreatedAt = time.Now()
	if err := s.posts.AppendReply(ctx, postID, commentID, reply); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, post.UserID, userID, models.NotificationTypeComment, postID, text)
	return &reply, nil
}

// IncrementView bumps the view counter by one and returns the new value.
// A viewer refreshing repeatedly inflates the counter; there is no
// per-viewer deduplication.
func (s *ContentService) IncrementView(ctx context.Context, postID string) (int64, error) {
	return s.posts.IncrementViews(ctx, postID)
}
