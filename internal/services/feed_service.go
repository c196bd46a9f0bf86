package services

import (
	"context"

	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
)

// DiscoveryMaxLimit caps a single discovery sample.
const DiscoveryMaxLimit = 100

// FeedService serves the three read paths: the chronological home feed,
// the randomized discovery feed and the owner/profile-scoped feed. All of
// them join the same compact owner projection in application code.
type FeedService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedService {
	return &FeedService{posts: postRepo, users: userRepo}
}

// HomeFeed returns all posts newest first, paginated, joined with owner
// summaries and viewer flags.
func (s *FeedService) HomeFeed(ctx context.Context, limit, offset int64, viewerID string) ([]models.PostView, error) {
	posts, err := s.posts.GetAllPosts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// Discovery returns a bounded uniform sample across all posts. When the
// collection fits inside the limit everything is returned; otherwise the
// store draws the sample, so each call is an independent fresh draw.
func (s *FeedService) Discovery(ctx context.Context, limit int64, viewerID string) ([]models.PostView, error) {
	if limit < 1 || limit > DiscoveryMaxLimit {
		limit = DiscoveryMaxLimit
	}

	total, err := s.posts.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	if total <= limit {
		posts, err = s.posts.GetAllPosts(ctx, 0, limit)
	} else {
		posts, err = s.posts.SamplePosts(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// PostsByOwner returns an owner's posts newest first, optionally scoped to
// one sub-profile tag.
func (s *FeedService) PostsByOwner(ctx context.Context, ownerID, profileID, viewerID string) ([]models.PostView, error) {
	posts, err := s.posts.GetPostsByOwner(ctx, ownerID, profileID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// enrich joins owner summaries in one batched read and derives the counts
// and viewer flags from the embedded sets.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post, viewerID string) ([]models.PostView, error) {
	ownerIDs := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ownerIDs = append(ownerIDs, p.UserID)
		}
	}

	owners, err := s.users.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	ownerMap := make(map[string]models.UserSummary, len(owners))
	for _, u := range owners {
		ownerMap[u.ID.Hex()] = u.ToSummary()
	}

	views := make([]models.PostView, len(posts))
	for i, p := range posts {
		views[i] = models.PostView{
			Post:          p,
			Owner:         ownerMap[p.UserID],
			LikesCount:    len(p.Likes),
			CommentsCount: len(p.Comments),
			SavesCount:    len(p.SavedBy),
		}
		if viewerID != "" {
			views[i].Liked = p.HasLike(viewerID)
			views[i].Saved = p.HasSave(viewerID)
		}
	}
	return views, nil
}
