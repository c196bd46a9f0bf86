package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"time"

	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the Mongo repositories' contract:
// reads return independent copies, set operations are duplicate-free, and
// missing documents yield repositories.ErrNotFound.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) addUser(username string) *models.User {
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     username + "@example.com",
		Username:  username,
		Name:      username,
		Followers: []string{},
		Following: []string{},
		Posts:     []string{},
		CreatedAt: time.Now(),
	}
	f.users[u.ID.Hex()] = u
	return u
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Followers = append([]string{}, u.Followers...)
	cp.Following = append([]string{}, u.Following...)
	cp.Posts = append([]string{}, u.Posts...)
	return &cp
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
	}
	return copyUser(u), nil
}

func (f *fakeUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return u.FirebaseUID == uid })
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, fields bson.M) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repositories.ErrNotFound)
	}
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	if bio, ok := fields["bio"].(string); ok {
		u.Bio = bio
	}
	return nil
}

func addToSet(set []string, value string) []string {
	for _, v := range set {
		if v == value {
			return set
		}
	}
	return append(set, value)
}

func pull(set []string, value string) []string {
	out := set[:0]
	for _, v := range set {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeUserRepo) mutate(id string, fn func(*models.User)) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repositories.ErrNotFound)
	}
	fn(u)
	return nil
}

func (f *fakeUserRepo) AddFollower(_ context.Context, targetID, actorID string) error {
	return f.mutate(targetID, func(u *models.User) { u.Followers = addToSet(u.Followers, actorID) })
}

func (f *fakeUserRepo) RemoveFollower(_ context.Context, targetID, actorID string) error {
	return f.mutate(targetID, func(u *models.User) { u.Followers = pull(u.Followers, actorID) })
}

func (f *fakeUserRepo) AddFollowing(_ context.Context, actorID, targetID string) error {
	return f.mutate(actorID, func(u *models.User) { u.Following = addToSet(u.Following, targetID) })
}

func (f *fakeUserRepo) RemoveFollowing(_ context.Context, actorID, targetID string) error {
	return f.mutate(actorID, func(u *models.User) { u.Following = pull(u.Following, targetID) })
}

func (f *fakeUserRepo) AddPostRef(_ context.Context, userID, postID string) error {
	return f.mutate(userID, func(u *models.User) { u.Posts = addToSet(u.Posts, postID) })
}

func (f *fakeUserRepo) RemovePostRef(_ context.Context, userID, postID string) error {
	return f.mutate(userID, func(u *models.User) { u.Posts = pull(u.Posts, postID) })
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, query string, limit int64) ([]models.User, error) {
	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	users := []models.User{}
	for _, u := range f.users {
		if int64(len(users)) == limit {
			break
		}
		if pattern.MatchString(u.Username) || pattern.MatchString(u.Name) {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (f *fakeUserRepo) GetSuggestedUsers(_ context.Context, excludeID string, limit int64) ([]models.User, error) {
	users := []models.User{}
	for id, u := range f.users {
		if int64(len(users)) == limit {
			break
		}
		if id != excludeID {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) addPost(ownerID, profileID string, createdAt time.Time) *models.Post {
	p := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    ownerID,
		ProfileID: profileID,
		Media:     []models.Media{{URL: "blob://" + primitive.NewObjectID().Hex(), Kind: "image"}},
		Likes:     []string{},
		SavedBy:   []string{},
		Comments:  []models.Comment{},
		CreatedAt: createdAt,
	}
	f.posts[p.ID.Hex()] = p
	return p
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]string{}, p.Likes...)
	cp.SavedBy = append([]string{}, p.SavedBy...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	f.posts[post.ID.Hex()] = copyPost(post)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	return copyPost(p), nil
}

func sortNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
}

func (f *fakePostRepo) GetPostsByOwner(_ context.Context, ownerID, profileID string) ([]models.Post, error) {
	posts := []models.Post{}
	for _, p := range f.posts {
		if p.UserID != ownerID {
			continue
		}
		if profileID != "" && p.ProfileID != profileID {
			continue
		}
		posts = append(posts, *copyPost(p))
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (f *fakePostRepo) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	posts := []models.Post{}
	for _, p := range f.posts {
		posts = append(posts, *copyPost(p))
	}
	sortNewestFirst(posts)
	if skip >= int64(len(posts)) {
		return []models.Post{}, nil
	}
	posts = posts[skip:]
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePostRepo) CountPosts(_ context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) SamplePosts(_ context.Context, size int64) ([]models.Post, error) {
	posts := []models.Post{}
	for _, p := range f.posts {
		posts = append(posts, *copyPost(p))
	}
	rand.Shuffle(len(posts), func(i, j int) { posts[i], posts[j] = posts[j], posts[i] })
	if int64(len(posts)) > size {
		posts = posts[:size]
	}
	return posts, nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, id string, fields bson.M) error {
	p, ok := f.posts[id]
	if !ok {
		return fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	if title, ok := fields["title"].(string); ok {
		p.Title = title
	}
	if caption, ok := fields["caption"].(string); ok {
		p.Caption = caption
	}
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) mutate(id string, fn func(*models.Post)) error {
	p, ok := f.posts[id]
	if !ok {
		return fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	fn(p)
	return nil
}

func (f *fakePostRepo) AddLike(_ context.Context, postID, userID string) error {
	return f.mutate(postID, func(p *models.Post) { p.Likes = addToSet(p.Likes, userID) })
}

func (f *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	return f.mutate(postID, func(p *models.Post) { p.Likes = pull(p.Likes, userID) })
}

func (f *fakePostRepo) AddSave(_ context.Context, postID, userID string) error {
	return f.mutate(postID, func(p *models.Post) { p.SavedBy = addToSet(p.SavedBy, userID) })
}

func (f *fakePostRepo) RemoveSave(_ context.Context, postID, userID string) error {
	return f.mutate(postID, func(p *models.Post) { p.SavedBy = pull(p.SavedBy, userID) })
}

func (f *fakePostRepo) AppendComment(_ context.Context, postID string, comment models.Comment) error {
	return f.mutate(postID, func(p *models.Post) { p.Comments = append(p.Comments, comment) })
}

func (f *fakePostRepo) AppendReply(_ context.Context, postID, commentID string, reply models.Comment) error {
	p, ok := f.posts[postID]
	if !ok {
		return fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments[i].Replies = append(p.Comments[i].Replies, reply)
			return nil
		}
	}
	return fmt.Errorf("comment: %w", repositories.ErrNotFound)
}

func (f *fakePostRepo) IncrementViews(_ context.Context, postID string) (int64, error) {
	p, ok := f.posts[postID]
	if !ok {
		return 0, fmt.Errorf("post: %w", repositories.ErrNotFound)
	}
	p.Views++
	return p.Views, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	failNext      bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	if f.failNext {
		f.failNext = false
		return errors.New("write failed")
	}
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(_ context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
