package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pixshare/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByOwner(ctx context.Context, ownerID, profileID string) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	SamplePosts(ctx context.Context, size int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, fields bson.M) error
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddSave(ctx context.Context, postID, userID string) error
	RemoveSave(ctx context.Context, postID, userID string) error
	AppendComment(ctx context.Context, postID string, comment models.Comment) error
	AppendReply(ctx context.Context, postID, commentID string, reply models.Comment) error
	IncrementViews(ctx context.Context, postID string) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.SavedBy == nil {
		post.SavedBy = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post: %w", ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByOwner retrieves an owner's posts newest first. A non-empty
// profileID narrows the result to posts carrying that sub-profile tag.
func (r *MongoPostRepository) GetPostsByOwner(ctx context.Context, ownerID, profileID string) ([]models.Post, error) {
	filter := bson.M{"user_id": ownerID}
	if profileID != "" {
		filter["profile_id"] = profileID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAllPosts retrieves all posts newest first with pagination
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// SamplePosts draws a uniform random sample without replacement at the
// store level, so the full collection never crosses the wire.
func (r *MongoPostRepository) SamplePosts(ctx context.Context, size int64) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a partial $set update to a post document
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	fields["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	return nil
}

func (r *MongoPostRepository) updateSet(ctx context.Context, postID, op, field, value string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	return nil
}

// AddLike adds userID to the post's like set ($addToSet keeps it duplicate-free)
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateSet(ctx, postID, "$addToSet", "likes", userID)
}

// RemoveLike removes userID from the post's like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateSet(ctx, postID, "$pull", "likes", userID)
}

// AddSave adds userID to the post's save set
func (r *MongoPostRepository) AddSave(ctx context.Context, postID, userID string) error {
	return r.updateSet(ctx, postID, "$addToSet", "saved_by", userID)
}

// RemoveSave removes userID from the post's save set
func (r *MongoPostRepository) RemoveSave(ctx context.Context, postID, userID string) error {
	return r.updateSet(ctx, postID, "$pull", "saved_by", userID)
}

// AppendComment appends a comment to the post's embedded comment list
func (r *MongoPostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	return nil
}

// AppendReply appends a reply under the comment with the given id
func (r *MongoPostRepository) AppendReply(ctx context.Context, postID, commentID string, reply models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	filter := bson.M{"_id": objID, "comments.id": commentID}
	update := bson.M{"$push": bson.M{"comments.$.replies": reply}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment: %w", ErrNotFound)
	}
	return nil
}

// IncrementViews applies an unconditional +1 to the view counter and
// returns the new value. No per-viewer deduplication.
func (r *MongoPostRepository) IncrementViews(ctx context.Context, postID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, fmt.Errorf("post: %w", ErrNotFound)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, fmt.Errorf("post: %w", ErrNotFound)
		}
		return 0, err
	}
	return post.Views, nil
}
