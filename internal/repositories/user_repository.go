package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/pixshare/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, fields bson.M) error
	AddFollower(ctx context.Context, targetID, actorID string) error
	RemoveFollower(ctx context.Context, targetID, actorID string) error
	AddFollowing(ctx context.Context, actorID, targetID string) error
	RemoveFollowing(ctx context.Context, actorID, targetID string) error
	AddPostRef(ctx context.Context, userID, postID string) error
	RemovePostRef(ctx context.Context, userID, postID string) error
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	GetSuggestedUsers(ctx context.Context, excludeID string, limit int64) ([]models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user in MongoDB
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	if user.Posts == nil {
		user.Posts = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by hex ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetUserByEmail retrieves a user by email from MongoDB
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByUsername retrieves a user by username from MongoDB
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from MongoDB
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"firebase_uid": uid})
}

// GetUsersByIDs retrieves users matching any of the given hex IDs
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // skip malformed references instead of failing the join
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies a partial $set update to a user document
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	fields["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepository) updateSet(ctx context.Context, id, op, field, value string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

// AddFollower adds actorID to the target's follower set
func (r *MongoUserRepository) AddFollower(ctx context.Context, targetID, actorID string) error {
	return r.updateSet(ctx, targetID, "$addToSet", "followers", actorID)
}

// RemoveFollower removes actorID from the target's follower set
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, targetID, actorID string) error {
	return r.updateSet(ctx, targetID, "$pull", "followers", actorID)
}

// AddFollowing adds targetID to the actor's following set
func (r *MongoUserRepository) AddFollowing(ctx context.Context, actorID, targetID string) error {
	return r.updateSet(ctx, actorID, "$addToSet", "following", targetID)
}

// RemoveFollowing removes targetID from the actor's following set
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, actorID, targetID string) error {
	return r.updateSet(ctx, actorID, "$pull", "following", targetID)
}

// AddPostRef records an owned post id on the user document
func (r *MongoUserRepository) AddPostRef(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, "$addToSet", "posts", postID)
}

// RemovePostRef removes an owned post id from the user document
func (r *MongoUserRepository) RemovePostRef(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, "$pull", "posts", postID)
}

// SearchUsers performs a case-insensitive substring match against username
// and display name
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"name": pattern},
	}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetSuggestedUsers returns a store-order slice of users excluding excludeID
func (r *MongoUserRepository) GetSuggestedUsers(ctx context.Context, excludeID string, limit int64) ([]models.User, error) {
	filter := bson.M{}
	if objID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": objID}
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
