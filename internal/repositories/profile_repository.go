package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pixshare/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileRepository defines the interface for sub-profile operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfilesByUser(ctx context.Context, userID string) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, id string, fields bson.M) error
	DeleteProfile(ctx context.Context, id string) error
}

// MongoProfileRepository implements ProfileRepository for MongoDB
type MongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new MongoProfileRepository
func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection("profiles")}
}

// CreateProfile creates a new sub-profile in MongoDB
func (r *MongoProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

// GetProfileByID retrieves a sub-profile by ID
func (r *MongoProfileRepository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}

	var profile models.Profile
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, err
	}
	return &profile, nil
}

// GetProfilesByUser retrieves all sub-profiles owned by a user
func (r *MongoProfileRepository) GetProfilesByUser(ctx context.Context, userID string) ([]models.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfile applies a partial $set update to a sub-profile
func (r *MongoProfileRepository) UpdateProfile(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("profile: %w", ErrNotFound)
	}
	fields["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile: %w", ErrNotFound)
	}
	return nil
}

// DeleteProfile deletes a sub-profile by ID
func (r *MongoProfileRepository) DeleteProfile(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("profile: %w", ErrNotFound)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("profile: %w", ErrNotFound)
	}
	return nil
}
