package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress_entries"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress log repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create appends an entry to the log.
func (r *mongoProgressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error) {
	if entry.UserID.IsZero() || entry.Name == "" {
		return primitive.NilObjectID, errors.New("progress entry requires userId and name")
	}

	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	if entry.Date.IsZero() {
		entry.Date = now
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

// GetByID retrieves an entry owned by userID.
func (r *mongoProgressRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	return r.decodeOne(r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}))
}

// ListByUser retrieves the user's log, newest first.
func (r *mongoProgressRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.ProgressEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update edits a single entry.
func (r *mongoProgressRepository) Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.ProgressEntryPatch) (*domain.ProgressEntry, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Sets != nil {
		set["sets"] = *patch.Sets
	}
	if patch.Reps != nil {
		set["reps"] = *patch.Reps
	}
	if patch.RepsUnit != nil {
		set["repsUnit"] = *patch.RepsUnit
	}
	if patch.Weight != nil {
		set["weight"] = *patch.Weight
	}
	if patch.WeightUnit != nil {
		set["weightUnit"] = *patch.WeightUnit
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Date != nil {
		set["date"] = patch.Date.UTC()
	}
	if len(set) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set}, opts))
}

// Delete removes one entry.
func (r *mongoProgressRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteAllByUser clears the user's log and reports how many entries went.
func (r *mongoProgressRepository) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoProgressRepository) decodeOne(res *mongo.SingleResult) (*domain.ProgressEntry, error) {
	var entry domain.ProgressEntry
	if err := res.Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EnsureProgressIndexes creates necessary indexes for the progress log.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
