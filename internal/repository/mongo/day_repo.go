// internal/repository/mongo/day_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dayCollectionName = "days"

// mongoDayRepository implements repository.DayRepository
type mongoDayRepository struct {
	collection *mongo.Collection
}

// NewMongoDayRepository creates a new Day repository.
func NewMongoDayRepository(db *mongo.Database) repository.DayRepository {
	return &mongoDayRepository{
		collection: db.Collection(dayCollectionName),
	}
}

// Create inserts a new day.
func (r *mongoDayRepository) Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error) {
	if day.UserID.IsZero() || day.RoutineID.IsZero() || day.DayName == "" {
		return primitive.NilObjectID, errors.New("day requires userId, routineId and dayName")
	}
	if day.Exercises == nil {
		day.Exercises = []domain.Ref[domain.Exercise]{}
	}
	day.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, day); err != nil {
		return primitive.NilObjectID, err
	}
	return day.ID, nil
}

// GetByID retrieves a single day owned by userID.
func (r *mongoDayRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Day, error) {
	var day domain.Day
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetByIDs retrieves the days with the given IDs in one query.
// Result order is unspecified.
func (r *mongoDayRepository) GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Day, error) {
	days := []domain.Day{}
	if len(ids) == 0 {
		return days, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Update applies a partial update and returns the updated day.
func (r *mongoDayRepository) Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.DayPatch) (*domain.Day, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.DayName != nil {
		set["dayName"] = *patch.DayName
	}
	if patch.MusclesWorked != nil {
		set["musclesWorked"] = *patch.MusclesWorked
	}
	if patch.WarmupOptions != nil {
		set["warmupOptions"] = *patch.WarmupOptions
	}
	if patch.Explanation != nil {
		set["explanation"] = *patch.Explanation
	}

	var day domain.Day
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set}, opts).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// AppendExercise adds an exercise reference at the end of the day.
func (r *mongoDayRepository) AppendExercise(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error {
	update := bson.M{
		"$push": bson.M{"exercises": exerciseID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.updateOne(ctx, userID, dayID, update)
}

// RemoveExercise detaches an exercise reference from the day.
func (r *mongoDayRepository) RemoveExercise(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"exercises": exerciseID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.updateOne(ctx, userID, dayID, update)
}

func (r *mongoDayRepository) updateOne(ctx context.Context, userID, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes one day document.
func (r *mongoDayRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes the given days. Missing IDs are not an error.
func (r *mongoDayRepository) DeleteMany(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "userId": userID})
	return err
}

// EnsureDayIndexes creates necessary indexes. Call during startup.
func EnsureDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
