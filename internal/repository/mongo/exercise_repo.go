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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.UserID.IsZero() || exercise.DayID.IsZero() {
		return primitive.NilObjectID, errors.New("exercise name, user ID and day ID are required")
	}
	if exercise.Videos == nil {
		exercise.Videos = []domain.Ref[domain.Video]{}
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return primitive.NilObjectID, err
	}
	return exercise.ID, nil
}

// GetByID retrieves an exercise owned by userID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error) {
	return r.decodeOne(r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}))
}

// GetByIDs retrieves the exercises with the given IDs in one query.
func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	if len(ids) == 0 {
		return exercises, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update sets only the fields present in patch and returns the updated exercise.
// UserID and DayID never change here.
func (r *mongoExerciseRepository) Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	update := bson.M{"$set": exercisePatchSet(patch)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, update, opts))
}

func exercisePatchSet(p domain.ExercisePatch) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = strings.TrimSpace(*p.Name)
	}
	if p.MuscleGroups != nil {
		set["muscleGroups"] = *p.MuscleGroups
	}
	if p.Sets != nil {
		set["sets"] = *p.Sets
	}
	if p.Reps != nil {
		set["reps"] = *p.Reps
	}
	if p.RepsUnit != nil {
		set["repsUnit"] = *p.RepsUnit
	}
	if p.Weight != nil {
		set["weight"] = *p.Weight
	}
	if p.WeightUnit != nil {
		set["weightUnit"] = *p.WeightUnit
	}
	if p.Rest != nil {
		set["rest"] = *p.Rest
	}
	if p.Tips != nil {
		set["tips"] = *p.Tips
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.CircuitID != nil {
		set["circuitId"] = strings.TrimSpace(*p.CircuitID)
	}
	return set
}

// ToggleCompleted negates the stored flag with a pipeline update, so the
// result always reflects the persisted state rather than a client's view.
func (r *mongoExerciseRepository) ToggleCompleted(ctx context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "completed", Value: bson.D{{Key: "$not", Value: bson.A{"$completed"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, pipeline, opts))
}

// ResetCompleted clears the completed flag for every exercise of the given days.
func (r *mongoExerciseRepository) ResetCompleted(ctx context.Context, userID primitive.ObjectID, dayIDs []primitive.ObjectID) (int64, error) {
	if len(dayIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"dayId": bson.M{"$in": dayIDs}, "userId": userID}
	update := bson.M{"$set": bson.M{"completed": false, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// SetVideos replaces the ordered video reference list.
func (r *mongoExerciseRepository) SetVideos(ctx context.Context, userID, id primitive.ObjectID, videoIDs []primitive.ObjectID) error {
	if videoIDs == nil {
		videoIDs = []primitive.ObjectID{}
	}
	update := bson.M{"$set": bson.M{"videos": videoIDs, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise owned by userID.
func (r *mongoExerciseRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes the given exercises. Missing IDs are not an error.
func (r *mongoExerciseRepository) DeleteMany(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "userId": userID})
	return err
}

func (r *mongoExerciseRepository) decodeOne(res *mongo.SingleResult) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := res.Decode(&exercise); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Resets filter by day
			Keys:    bson.D{{Key: "dayId", Value: 1}},
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
