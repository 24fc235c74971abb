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

const videoCollectionName = "videos"

// mongoVideoRepository implements repository.VideoRepository
type mongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new Video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) repository.VideoRepository {
	return &mongoVideoRepository{
		collection: db.Collection(videoCollectionName),
	}
}

func prepareVideo(video *domain.Video, now time.Time) error {
	if video.UserID.IsZero() || video.ExerciseID.IsZero() || video.URL == "" {
		return errors.New("video requires userId, exerciseId and url")
	}
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now
	return nil
}

// Create inserts one video.
func (r *mongoVideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if err := prepareVideo(video, time.Now().UTC()); err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := r.collection.InsertOne(ctx, video); err != nil {
		return primitive.NilObjectID, err
	}
	return video.ID, nil
}

// CreateMany inserts videos in order and returns their new IDs. The slice
// elements are updated in place.
func (r *mongoVideoRepository) CreateMany(ctx context.Context, videos []domain.Video) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(videos))
	if len(videos) == 0 {
		return ids, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(videos))
	for i := range videos {
		if err := prepareVideo(&videos[i], now); err != nil {
			return nil, err
		}
		docs[i] = videos[i]
		ids = append(ids, videos[i].ID)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID retrieves a video owned by userID.
func (r *mongoVideoRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Video, error) {
	var video domain.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// GetByIDs retrieves the videos with the given IDs in one query.
func (r *mongoVideoRepository) GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Video, error) {
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "userId": userID})
}

// ListByExercise retrieves the videos of one exercise in insertion order.
func (r *mongoVideoRepository) ListByExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.Video, error) {
	return r.find(ctx, bson.M{"exerciseId": exerciseID, "userId": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *mongoVideoRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Video, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []domain.Video{}
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateURL changes the URL of a video.
func (r *mongoVideoRepository) UpdateURL(ctx context.Context, userID, id primitive.ObjectID, url string) (*domain.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video domain.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": bson.M{"url": url}}, opts).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// SetCurrent clears the current flag on every video of the exercise and sets
// it on currentID, in one ordered bulk write.
func (r *mongoVideoRepository) SetCurrent(ctx context.Context, userID, exerciseID, currentID primitive.ObjectID) error {
	models := []mongo.WriteModel{
		mongo.NewUpdateManyModel().
			SetFilter(bson.M{"exerciseId": exerciseID, "userId": userID, "_id": bson.M{"$ne": currentID}}).
			SetUpdate(bson.M{"$set": bson.M{"isCurrent": false}}),
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": currentID, "exerciseId": exerciseID, "userId": userID}).
			SetUpdate(bson.M{"$set": bson.M{"isCurrent": true}}),
	}
	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single video.
func (r *mongoVideoRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByExercises removes every video of the given exercises and returns
// the removed documents so the caller can clean up stored objects.
func (r *mongoVideoRepository) DeleteByExercises(ctx context.Context, userID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.Video, error) {
	if len(exerciseIDs) == 0 {
		return []domain.Video{}, nil
	}
	filter := bson.M{"exerciseId": bson.M{"$in": exerciseIDs}, "userId": userID}
	videos, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return videos, nil
	}
	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return nil, err
	}
	return videos, nil
}

// EnsureVideoIndexes creates necessary indexes for the videos collection.
func EnsureVideoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
