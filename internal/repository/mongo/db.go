package mongo

import (
	"context"
	"fmt"
	"time"

	"alcyxob/fitness-routines/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily, so ping the primary to catch an unreachable server.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// Repositories bundles one repository per collection.
type Repositories struct {
	Users     repository.UserRepository
	Routines  repository.RoutineRepository
	Days      repository.DayRepository
	Exercises repository.ExerciseRepository
	Videos    repository.VideoRepository
	Progress  repository.ProgressRepository
}

// NewRepositories creates every repository on db.
func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:     NewMongoUserRepository(db),
		Routines:  NewMongoRoutineRepository(db),
		Days:      NewMongoDayRepository(db),
		Exercises: NewMongoExerciseRepository(db),
		Videos:    NewMongoVideoRepository(db),
		Progress:  NewMongoProgressRepository(db),
	}
}

// Resolver returns a reference resolver backed by these repositories.
func (r *Repositories) Resolver() *repository.Resolver {
	return &repository.Resolver{Days: r.Days, Exercises: r.Exercises, Videos: r.Videos}
}

// EnsureIndexes creates the indexes of every collection. All collections are
// attempted; failures are combined.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := []struct {
		name string
		fn   func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{routineCollectionName, EnsureRoutineIndexes},
		{dayCollectionName, EnsureDayIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{videoCollectionName, EnsureVideoIndexes},
		{progressCollectionName, EnsureProgressIndexes},
	}

	var errs error
	for _, e := range ensure {
		if err := e.fn(ctx, db.Collection(e.name)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("indexes for %s: %w", e.name, err))
		}
	}
	return errs
}
