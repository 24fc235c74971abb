package repository

import (
	"context"
	"time"

	"alcyxob/fitness-routines/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Every lookup below that takes a userID filters on it, so a record owned by
// somebody else is reported as ErrNotFound.

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error
	// UpdatePassword stores a new hash and clears any reset token.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// RoutineRepository stores routines. Days are returned as unresolved refs.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Routine, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	Rename(ctx context.Context, userID, id primitive.ObjectID, name string) (*domain.Routine, error)
	AppendDay(ctx context.Context, userID, routineID, dayID primitive.ObjectID) error
	RemoveDay(ctx context.Context, userID, routineID, dayID primitive.ObjectID) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

// DayRepository stores days. Exercises are returned as unresolved refs.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Day, error)
	GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Day, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.DayPatch) (*domain.Day, error)
	AppendExercise(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error
	RemoveExercise(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error
}

// ExerciseRepository stores exercises. Videos are returned as unresolved refs.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.ExercisePatch) (*domain.Exercise, error)
	// ToggleCompleted flips the persisted flag server-side and returns the new state.
	ToggleCompleted(ctx context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error)
	// ResetCompleted clears the flag on every exercise of the given days.
	ResetCompleted(ctx context.Context, userID primitive.ObjectID, dayIDs []primitive.ObjectID) (int64, error)
	SetVideos(ctx context.Context, userID, id primitive.ObjectID, videoIDs []primitive.ObjectID) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error
}

// VideoRepository stores exercise videos.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, videos []domain.Video) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.Video, error)
	GetByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Video, error)
	ListByExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.Video, error)
	UpdateURL(ctx context.Context, userID, id primitive.ObjectID, url string) (*domain.Video, error)
	// SetCurrent marks currentID current and clears the flag on its siblings.
	SetCurrent(ctx context.Context, userID, exerciseID, currentID primitive.ObjectID) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteByExercises(ctx context.Context, userID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.Video, error)
}

// ProgressRepository stores the progress log.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.ProgressEntry, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch domain.ProgressEntryPatch) (*domain.ProgressEntry, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
