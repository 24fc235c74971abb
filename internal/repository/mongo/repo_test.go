package mongo

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestUserRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &domain.User{Email: "a@b.c", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Email: "a@b.c", PasswordHash: "hash"}
		id, err := repo.Create(ctx, user)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, id, user.ID)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "a@b.c"},
			{Key: "name", Value: "Ana"},
		}))

		user, err := repo.GetByEmail(ctx, "a@b.c")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "Ana", user.Name)
	})

	mt.Run("get by email not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetByEmail(ctx, "missing@b.c")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("empty reset token never matches", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.GetByResetToken(ctx, "")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("update password on missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdatePassword(ctx, primitive.NewObjectID(), "hash")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestRoutineRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("get decodes unresolved day refs", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		id, day1, day2 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.routines", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: userID},
			{Key: "name", Value: "Push Pull Legs"},
			{Key: "days", Value: bson.A{day1, day2}},
		}))

		routine, err := repo.GetByID(ctx, userID, id)
		require.NoError(mt, err)
		assert.Equal(mt, "Push Pull Legs", routine.Name)
		assert.Equal(mt, []primitive.ObjectID{day1, day2}, domain.RefIDs(routine.Days))
		assert.False(mt, routine.Days[0].IsResolved())
	})

	mt.Run("create requires name", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.Routine{UserID: userID})
		assert.Error(mt, err)
	})

	mt.Run("delete not owned", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, userID, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("rename returns updated routine", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: userID},
			{Key: "name", Value: "Upper Lower"},
			{Key: "days", Value: bson.A{}},
		}}))

		routine, err := repo.Rename(ctx, userID, id, "Upper Lower")
		require.NoError(mt, err)
		assert.Equal(mt, "Upper Lower", routine.Name)
	})
}

func TestExerciseRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("toggle returns persisted state", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: userID},
			{Key: "name", Value: "Squat"},
			{Key: "completed", Value: true},
			{Key: "videos", Value: bson.A{}},
		}}))

		ex, err := repo.ToggleCompleted(ctx, userID, id)
		require.NoError(mt, err)
		assert.True(mt, ex.Completed)
	})

	mt.Run("reset counts modified exercises", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}, bson.E{Key: "nModified", Value: 3}))

		n, err := repo.ResetCompleted(ctx, userID, []primitive.ObjectID{primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})

	mt.Run("reset without days is a no-op", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		n, err := repo.ResetCompleted(ctx, userID, nil)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})

	mt.Run("get by ids", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.exercises", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "name", Value: "Squat"}, {Key: "rest", Value: 90}},
			bson.D{{Key: "_id", Value: b}, {Key: "name", Value: "Lunge"}, {Key: "circuitId", Value: "A"}},
		))

		exercises, err := repo.GetByIDs(ctx, userID, []primitive.ObjectID{a, b})
		require.NoError(mt, err)
		require.Len(mt, exercises, 2)
		assert.Equal(mt, domain.RestSeconds(90), exercises[0].Rest)
		assert.Equal(mt, "A", exercises[1].CircuitID)
	})
}

func TestVideoRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("set current", func(mt *mtest.T) {
		repo := NewMongoVideoRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := repo.SetCurrent(ctx, userID, primitive.NewObjectID(), primitive.NewObjectID())
		assert.NoError(mt, err)
	})

	mt.Run("set current on a foreign exercise", func(mt *mtest.T) {
		repo := NewMongoVideoRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		err := repo.SetCurrent(ctx, userID, primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("create many keeps order", func(mt *mtest.T) {
		repo := NewMongoVideoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		exID := primitive.NewObjectID()
		videos := []domain.Video{
			{UserID: userID, ExerciseID: exID, URL: "https://youtu.be/1"},
			{UserID: userID, ExerciseID: exID, URL: "https://youtu.be/2"},
		}
		ids, err := repo.CreateMany(ctx, videos)
		require.NoError(mt, err)
		assert.Equal(mt, []primitive.ObjectID{videos[0].ID, videos[1].ID}, ids)
	})

	mt.Run("create rejects empty url", func(mt *mtest.T) {
		repo := NewMongoVideoRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.Video{UserID: userID, ExerciseID: primitive.NewObjectID()})
		assert.Error(mt, err)
	})
}

func TestProgressRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("list newest first", func(mt *mtest.T) {
		repo := NewMongoProgressRepository(mt.DB)
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.progress_entries", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Bench"}, {Key: "date", Value: now}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Row"}, {Key: "date", Value: now.Add(-time.Hour)}},
		))

		entries, err := repo.ListByUser(ctx, userID)
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, "Bench", entries[0].Name)
		assert.True(mt, entries[0].Date.Equal(now))
	})

	mt.Run("delete all", func(mt *mtest.T) {
		repo := NewMongoProgressRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 7}))

		n, err := repo.DeleteAllByUser(ctx, userID)
		require.NoError(mt, err)
		assert.EqualValues(mt, 7, n)
	})

	mt.Run("create defaults date", func(mt *mtest.T) {
		repo := NewMongoProgressRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry := &domain.ProgressEntry{UserID: userID, Name: "Deadlift", Sets: 5, Reps: 5}
		_, err := repo.Create(ctx, entry)
		require.NoError(mt, err)
		assert.False(mt, entry.Date.IsZero())
	})
}
