package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"
	"alcyxob/fitness-routines/internal/service"
	"alcyxob/fitness-routines/internal/videosearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func ptr[T any](v T) *T { return &v }

func videoURLs(ex *domain.Exercise) []string {
	var urls []string
	for _, v := range ex.ResolvedVideos() {
		urls = append(urls, v.URL)
	}
	return urls
}

func TestExerciseService_UpdateLogsTrackedChanges(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	updated, err := f.exercises.UpdateExercise(ctx, f.userID, ex.ID, domain.ExercisePatch{
		Sets:   ptr(ex.Sets + 1),
		Weight: ptr(ex.Weight + 2.5),
	})
	require.NoError(t, err)
	assert.Equal(t, ex.Sets+1, updated.Sets)
	assert.Equal(t, ex.Name, updated.Name)

	entries, err := f.store.Progress().ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ex.Name, entries[0].Name)
	assert.Equal(t, ex.Sets+1, entries[0].Sets)
	assert.Equal(t, ex.Weight+2.5, entries[0].Weight)

	// Renaming, or writing the same values again, is not a tracked change.
	_, err = f.exercises.UpdateExercise(ctx, f.userID, ex.ID, domain.ExercisePatch{
		Name: ptr("Incline Press"),
		Sets: ptr(ex.Sets + 1),
	})
	require.NoError(t, err)
	entries, err = f.store.Progress().ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExerciseService_UpdateRejects(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	tests := []struct {
		name   string
		userID primitive.ObjectID
		patch  domain.ExercisePatch
		want   error
	}{
		{name: "empty patch", userID: f.userID, want: service.ErrValidation},
		{name: "blank name", userID: f.userID, patch: domain.ExercisePatch{Name: ptr("  ")}, want: service.ErrValidation},
		{name: "negative sets", userID: f.userID, patch: domain.ExercisePatch{Sets: ptr(-1)}, want: service.ErrValidation},
		{name: "unknown unit", userID: f.userID, patch: domain.ExercisePatch{RepsUnit: ptr(domain.RepsUnit("laps"))}, want: service.ErrValidation},
		{name: "not owner", userID: primitive.NewObjectID(), patch: domain.ExercisePatch{Sets: ptr(3)}, want: service.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.exercises.UpdateExercise(ctx, tt.userID, ex.ID, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExerciseService_ToggleCompleted(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	got, err := f.exercises.ToggleCompleted(ctx, f.userID, ex.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	got, err = f.exercises.ToggleCompleted(ctx, f.userID, ex.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = f.exercises.ToggleCompleted(ctx, primitive.NewObjectID(), ex.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestExerciseService_SetVideosKeepsOneCurrent(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	tests := []struct {
		name        string
		inputs      []service.VideoInput
		wantCurrent string
	}{
		{
			name:        "none marked",
			inputs:      []service.VideoInput{{URL: "https://v/1"}, {URL: "https://v/2"}},
			wantCurrent: "https://v/1",
		},
		{
			name:        "several marked",
			inputs:      []service.VideoInput{{URL: "https://v/1"}, {URL: "https://v/2", IsCurrent: true}, {URL: "https://v/3", IsCurrent: true}},
			wantCurrent: "https://v/2",
		},
		{
			name:        "single",
			inputs:      []service.VideoInput{{URL: "https://v/9", IsCurrent: false}},
			wantCurrent: "https://v/9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.exercises.SetVideos(ctx, f.userID, ex.ID, tt.inputs)
			require.NoError(t, err)
			require.Len(t, got.ResolvedVideos(), len(tt.inputs))
			assert.Equal(t, 1, currentCount(got))
			assert.Equal(t, tt.wantCurrent, got.CurrentVideo().URL)

			stored, err := f.store.Videos().ListByExercise(ctx, f.userID, ex.ID)
			require.NoError(t, err)
			assert.Len(t, stored, len(tt.inputs), "old videos are replaced")
		})
	}

	got, err := f.exercises.SetVideos(ctx, f.userID, ex.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.ResolvedVideos())
	assert.Nil(t, got.CurrentVideo())

	_, err = f.exercises.SetVideos(ctx, f.userID, ex.ID, []service.VideoInput{{URL: " "}})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestExerciseService_SwitchVideo(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	_, err := f.exercises.SwitchVideo(ctx, f.userID, ex.ID, service.SwitchNext)
	assert.ErrorIs(t, err, service.ErrValidation, "no videos to switch between")

	_, err = f.exercises.SetVideos(ctx, f.userID, ex.ID, []service.VideoInput{
		{URL: "https://v/1"}, {URL: "https://v/2"}, {URL: "https://v/3"},
	})
	require.NoError(t, err)

	steps := []struct {
		dir  service.SwitchDirection
		want string
	}{
		{service.SwitchNext, "https://v/2"},
		{service.SwitchNext, "https://v/3"},
		{service.SwitchNext, "https://v/1"},
		{service.SwitchPrevious, "https://v/3"},
	}
	for _, step := range steps {
		got, err := f.exercises.SwitchVideo(ctx, f.userID, ex.ID, step.dir)
		require.NoError(t, err)
		assert.Equal(t, 1, currentCount(got))
		assert.Equal(t, step.want, got.CurrentVideo().URL)
	}

	_, err = f.exercises.SwitchVideo(ctx, f.userID, ex.ID, "sideways")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestExerciseService_AddUpdateDeleteVideo(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	got, err := f.exercises.AddVideo(ctx, f.userID, ex.ID, service.VideoInput{URL: "https://v/1"})
	require.NoError(t, err)
	assert.Equal(t, "https://v/1", got.CurrentVideo().URL, "first video becomes current")

	got, err = f.exercises.AddVideo(ctx, f.userID, ex.ID, service.VideoInput{URL: "https://v/2"})
	require.NoError(t, err)
	assert.Equal(t, "https://v/1", got.CurrentVideo().URL)

	got, err = f.exercises.AddVideo(ctx, f.userID, ex.ID, service.VideoInput{URL: "https://v/3", IsCurrent: true})
	require.NoError(t, err)
	assert.Equal(t, "https://v/3", got.CurrentVideo().URL)
	assert.Equal(t, []string{"https://v/1", "https://v/2", "https://v/3"}, videoURLs(got))

	second := got.ResolvedVideos()[1]
	got, err = f.exercises.UpdateVideo(ctx, f.userID, second.ID, domain.VideoPatch{URL: ptr("https://v/2b"), IsCurrent: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "https://v/2b", got.CurrentVideo().URL)
	assert.Equal(t, 1, currentCount(got))

	// Unsetting the current flag hands it to the next video.
	got, err = f.exercises.UpdateVideo(ctx, f.userID, second.ID, domain.VideoPatch{IsCurrent: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "https://v/3", got.CurrentVideo().URL)

	current := got.CurrentVideo().ID
	got, err = f.exercises.DeleteVideo(ctx, f.userID, current)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://v/1", "https://v/2b"}, videoURLs(got))
	assert.Equal(t, 1, currentCount(got))
	assert.Equal(t, "https://v/1", got.CurrentVideo().URL)

	_, err = f.exercises.DeleteVideo(ctx, f.userID, current)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.exercises.UpdateVideo(ctx, primitive.NewObjectID(), second.ID, domain.VideoPatch{IsCurrent: ptr(true)})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestExerciseService_SearchVideos(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := NewMockVideoSearcher(ctrl)
	f := newFixture(t, searcher, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	_, err := f.exercises.AddVideo(ctx, f.userID, ex.ID, service.VideoInput{URL: "https://www.youtube.com/watch?v=a"})
	require.NoError(t, err)

	searcher.EXPECT().
		Search(gomock.Any(), ex.Name+" exercise form").
		Return([]videosearch.Result{
			{VideoID: "a", URL: "https://www.youtube.com/watch?v=a"},
			{VideoID: "b", URL: "https://www.youtube.com/watch?v=b"},
			{VideoID: "c", URL: "https://www.youtube.com/watch?v=c"},
		}, nil)

	got, err := f.exercises.SearchVideos(ctx, f.userID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=b",
		"https://www.youtube.com/watch?v=c",
	}, videoURLs(got))
	assert.Equal(t, "https://www.youtube.com/watch?v=a", got.CurrentVideo().URL)
	for _, v := range got.ResolvedVideos()[1:] {
		assert.Equal(t, domain.VideoSourceSearch, v.Source)
	}

	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded"))
	_, err = f.exercises.SearchVideos(ctx, f.userID, ex.ID)
	assert.ErrorIs(t, err, service.ErrUpstream)
}

func TestExerciseService_SearchVideosFirstBecomesCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := NewMockVideoSearcher(ctrl)
	f := newFixture(t, searcher, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]videosearch.Result{
		{VideoID: "x", URL: "https://www.youtube.com/watch?v=x"},
		{VideoID: "y", URL: "https://www.youtube.com/watch?v=y"},
	}, nil)

	got, err := f.exercises.SearchVideos(ctx, f.userID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, currentCount(got))
	assert.Equal(t, "https://www.youtube.com/watch?v=x", got.CurrentVideo().URL)
}

func TestExerciseService_FeaturesDisabled(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))

	_, err := f.exercises.SearchVideos(ctx, f.userID, ex.ID)
	assert.ErrorIs(t, err, service.ErrFeatureDisabled)
	_, err = f.exercises.RequestUploadURL(ctx, f.userID, ex.ID, "video/mp4")
	assert.ErrorIs(t, err, service.ErrFeatureDisabled)
	_, err = f.exercises.ConfirmUpload(ctx, f.userID, ex.ID, "uploads/x")
	assert.ErrorIs(t, err, service.ErrFeatureDisabled)
}

func TestExerciseService_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockObjectStorage(ctrl)
	f := newFixture(t, nil, storage)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))
	prefix := "uploads/" + f.userID.Hex() + "/" + ex.ID.Hex() + "/"

	storage.EXPECT().
		GeneratePresignedUploadURL(gomock.Any(), gomock.Any(), "video/mp4", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, _ time.Duration) (string, error) {
			return "https://s3.example/put/" + key, nil
		})
	ticket, err := f.exercises.RequestUploadURL(ctx, f.userID, ex.ID, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.ObjectKey, prefix), ticket.ObjectKey)
	assert.True(t, strings.HasSuffix(ticket.ObjectKey, ".mp4"))
	assert.Equal(t, "https://s3.example/put/"+ticket.ObjectKey, ticket.UploadURL)

	_, err = f.exercises.RequestUploadURL(ctx, f.userID, ex.ID, "image/png")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.exercises.ConfirmUpload(ctx, f.userID, ex.ID, "uploads/someone-else/"+ex.ID.Hex()+"/x.mp4")
	assert.ErrorIs(t, err, service.ErrValidation)

	storage.EXPECT().ObjectExists(gomock.Any(), ticket.ObjectKey).Return(true, nil)
	storage.EXPECT().
		GeneratePresignedDownloadURL(gomock.Any(), ticket.ObjectKey, gomock.Any()).
		Return("https://s3.example/get/signed", nil).
		AnyTimes()
	got, err := f.exercises.ConfirmUpload(ctx, f.userID, ex.ID, ticket.ObjectKey)
	require.NoError(t, err)
	current := got.CurrentVideo()
	require.NotNil(t, current)
	assert.Equal(t, domain.VideoSourceUpload, current.Source)
	assert.Equal(t, "https://s3.example/get/signed", current.URL)

	_, err = f.exercises.ConfirmUpload(ctx, f.userID, ex.ID, ticket.ObjectKey)
	assert.ErrorIs(t, err, service.ErrValidation, "same upload twice")

	storage.EXPECT().DeleteObject(gomock.Any(), ticket.ObjectKey).Return(nil)
	got, err = f.exercises.DeleteVideo(ctx, f.userID, current.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ResolvedVideos())
}

func TestExerciseService_ConfirmUploadMissingObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockObjectStorage(ctrl)
	f := newFixture(t, nil, storage)
	ctx := context.Background()
	ex := f.firstExercise(t, f.createRoutine(t))
	key := "uploads/" + f.userID.Hex() + "/" + ex.ID.Hex() + "/missing.mp4"

	storage.EXPECT().ObjectExists(gomock.Any(), key).Return(false, nil)
	_, err := f.exercises.ConfirmUpload(ctx, f.userID, ex.ID, key)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestExerciseService_DeleteExercise(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	view := f.createRoutine(t)
	pull := view.Days[1]
	target := pull.ResolvedExercises()[1]

	_, err := f.exercises.AddVideo(ctx, f.userID, target.ID, service.VideoInput{URL: "https://v/1"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.exercises.DeleteExercise(ctx, primitive.NewObjectID(), target.ID), service.ErrNotFound)
	require.NoError(t, f.exercises.DeleteExercise(ctx, f.userID, target.ID))

	day, err := f.routines.GetDay(ctx, f.userID, pull.ID)
	require.NoError(t, err)
	assert.Len(t, day.ResolvedExercises(), 2)
	assert.Len(t, day.Exercises, 2, "the reference is detached")

	_, err = f.store.Exercises().GetByID(ctx, f.userID, target.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	videos, err := f.store.Videos().ListByExercise(ctx, f.userID, target.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)
}
