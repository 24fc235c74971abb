package service_test

import (
	"context"
	"testing"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository/memory"
	"alcyxob/fitness-routines/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store     *memory.Store
	routines  service.RoutineService
	exercises service.ExerciseService
	userID    primitive.ObjectID
}

func newFixture(t *testing.T, searcher service.VideoSearcher, storage service.ObjectStorage) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store: store,
		routines: service.NewRoutineService(
			store.Routines(), store.Days(), store.Exercises(), store.Videos(), store.Resolver(), storage,
		),
		exercises: service.NewExerciseService(
			store.Days(), store.Exercises(), store.Videos(), store.Progress(), store.Resolver(), searcher, storage,
		),
		userID: primitive.NewObjectID(),
	}
}

func fakeExercise(circuit string) domain.ExerciseDraft {
	return domain.ExerciseDraft{
		Name:         gofakeit.Noun() + " " + gofakeit.Verb(),
		MuscleGroups: []string{gofakeit.Noun()},
		Sets:         gofakeit.Number(1, 5),
		Reps:         gofakeit.Number(5, 15),
		Weight:       float64(gofakeit.Number(0, 100)),
		Rest:         domain.RestSeconds(gofakeit.Number(30, 120)),
		CircuitID:    circuit,
	}
}

// twoDayDraft has one exercise on the first day and three on the second,
// two of which form circuit "A".
func twoDayDraft() domain.RoutineDraft {
	return domain.RoutineDraft{
		Name: gofakeit.AppName(),
		Days: []domain.DayDraft{
			{DayName: "Day 1: Push", Exercises: []domain.ExerciseDraft{fakeExercise("")}},
			{DayName: "Day 2: Pull", Exercises: []domain.ExerciseDraft{
				fakeExercise("A"), fakeExercise(""), fakeExercise("A"),
			}},
		},
	}
}

func (f *fixture) createRoutine(t *testing.T) *service.RoutineView {
	t.Helper()
	view, err := f.routines.CreateRoutine(context.Background(), f.userID, twoDayDraft())
	require.NoError(t, err)
	return view
}

func (f *fixture) firstExercise(t *testing.T, view *service.RoutineView) domain.Exercise {
	t.Helper()
	require.NotEmpty(t, view.Days)
	exercises := view.Days[0].ResolvedExercises()
	require.NotEmpty(t, exercises)
	return exercises[0]
}

func currentCount(ex *domain.Exercise) int {
	n := 0
	for _, v := range ex.ResolvedVideos() {
		if v.IsCurrent {
			n++
		}
	}
	return n
}
