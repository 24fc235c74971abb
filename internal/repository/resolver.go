package repository

import (
	"context"

	"alcyxob/fitness-routines/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolver loads the children behind domain.Ref values. Each level is fetched
// with a single batched lookup; refs whose target no longer exists stay
// unresolved.
type Resolver struct {
	Days      DayRepository
	Exercises ExerciseRepository
	Videos    VideoRepository
}

// ResolveRoutines resolves days, exercises and videos of every routine.
func (r *Resolver) ResolveRoutines(ctx context.Context, userID primitive.ObjectID, routines []domain.Routine) error {
	var dayIDs []primitive.ObjectID
	for i := range routines {
		dayIDs = append(dayIDs, domain.RefIDs(routines[i].Days)...)
	}
	if len(dayIDs) == 0 {
		return nil
	}
	days, err := r.Days.GetByIDs(ctx, userID, dayIDs)
	if err != nil {
		return err
	}
	if err := r.resolveDays(ctx, userID, days); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*domain.Day, len(days))
	for i := range days {
		byID[days[i].ID] = &days[i]
	}
	for i := range routines {
		for j, ref := range routines[i].Days {
			if d, ok := byID[ref.ID]; ok {
				routines[i].Days[j] = domain.Resolved(ref.ID, d)
			}
		}
	}
	return nil
}

// ResolveRoutine resolves a single routine.
func (r *Resolver) ResolveRoutine(ctx context.Context, userID primitive.ObjectID, routine *domain.Routine) error {
	routines := []domain.Routine{*routine}
	if err := r.ResolveRoutines(ctx, userID, routines); err != nil {
		return err
	}
	*routine = routines[0]
	return nil
}

// ResolveDay resolves the exercises of day and their videos.
func (r *Resolver) ResolveDay(ctx context.Context, userID primitive.ObjectID, day *domain.Day) error {
	days := []domain.Day{*day}
	if err := r.resolveDays(ctx, userID, days); err != nil {
		return err
	}
	*day = days[0]
	return nil
}

// ResolveExercise resolves the videos of a single exercise.
func (r *Resolver) ResolveExercise(ctx context.Context, userID primitive.ObjectID, ex *domain.Exercise) error {
	exercises := []domain.Exercise{*ex}
	if err := r.resolveExercises(ctx, userID, exercises); err != nil {
		return err
	}
	*ex = exercises[0]
	return nil
}

func (r *Resolver) resolveDays(ctx context.Context, userID primitive.ObjectID, days []domain.Day) error {
	var exerciseIDs []primitive.ObjectID
	for i := range days {
		exerciseIDs = append(exerciseIDs, domain.RefIDs(days[i].Exercises)...)
	}
	if len(exerciseIDs) == 0 {
		return nil
	}
	exercises, err := r.Exercises.GetByIDs(ctx, userID, exerciseIDs)
	if err != nil {
		return err
	}
	if err := r.resolveExercises(ctx, userID, exercises); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*domain.Exercise, len(exercises))
	for i := range exercises {
		byID[exercises[i].ID] = &exercises[i]
	}
	for i := range days {
		for j, ref := range days[i].Exercises {
			if ex, ok := byID[ref.ID]; ok {
				days[i].Exercises[j] = domain.Resolved(ref.ID, ex)
			}
		}
	}
	return nil
}

func (r *Resolver) resolveExercises(ctx context.Context, userID primitive.ObjectID, exercises []domain.Exercise) error {
	var videoIDs []primitive.ObjectID
	for i := range exercises {
		videoIDs = append(videoIDs, domain.RefIDs(exercises[i].Videos)...)
	}
	if len(videoIDs) == 0 {
		return nil
	}
	videos, err := r.Videos.GetByIDs(ctx, userID, videoIDs)
	if err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*domain.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	for i := range exercises {
		for j, ref := range exercises[i].Videos {
			if v, ok := byID[ref.ID]; ok {
				exercises[i].Videos[j] = domain.Resolved(ref.ID, v)
			}
		}
	}
	return nil
}
