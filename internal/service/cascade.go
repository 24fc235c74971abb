package service

import (
	"context"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// cascade removes documents together with everything they own. Every step
// is attempted even when an earlier one failed; failures are combined.
type cascade struct {
	days      repository.DayRepository
	exercises repository.ExerciseRepository
	videos    repository.VideoRepository
	storage   ObjectStorage
}

func (c cascade) deleteDays(ctx context.Context, userID primitive.ObjectID, dayIDs []primitive.ObjectID) error {
	if len(dayIDs) == 0 {
		return nil
	}
	var errs error
	days, err := c.days.GetByIDs(ctx, userID, dayIDs)
	errs = multierr.Append(errs, err)

	var exerciseIDs []primitive.ObjectID
	for _, day := range days {
		exerciseIDs = append(exerciseIDs, domain.RefIDs(day.Exercises)...)
	}
	errs = multierr.Append(errs, c.deleteExercises(ctx, userID, exerciseIDs))
	errs = multierr.Append(errs, c.days.DeleteMany(ctx, userID, dayIDs))
	return errs
}

func (c cascade) deleteExercises(ctx context.Context, userID primitive.ObjectID, exerciseIDs []primitive.ObjectID) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	var errs error
	videos, err := c.videos.DeleteByExercises(ctx, userID, exerciseIDs)
	errs = multierr.Append(errs, err)
	c.deleteObjects(ctx, videos)
	errs = multierr.Append(errs, c.exercises.DeleteMany(ctx, userID, exerciseIDs))
	return errs
}

// deleteObjects removes the stored files of uploaded videos. A failure only
// leaves an orphaned object behind, so it is logged rather than returned.
func (c cascade) deleteObjects(ctx context.Context, videos []domain.Video) {
	if c.storage == nil {
		return
	}
	for _, v := range videos {
		if v.Source != domain.VideoSourceUpload || v.ObjectKey == "" {
			continue
		}
		if err := c.storage.DeleteObject(ctx, v.ObjectKey); err != nil {
			log.Warnf("delete object %s of video %s: %s", v.ObjectKey, v.ID.Hex(), err)
		}
	}
}
