package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressEntry is one append-only record of what a user actually performed.
// It is independent of the Exercise prescription it may have been copied from.
type ProgressEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"` // Exercise name at the time of logging
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	RepsUnit   RepsUnit           `bson:"repsUnit" json:"repsUnit"`
	Weight     float64            `bson:"weight" json:"weight"`
	WeightUnit WeightUnit         `bson:"weightUnit" json:"weightUnit"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Date       time.Time          `bson:"date" json:"date"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewProgressEntryFromExercise snapshots an exercise prescription.
func NewProgressEntryFromExercise(ex *Exercise, date time.Time) *ProgressEntry {
	return &ProgressEntry{
		UserID:     ex.UserID,
		Name:       ex.Name,
		Sets:       ex.Sets,
		Reps:       ex.Reps,
		RepsUnit:   ex.RepsUnit,
		Weight:     ex.Weight,
		WeightUnit: ex.WeightUnit,
		Notes:      ex.Notes,
		Date:       date,
	}
}
