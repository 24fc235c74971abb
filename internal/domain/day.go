package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Day is one training session template within a Routine.
type Day struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`       // Owner, denormalized for auth filters
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"` // Link back to the routine

	DayName       string   `bson:"dayName" json:"dayName"` // e.g., "Day 1: Push"
	MusclesWorked []string `bson:"musclesWorked,omitempty" json:"musclesWorked,omitempty"`
	WarmupOptions []string `bson:"warmupOptions,omitempty" json:"warmupOptions,omitempty"`
	Explanation   string   `bson:"explanation,omitempty" json:"explanation,omitempty"`

	// Order is significant
	Exercises []Ref[Exercise] `bson:"exercises" json:"exercises"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedExercises returns the loaded exercises in order, skipping unresolved refs.
func (d *Day) ResolvedExercises() []Exercise {
	exercises := make([]Exercise, 0, len(d.Exercises))
	for _, ref := range d.Exercises {
		if ref.Value != nil {
			exercises = append(exercises, *ref.Value)
		}
	}
	return exercises
}
