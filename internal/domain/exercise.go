// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepsUnit tells whether reps are counted or timed.
type RepsUnit string

const (
	RepsUnitCount   RepsUnit = "count"
	RepsUnitSeconds RepsUnit = "seconds"
)

// Valid reports whether u is a known unit.
func (u RepsUnit) Valid() bool {
	return u == RepsUnitCount || u == RepsUnitSeconds
}

// WeightUnit is the unit the weight is prescribed in.
type WeightUnit string

const (
	WeightUnitKg WeightUnit = "kg"
	WeightUnitLb WeightUnit = "lb"
)

// Valid reports whether u is a known unit.
func (u WeightUnit) Valid() bool {
	return u == WeightUnitKg || u == WeightUnitLb
}

// Exercise is one movement prescription inside a Day.
type Exercise struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"` // Owner, denormalized for auth filters
	DayID  primitive.ObjectID `bson:"dayId" json:"dayId"`   // Link back to the owning day

	Name         string      `bson:"name" json:"name"`
	MuscleGroups []string    `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Sets         int         `bson:"sets" json:"sets"`
	Reps         int         `bson:"reps" json:"reps"`
	RepsUnit     RepsUnit    `bson:"repsUnit" json:"repsUnit"`
	Weight       float64     `bson:"weight" json:"weight"`
	WeightUnit   WeightUnit  `bson:"weightUnit" json:"weightUnit"`
	Rest         RestSeconds `bson:"rest" json:"rest"` // Seconds between sets
	Tips         []string    `bson:"tips,omitempty" json:"tips,omitempty"`
	Notes        string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CircuitID    string      `bson:"circuitId,omitempty" json:"circuitId,omitempty"` // Exercises sharing it form a circuit

	Completed bool         `bson:"completed" json:"completed"`
	Videos    []Ref[Video] `bson:"videos" json:"videos"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedVideos returns the loaded videos in order, skipping unresolved refs.
func (e *Exercise) ResolvedVideos() []Video {
	videos := make([]Video, 0, len(e.Videos))
	for _, ref := range e.Videos {
		if ref.Value != nil {
			videos = append(videos, *ref.Value)
		}
	}
	return videos
}

// CurrentVideo returns the video flagged as current, if loaded.
func (e *Exercise) CurrentVideo() *Video {
	for _, ref := range e.Videos {
		if ref.Value != nil && ref.Value.IsCurrent {
			return ref.Value
		}
	}
	return nil
}
