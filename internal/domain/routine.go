package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a named, user-owned multi-day workout plan.
type Routine struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Name   string             `bson:"name" json:"name"`

	// Order is significant
	Days []Ref[Day] `bson:"days" json:"days"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedDays returns the loaded days in order, skipping unresolved refs.
func (r *Routine) ResolvedDays() []Day {
	days := make([]Day, 0, len(r.Days))
	for _, ref := range r.Days {
		if ref.Value != nil {
			days = append(days, *ref.Value)
		}
	}
	return days
}

// Listable reports whether a resolved routine may appear in listings:
// it needs at least one day, and every day needs at least one exercise.
func (r *Routine) Listable() bool {
	if len(r.Days) == 0 {
		return false
	}
	for _, ref := range r.Days {
		if ref.Value == nil || len(ref.Value.Exercises) == 0 {
			return false
		}
	}
	return true
}
