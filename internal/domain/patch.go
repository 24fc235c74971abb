package domain

import (
	"errors"
	"strings"
	"time"
)

// ExercisePatch is a partial update of an exercise. Nil fields are left untouched.
type ExercisePatch struct {
	Name         *string      `json:"name,omitempty"`
	MuscleGroups *[]string    `json:"muscleGroups,omitempty"`
	Sets         *int         `json:"sets,omitempty"`
	Reps         *int         `json:"reps,omitempty"`
	RepsUnit     *RepsUnit    `json:"repsUnit,omitempty"`
	Weight       *float64     `json:"weight,omitempty"`
	WeightUnit   *WeightUnit  `json:"weightUnit,omitempty"`
	Rest         *RestSeconds `json:"rest,omitempty"`
	Tips         *[]string    `json:"tips,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	CircuitID    *string      `json:"circuitId,omitempty"`
}

// Empty reports whether no field is set.
func (p ExercisePatch) Empty() bool {
	return p.Name == nil && p.MuscleGroups == nil && p.Sets == nil && p.Reps == nil &&
		p.RepsUnit == nil && p.Weight == nil && p.WeightUnit == nil && p.Rest == nil &&
		p.Tips == nil && p.Notes == nil && p.CircuitID == nil
}

func (p ExercisePatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name must not be empty")
	}
	if p.Sets != nil && *p.Sets < 0 {
		return errors.New("sets must not be negative")
	}
	if p.Reps != nil && *p.Reps < 0 {
		return errors.New("reps must not be negative")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return errors.New("weight must not be negative")
	}
	if p.RepsUnit != nil && !p.RepsUnit.Valid() {
		return errors.New("repsUnit must be count or seconds")
	}
	if p.WeightUnit != nil && !p.WeightUnit.Valid() {
		return errors.New("weightUnit must be kg or lb")
	}
	return nil
}

// Apply copies the set fields onto ex.
func (p ExercisePatch) Apply(ex *Exercise) {
	if p.Name != nil {
		ex.Name = strings.TrimSpace(*p.Name)
	}
	if p.MuscleGroups != nil {
		ex.MuscleGroups = *p.MuscleGroups
	}
	if p.Sets != nil {
		ex.Sets = *p.Sets
	}
	if p.Reps != nil {
		ex.Reps = *p.Reps
	}
	if p.RepsUnit != nil {
		ex.RepsUnit = *p.RepsUnit
	}
	if p.Weight != nil {
		ex.Weight = *p.Weight
	}
	if p.WeightUnit != nil {
		ex.WeightUnit = *p.WeightUnit
	}
	if p.Rest != nil {
		ex.Rest = *p.Rest
	}
	if p.Tips != nil {
		ex.Tips = *p.Tips
	}
	if p.Notes != nil {
		ex.Notes = *p.Notes
	}
	if p.CircuitID != nil {
		ex.CircuitID = strings.TrimSpace(*p.CircuitID)
	}
}

// ChangesTracked reports whether applying p to ex changes a field that the
// progress log records (sets, reps, weight, their units, or notes).
func (p ExercisePatch) ChangesTracked(ex *Exercise) bool {
	return (p.Sets != nil && *p.Sets != ex.Sets) ||
		(p.Reps != nil && *p.Reps != ex.Reps) ||
		(p.RepsUnit != nil && *p.RepsUnit != ex.RepsUnit) ||
		(p.Weight != nil && *p.Weight != ex.Weight) ||
		(p.WeightUnit != nil && *p.WeightUnit != ex.WeightUnit) ||
		(p.Notes != nil && *p.Notes != ex.Notes)
}

// DayPatch is a partial update of a day.
type DayPatch struct {
	DayName       *string   `json:"dayName,omitempty"`
	MusclesWorked *[]string `json:"musclesWorked,omitempty"`
	WarmupOptions *[]string `json:"warmupOptions,omitempty"`
	Explanation   *string   `json:"explanation,omitempty"`
}

func (p DayPatch) Empty() bool {
	return p.DayName == nil && p.MusclesWorked == nil && p.WarmupOptions == nil && p.Explanation == nil
}

func (p DayPatch) Validate() error {
	if p.DayName != nil && strings.TrimSpace(*p.DayName) == "" {
		return errors.New("dayName must not be empty")
	}
	return nil
}

func (p DayPatch) Apply(d *Day) {
	if p.DayName != nil {
		d.DayName = strings.TrimSpace(*p.DayName)
	}
	if p.MusclesWorked != nil {
		d.MusclesWorked = *p.MusclesWorked
	}
	if p.WarmupOptions != nil {
		d.WarmupOptions = *p.WarmupOptions
	}
	if p.Explanation != nil {
		d.Explanation = *p.Explanation
	}
}

// VideoPatch is a partial update of a video.
type VideoPatch struct {
	URL       *string `json:"url,omitempty"`
	IsCurrent *bool   `json:"isCurrent,omitempty"`
}

func (p VideoPatch) Validate() error {
	if p.URL != nil && strings.TrimSpace(*p.URL) == "" {
		return errors.New("url must not be empty")
	}
	return nil
}

// ProgressEntryPatch is a partial update of a progress log entry.
type ProgressEntryPatch struct {
	Name       *string     `json:"name,omitempty"`
	Sets       *int        `json:"sets,omitempty"`
	Reps       *int        `json:"reps,omitempty"`
	RepsUnit   *RepsUnit   `json:"repsUnit,omitempty"`
	Weight     *float64    `json:"weight,omitempty"`
	WeightUnit *WeightUnit `json:"weightUnit,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
	Date       *time.Time  `json:"date,omitempty"`
}

func (p ProgressEntryPatch) Empty() bool {
	return p.Name == nil && p.Sets == nil && p.Reps == nil && p.RepsUnit == nil &&
		p.Weight == nil && p.WeightUnit == nil && p.Notes == nil && p.Date == nil
}

func (p ProgressEntryPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name must not be empty")
	}
	if (p.Sets != nil && *p.Sets < 0) || (p.Reps != nil && *p.Reps < 0) {
		return errors.New("sets and reps must not be negative")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return errors.New("weight must not be negative")
	}
	if p.RepsUnit != nil && !p.RepsUnit.Valid() {
		return errors.New("repsUnit must be count or seconds")
	}
	if p.WeightUnit != nil && !p.WeightUnit.Valid() {
		return errors.New("weightUnit must be kg or lb")
	}
	return nil
}

func (p ProgressEntryPatch) Apply(e *ProgressEntry) {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Sets != nil {
		e.Sets = *p.Sets
	}
	if p.Reps != nil {
		e.Reps = *p.Reps
	}
	if p.RepsUnit != nil {
		e.RepsUnit = *p.RepsUnit
	}
	if p.Weight != nil {
		e.Weight = *p.Weight
	}
	if p.WeightUnit != nil {
		e.WeightUnit = *p.WeightUnit
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Date != nil {
		e.Date = p.Date.UTC()
	}
}

// Validate checks a progress entry before it is logged.
func (e *ProgressEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("name is required")
	}
	if e.Sets < 0 || e.Reps < 0 || e.Weight < 0 {
		return errors.New("sets, reps and weight must not be negative")
	}
	if e.RepsUnit == "" {
		e.RepsUnit = RepsUnitCount
	}
	if e.WeightUnit == "" {
		e.WeightUnit = WeightUnitKg
	}
	if !e.RepsUnit.Valid() || !e.WeightUnit.Valid() {
		return errors.New("unknown unit")
	}
	return nil
}
