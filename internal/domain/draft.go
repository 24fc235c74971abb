package domain

import (
	"errors"
	"fmt"
	"strings"
)

// RoutineDraft is an unsaved routine, produced by the AI generator, a TOML
// file or a manual authoring form. Saving it is a separate, explicit step.
type RoutineDraft struct {
	Name string     `json:"name" toml:"name"`
	Days []DayDraft `json:"days" toml:"day"`
}

// DayDraft is an unsaved day.
type DayDraft struct {
	DayName       string          `json:"dayName" toml:"name"`
	MusclesWorked []string        `json:"musclesWorked,omitempty" toml:"muscles_worked"`
	WarmupOptions []string        `json:"warmupOptions,omitempty" toml:"warmup_options"`
	Explanation   string          `json:"explanation,omitempty" toml:"explanation"`
	Exercises     []ExerciseDraft `json:"exercises" toml:"exercise"`
}

// ExerciseDraft is an unsaved exercise prescription.
type ExerciseDraft struct {
	Name         string      `json:"name" toml:"name"`
	MuscleGroups []string    `json:"muscleGroups,omitempty" toml:"muscle_groups"`
	Sets         int         `json:"sets" toml:"sets"`
	Reps         int         `json:"reps" toml:"reps"`
	RepsUnit     RepsUnit    `json:"repsUnit,omitempty" toml:"reps_unit"`
	Weight       float64     `json:"weight,omitempty" toml:"weight"`
	WeightUnit   WeightUnit  `json:"weightUnit,omitempty" toml:"weight_unit"`
	Rest         RestSeconds `json:"rest,omitempty" toml:"rest_seconds"`
	Tips         []string    `json:"tips,omitempty" toml:"tips"`
	Notes        string      `json:"notes,omitempty" toml:"notes"`
	CircuitID    string      `json:"circuitId,omitempty" toml:"circuit"`
}

// Normalize trims names and fills default units.
func (d *ExerciseDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.CircuitID = strings.TrimSpace(d.CircuitID)
	if d.RepsUnit == "" {
		d.RepsUnit = RepsUnitCount
	}
	if d.WeightUnit == "" {
		d.WeightUnit = WeightUnitKg
	}
}

// Validate checks an exercise draft. Call Normalize first.
func (d *ExerciseDraft) Validate() error {
	if d.Name == "" {
		return errors.New("exercise name is required")
	}
	if d.Sets < 0 || d.Reps < 0 {
		return fmt.Errorf("exercise %q: sets and reps must not be negative", d.Name)
	}
	if d.Weight < 0 {
		return fmt.Errorf("exercise %q: weight must not be negative", d.Name)
	}
	if !d.RepsUnit.Valid() {
		return fmt.Errorf("exercise %q: unknown reps unit %q", d.Name, d.RepsUnit)
	}
	if !d.WeightUnit.Valid() {
		return fmt.Errorf("exercise %q: unknown weight unit %q", d.Name, d.WeightUnit)
	}
	return nil
}

// Normalize trims names and normalizes every exercise.
func (d *DayDraft) Normalize() {
	d.DayName = strings.TrimSpace(d.DayName)
	for i := range d.Exercises {
		d.Exercises[i].Normalize()
	}
}

// Validate checks a day draft. Call Normalize first.
func (d *DayDraft) Validate() error {
	if d.DayName == "" {
		return errors.New("day name is required")
	}
	if len(d.Exercises) == 0 {
		return fmt.Errorf("day %q has no exercises", d.DayName)
	}
	for i := range d.Exercises {
		if err := d.Exercises[i].Validate(); err != nil {
			return fmt.Errorf("day %q: %w", d.DayName, err)
		}
	}
	return nil
}

// Normalize trims names and normalizes every day.
func (d *RoutineDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	for i := range d.Days {
		d.Days[i].Normalize()
	}
}

// Validate checks that the draft can be saved as a listable routine.
func (d *RoutineDraft) Validate() error {
	if d.Name == "" {
		return errors.New("routine name is required")
	}
	if len(d.Days) == 0 {
		return errors.New("routine needs at least one day")
	}
	for i := range d.Days {
		if err := d.Days[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToExercise builds an unsaved Exercise from the draft.
func (d *ExerciseDraft) ToExercise() *Exercise {
	return &Exercise{
		Name:         d.Name,
		MuscleGroups: d.MuscleGroups,
		Sets:         d.Sets,
		Reps:         d.Reps,
		RepsUnit:     d.RepsUnit,
		Weight:       d.Weight,
		WeightUnit:   d.WeightUnit,
		Rest:         d.Rest,
		Tips:         d.Tips,
		Notes:        d.Notes,
		CircuitID:    d.CircuitID,
		Videos:       []Ref[Video]{},
	}
}
