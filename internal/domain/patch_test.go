package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestExercisePatch_Validate(t *testing.T) {
	assert.NoError(t, ExercisePatch{}.Validate())
	assert.NoError(t, ExercisePatch{Sets: ptr(0), WeightUnit: ptr(WeightUnitLb)}.Validate())

	assert.Error(t, ExercisePatch{Name: ptr("  ")}.Validate())
	assert.Error(t, ExercisePatch{Reps: ptr(-1)}.Validate())
	assert.Error(t, ExercisePatch{RepsUnit: ptr(RepsUnit("minutes"))}.Validate())
}

func TestExercisePatch_ApplyOnlyProvidedFields(t *testing.T) {
	ex := &Exercise{Name: "Squat", Sets: 3, Reps: 10, Weight: 60, Notes: "keep"}
	ExercisePatch{Reps: ptr(12), Weight: ptr(65.5)}.Apply(ex)

	assert.Equal(t, "Squat", ex.Name)
	assert.Equal(t, 3, ex.Sets)
	assert.Equal(t, 12, ex.Reps)
	assert.Equal(t, 65.5, ex.Weight)
	assert.Equal(t, "keep", ex.Notes)
}

func TestExercisePatch_ChangesTracked(t *testing.T) {
	ex := &Exercise{Name: "Squat", Sets: 3, Reps: 10}

	assert.False(t, ExercisePatch{Name: ptr("Front squat")}.ChangesTracked(ex))
	assert.False(t, ExercisePatch{Sets: ptr(3)}.ChangesTracked(ex))
	assert.True(t, ExercisePatch{Sets: ptr(4)}.ChangesTracked(ex))
}

func TestProgressEntry_ValidateDefaultsUnits(t *testing.T) {
	e := &ProgressEntry{Name: "Bench", Sets: 3, Reps: 8}
	assert.NoError(t, e.Validate())
	assert.Equal(t, RepsUnitCount, e.RepsUnit)
	assert.Equal(t, WeightUnitKg, e.WeightUnit)

	assert.Error(t, (&ProgressEntry{}).Validate())
}
