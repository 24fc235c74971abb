package client

import (
	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State is the client's copy of the server resources it has loaded.
// Reduce never mutates a State it is given.
type State struct {
	Routines  []service.RoutineView
	LastError string
}

// Routine returns the loaded routine with the given id.
func (s State) Routine(id primitive.ObjectID) (service.RoutineView, bool) {
	for _, r := range s.Routines {
		if r.ID == id {
			return r, true
		}
	}
	return service.RoutineView{}, false
}

// Exercise returns the first loaded copy of an exercise.
func (s State) Exercise(id primitive.ObjectID) (domain.Exercise, bool) {
	for _, r := range s.Routines {
		for _, day := range r.Days {
			for _, ref := range day.Exercises {
				if ref.Value != nil && ref.Value.ID == id {
					return *ref.Value, true
				}
			}
		}
	}
	return domain.Exercise{}, false
}

type ActionType string

const (
	ActionRoutinesLoaded    ActionType = "routines/loaded"
	ActionRoutineLoaded     ActionType = "routine/loaded"
	ActionRoutineRemoved    ActionType = "routine/removed"
	ActionExerciseCompleted ActionType = "exercise/completed" // local, before the server answers
	ActionExerciseUpdated   ActionType = "exercise/updated"   // server copy of an exercise
	ActionRequestFailed     ActionType = "request/failed"
)

// Action describes one state change. Only the fields its Type uses are read.
type Action struct {
	Type       ActionType
	Routines   []service.RoutineView
	Routine    *service.RoutineView
	RoutineID  primitive.ObjectID
	ExerciseID primitive.ObjectID
	Exercise   *domain.Exercise
	Completed  bool
	Err        error
}

type reducer func(State, Action) State

var reducers = map[ActionType]reducer{
	ActionRoutinesLoaded:    reduceRoutinesLoaded,
	ActionRoutineLoaded:     reduceRoutineLoaded,
	ActionRoutineRemoved:    reduceRoutineRemoved,
	ActionExerciseCompleted: reduceExerciseCompleted,
	ActionExerciseUpdated:   reduceExerciseUpdated,
	ActionRequestFailed:     reduceRequestFailed,
}

// Reduce returns the state after applying a. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	if fn, ok := reducers[a.Type]; ok {
		return fn(s, a)
	}
	return s
}

func reduceRoutinesLoaded(s State, a Action) State {
	routines := make([]service.RoutineView, len(a.Routines))
	copy(routines, a.Routines)
	return State{Routines: routines}
}

func reduceRoutineLoaded(s State, a Action) State {
	if a.Routine == nil {
		return s
	}
	routines := make([]service.RoutineView, 0, len(s.Routines)+1)
	replaced := false
	for _, r := range s.Routines {
		if r.ID == a.Routine.ID {
			r = *a.Routine
			replaced = true
		}
		routines = append(routines, r)
	}
	if !replaced {
		routines = append(routines, *a.Routine)
	}
	return State{Routines: routines, LastError: s.LastError}
}

func reduceRoutineRemoved(s State, a Action) State {
	routines := make([]service.RoutineView, 0, len(s.Routines))
	for _, r := range s.Routines {
		if r.ID != a.RoutineID {
			routines = append(routines, r)
		}
	}
	return State{Routines: routines, LastError: s.LastError}
}

func reduceExerciseCompleted(s State, a Action) State {
	return updateExercise(s, a.ExerciseID, func(ex *domain.Exercise) {
		ex.Completed = a.Completed
	})
}

func reduceExerciseUpdated(s State, a Action) State {
	if a.Exercise == nil {
		return s
	}
	return updateExercise(s, a.Exercise.ID, func(ex *domain.Exercise) {
		*ex = *a.Exercise
	})
}

func reduceRequestFailed(s State, a Action) State {
	next := State{Routines: s.Routines}
	if a.Err != nil {
		next.LastError = a.Err.Error()
	}
	return next
}

// updateExercise applies fn to every loaded copy of the exercise. Routines
// that contain it are copied down to the exercise and their derived progress
// and circuit grouping recomputed; the others are shared with s.
func updateExercise(s State, id primitive.ObjectID, fn func(*domain.Exercise)) State {
	routines := make([]service.RoutineView, len(s.Routines))
	for i, r := range s.Routines {
		if !containsExercise(r, id) {
			routines[i] = r
			continue
		}
		r = cloneRoutine(r)
		for d := range r.Days {
			for _, ref := range r.Days[d].Exercises {
				if ref.Value != nil && ref.Value.ID == id {
					fn(ref.Value)
				}
			}
		}
		recompute(&r)
		routines[i] = r
	}
	return State{Routines: routines, LastError: s.LastError}
}

func containsExercise(r service.RoutineView, id primitive.ObjectID) bool {
	for _, day := range r.Days {
		for _, ref := range day.Exercises {
			if ref.Value != nil && ref.Value.ID == id {
				return true
			}
		}
	}
	return false
}

func cloneRoutine(r service.RoutineView) service.RoutineView {
	days := make([]service.DayView, len(r.Days))
	for d, day := range r.Days {
		refs := make([]domain.Ref[domain.Exercise], len(day.Exercises))
		for e, ref := range day.Exercises {
			if ref.Value != nil {
				ex := *ref.Value
				ref = domain.Resolved(ref.ID, &ex)
			}
			refs[e] = ref
		}
		day.Exercises = refs
		days[d] = day
	}
	r.Days = days
	return r
}

func recompute(r *service.RoutineView) {
	dayRefs := make([]domain.Ref[domain.Day], len(r.Days))
	for d := range r.Days {
		day := &r.Days[d]
		day.Progress = domain.DaySummary(&day.Day)
		day.Grouping = domain.GroupCircuits(day.ResolvedExercises())
		dayRefs[d] = domain.Resolved(day.ID, &day.Day)
	}
	r.Progress = domain.RoutineSummary(&domain.Routine{Days: dayRefs})
}
