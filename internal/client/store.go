package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=client_test

// API is the part of the server API the store needs. *Client implements it.
type API interface {
	ListRoutines(ctx context.Context) ([]service.RoutineView, error)
	GetRoutine(ctx context.Context, routineID string) (*service.RoutineView, error)
	ResetRoutine(ctx context.Context, routineID string) (*service.RoutineView, error)
	ToggleExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error)
}

// Store owns a State and applies actions to it. Server responses are only
// applied when they answer the newest request for the same resource.
type Store struct {
	api API
	seq *Sequencer

	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

func NewStore(api API) *Store {
	return &Store{api: api, seq: NewSequencer()}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	state := s.state
	subscribers := append([]func(State){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

// dispatchIfLatest applies a only when seq is still the newest request for key.
func (s *Store) dispatchIfLatest(key string, seq uint64, a Action) bool {
	if !s.seq.IsLatest(key, seq) {
		log.Debugf("dropping stale %s response for %s", a.Type, key)
		return false
	}
	s.Dispatch(a)
	return true
}

func (s *Store) LoadRoutines(ctx context.Context) error {
	const key = "routines"
	seq := s.seq.Begin(key)
	routines, err := s.api.ListRoutines(ctx)
	if err != nil {
		s.dispatchIfLatest(key, seq, Action{Type: ActionRequestFailed, Err: err})
		return err
	}
	s.dispatchIfLatest(key, seq, Action{Type: ActionRoutinesLoaded, Routines: routines})
	return nil
}

func (s *Store) LoadRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	key := "routine:" + routineID.Hex()
	seq := s.seq.Begin(key)
	routine, err := s.api.GetRoutine(ctx, routineID.Hex())
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			s.dispatchIfLatest(key, seq, Action{Type: ActionRoutineRemoved, RoutineID: routineID})
		}
		s.dispatchIfLatest(key, seq, Action{Type: ActionRequestFailed, Err: err})
		return err
	}
	s.dispatchIfLatest(key, seq, Action{Type: ActionRoutineLoaded, Routine: routine})
	return nil
}

// ResetRoutine clears every completed flag of the routine on the server and
// loads the result.
func (s *Store) ResetRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	key := "routine:" + routineID.Hex()
	seq := s.seq.Begin(key)
	routine, err := s.api.ResetRoutine(ctx, routineID.Hex())
	if err != nil {
		s.dispatchIfLatest(key, seq, Action{Type: ActionRequestFailed, Err: err})
		return err
	}
	s.dispatchIfLatest(key, seq, Action{Type: ActionRoutineLoaded, Routine: routine})
	return nil
}

// ToggleCompleted flips the exercise locally right away, then asks the server
// to flip it. The server copy replaces the local one; on failure the local
// flip is rolled back. Either way only the newest toggle's answer is applied.
func (s *Store) ToggleCompleted(ctx context.Context, exerciseID primitive.ObjectID) error {
	current, ok := s.State().Exercise(exerciseID)
	if !ok {
		return fmt.Errorf("exercise %s is not loaded", exerciseID.Hex())
	}

	key := "exercise:" + exerciseID.Hex()
	seq := s.seq.Begin(key)
	s.Dispatch(Action{Type: ActionExerciseCompleted, ExerciseID: exerciseID, Completed: !current.Completed})

	updated, err := s.api.ToggleExercise(ctx, exerciseID.Hex())
	if err != nil {
		if s.dispatchIfLatest(key, seq, Action{Type: ActionExerciseCompleted, ExerciseID: exerciseID, Completed: current.Completed}) {
			s.Dispatch(Action{Type: ActionRequestFailed, Err: err})
		}
		return err
	}
	s.dispatchIfLatest(key, seq, Action{Type: ActionExerciseUpdated, Exercise: updated})
	return nil
}
