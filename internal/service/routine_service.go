package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

type RoutineService interface {
	// CreateRoutine persists a manual or AI-generated draft.
	CreateRoutine(ctx context.Context, userID primitive.ObjectID, draft domain.RoutineDraft) (*RoutineView, error)
	// ListRoutines returns the user's routines that have days and exercises.
	ListRoutines(ctx context.Context, userID primitive.ObjectID) ([]RoutineView, error)
	GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineView, error)
	RenameRoutine(ctx context.Context, userID, routineID primitive.ObjectID, name string) (*RoutineView, error)
	DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error
	GetProgress(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineProgressView, error)
	ResetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineView, error)

	AddDay(ctx context.Context, userID, routineID primitive.ObjectID, draft domain.DayDraft) (*DayView, error)
	GetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*DayView, error)
	UpdateDay(ctx context.Context, userID, dayID primitive.ObjectID, patch domain.DayPatch) (*DayView, error)
	DeleteDay(ctx context.Context, userID, dayID primitive.ObjectID) error
	ResetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*DayView, error)
	AddExercise(ctx context.Context, userID, dayID primitive.ObjectID, draft domain.ExerciseDraft) (*domain.Exercise, error)
}

type routineService struct {
	routineRepo  repository.RoutineRepository
	dayRepo      repository.DayRepository
	exerciseRepo repository.ExerciseRepository
	resolver     *repository.Resolver
	cascade      cascade
	present      videoPresenter
}

func NewRoutineService(
	routineRepo repository.RoutineRepository,
	dayRepo repository.DayRepository,
	exerciseRepo repository.ExerciseRepository,
	videoRepo repository.VideoRepository,
	resolver *repository.Resolver,
	storage ObjectStorage,
) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		dayRepo:      dayRepo,
		exerciseRepo: exerciseRepo,
		resolver:     resolver,
		cascade: cascade{
			days:      dayRepo,
			exercises: exerciseRepo,
			videos:    videoRepo,
			storage:   storage,
		},
		present: videoPresenter{storage: storage},
	}
}

// === Routines ===

func (s *routineService) CreateRoutine(ctx context.Context, userID primitive.ObjectID, draft domain.RoutineDraft) (*RoutineView, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, validationError("%s", err)
	}

	routine := &domain.Routine{
		UserID: userID,
		Name:   draft.Name,
		Days:   []domain.Ref[domain.Day]{},
	}
	routineID, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}

	for _, dayDraft := range draft.Days {
		if _, err := s.createDay(ctx, userID, routineID, dayDraft); err != nil {
			// Leave nothing half-built behind.
			if cleanupErr := s.DeleteRoutine(ctx, userID, routineID); cleanupErr != nil {
				log.Errorf("cleanup of partial routine %s: %s", routineID.Hex(), cleanupErr)
			}
			return nil, err
		}
	}
	return s.GetRoutine(ctx, userID, routineID)
}

// createDay stores a day with its exercises and appends it to the routine.
func (s *routineService) createDay(ctx context.Context, userID, routineID primitive.ObjectID, draft domain.DayDraft) (*domain.Day, error) {
	day := &domain.Day{
		UserID:        userID,
		RoutineID:     routineID,
		DayName:       draft.DayName,
		MusclesWorked: draft.MusclesWorked,
		WarmupOptions: draft.WarmupOptions,
		Explanation:   draft.Explanation,
		Exercises:     []domain.Ref[domain.Exercise]{},
	}
	dayID, err := s.dayRepo.Create(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("create day: %w", err)
	}
	if err := s.routineRepo.AppendDay(ctx, userID, routineID, dayID); err != nil {
		return nil, notFoundOr(err, "append day")
	}
	for i := range draft.Exercises {
		ex, err := s.createExercise(ctx, userID, dayID, &draft.Exercises[i])
		if err != nil {
			return nil, err
		}
		day.Exercises = append(day.Exercises, domain.Unresolved[domain.Exercise](ex.ID))
	}
	return day, nil
}

func (s *routineService) createExercise(ctx context.Context, userID, dayID primitive.ObjectID, draft *domain.ExerciseDraft) (*domain.Exercise, error) {
	ex := draft.ToExercise()
	ex.UserID = userID
	ex.DayID = dayID
	exerciseID, err := s.exerciseRepo.Create(ctx, ex)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	if err := s.dayRepo.AppendExercise(ctx, userID, dayID, exerciseID); err != nil {
		return nil, notFoundOr(err, "append exercise")
	}
	return ex, nil
}

func (s *routineService) ListRoutines(ctx context.Context, userID primitive.ObjectID) ([]RoutineView, error) {
	routines, err := s.routineRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	if err := s.resolver.ResolveRoutines(ctx, userID, routines); err != nil {
		return nil, fmt.Errorf("resolve routines: %w", err)
	}

	views := make([]RoutineView, 0, len(routines))
	for i := range routines {
		if !routines[i].Listable() {
			continue
		}
		s.present.routine(ctx, &routines[i])
		views = append(views, newRoutineView(&routines[i]))
	}
	return views, nil
}

func (s *routineService) loadRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, notFoundOr(err, "get routine")
	}
	if err := s.resolver.ResolveRoutine(ctx, userID, routine); err != nil {
		return nil, fmt.Errorf("resolve routine: %w", err)
	}
	return routine, nil
}

func (s *routineService) GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineView, error) {
	routine, err := s.loadRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	s.present.routine(ctx, routine)
	view := newRoutineView(routine)
	return &view, nil
}

func (s *routineService) RenameRoutine(ctx context.Context, userID, routineID primitive.ObjectID, name string) (*RoutineView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if _, err := s.routineRepo.Rename(ctx, userID, routineID, name); err != nil {
		return nil, notFoundOr(err, "rename routine")
	}
	return s.GetRoutine(ctx, userID, routineID)
}

// DeleteRoutine removes the routine with all of its days, exercises and videos.
func (s *routineService) DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error {
	routine, err := s.routineRepo.GetByID(ctx, userID, routineID)
	if err != nil {
		return notFoundOr(err, "get routine")
	}

	var errs error
	errs = multierr.Append(errs, s.cascade.deleteDays(ctx, userID, domain.RefIDs(routine.Days)))
	errs = multierr.Append(errs, s.routineRepo.Delete(ctx, userID, routineID))
	if errs != nil {
		return fmt.Errorf("delete routine %s: %w", routineID.Hex(), errs)
	}
	return nil
}

func (s *routineService) GetProgress(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineProgressView, error) {
	routine, err := s.loadRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	view := newRoutineProgressView(routine)
	return &view, nil
}

// ResetRoutine clears the completed flag of every exercise in the routine.
func (s *routineService) ResetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*RoutineView, error) {
	routine, err := s.routineRepo.GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, notFoundOr(err, "get routine")
	}
	n, err := s.exerciseRepo.ResetCompleted(ctx, userID, domain.RefIDs(routine.Days))
	if err != nil {
		return nil, fmt.Errorf("reset routine: %w", err)
	}
	log.Debugf("reset routine %s: %d exercises cleared", routineID.Hex(), n)
	return s.GetRoutine(ctx, userID, routineID)
}

// === Days ===

func (s *routineService) AddDay(ctx context.Context, userID, routineID primitive.ObjectID, draft domain.DayDraft) (*DayView, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	if _, err := s.routineRepo.GetByID(ctx, userID, routineID); err != nil {
		return nil, notFoundOr(err, "get routine")
	}
	day, err := s.createDay(ctx, userID, routineID, draft)
	if err != nil {
		return nil, err
	}
	return s.GetDay(ctx, userID, day.ID)
}

func (s *routineService) GetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*DayView, error) {
	day, err := s.dayRepo.GetByID(ctx, userID, dayID)
	if err != nil {
		return nil, notFoundOr(err, "get day")
	}
	if err := s.resolver.ResolveDay(ctx, userID, day); err != nil {
		return nil, fmt.Errorf("resolve day: %w", err)
	}
	s.present.day(ctx, day)
	view := newDayView(day)
	return &view, nil
}

func (s *routineService) UpdateDay(ctx context.Context, userID, dayID primitive.ObjectID, patch domain.DayPatch) (*DayView, error) {
	if patch.Empty() {
		return nil, validationError("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	if _, err := s.dayRepo.Update(ctx, userID, dayID, patch); err != nil {
		return nil, notFoundOr(err, "update day")
	}
	return s.GetDay(ctx, userID, dayID)
}

// DeleteDay removes the day with its exercises and detaches it from its routine.
func (s *routineService) DeleteDay(ctx context.Context, userID, dayID primitive.ObjectID) error {
	day, err := s.dayRepo.GetByID(ctx, userID, dayID)
	if err != nil {
		return notFoundOr(err, "get day")
	}

	var errs error
	errs = multierr.Append(errs, s.cascade.deleteDays(ctx, userID, []primitive.ObjectID{dayID}))
	if err := s.routineRepo.RemoveDay(ctx, userID, day.RoutineID, dayID); err != nil && !isNotFound(err) {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return fmt.Errorf("delete day %s: %w", dayID.Hex(), errs)
	}
	return nil
}

// ResetDay clears the completed flag of every exercise in the day.
func (s *routineService) ResetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*DayView, error) {
	if _, err := s.dayRepo.GetByID(ctx, userID, dayID); err != nil {
		return nil, notFoundOr(err, "get day")
	}
	if _, err := s.exerciseRepo.ResetCompleted(ctx, userID, []primitive.ObjectID{dayID}); err != nil {
		return nil, fmt.Errorf("reset day: %w", err)
	}
	return s.GetDay(ctx, userID, dayID)
}

func (s *routineService) AddExercise(ctx context.Context, userID, dayID primitive.ObjectID, draft domain.ExerciseDraft) (*domain.Exercise, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	if _, err := s.dayRepo.GetByID(ctx, userID, dayID); err != nil {
		return nil, notFoundOr(err, "get day")
	}
	return s.createExercise(ctx, userID, dayID, &draft)
}
