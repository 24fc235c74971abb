// Package memory holds in-process implementations of the repository
// interfaces. It is a test double: the server always persists to MongoDB,
// and only tests (service, api and fitctl) build on this package. The
// repositories mirror the MongoDB semantics closely enough for those tests,
// including owner filtering.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock.
type Store struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]domain.User
	routines  map[primitive.ObjectID]domain.Routine
	days      map[primitive.ObjectID]domain.Day
	exercises map[primitive.ObjectID]domain.Exercise
	videos    map[primitive.ObjectID]domain.Video
	progress  map[primitive.ObjectID]domain.ProgressEntry
}

func NewStore() *Store {
	return &Store{
		users:     map[primitive.ObjectID]domain.User{},
		routines:  map[primitive.ObjectID]domain.Routine{},
		days:      map[primitive.ObjectID]domain.Day{},
		exercises: map[primitive.ObjectID]domain.Exercise{},
		videos:    map[primitive.ObjectID]domain.Video{},
		progress:  map[primitive.ObjectID]domain.ProgressEntry{},
	}
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Routines() repository.RoutineRepository   { return routineRepo{s} }
func (s *Store) Days() repository.DayRepository           { return dayRepo{s} }
func (s *Store) Exercises() repository.ExerciseRepository { return exerciseRepo{s} }
func (s *Store) Videos() repository.VideoRepository       { return videoRepo{s} }
func (s *Store) Progress() repository.ProgressRepository  { return progressRepo{s} }

// Resolver returns a reference resolver over this store.
func (s *Store) Resolver() *repository.Resolver {
	return &repository.Resolver{Days: s.Days(), Exercises: s.Exercises(), Videos: s.Videos()}
}

// Stored refs are always unresolved, as they would be after a BSON round trip.
func stripRefs[T any](refs []domain.Ref[T]) []domain.Ref[T] {
	return domain.UnresolvedRefs[T](domain.RefIDs(refs))
}

func removeRef[T any](refs []domain.Ref[T], id primitive.ObjectID) []domain.Ref[T] {
	out := make([]domain.Ref[T], 0, len(refs))
	for _, r := range refs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// --- Users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r userRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(u domain.User) bool { return u.ResetToken == token })
}

func (r userRepo) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	expiry = expiry.UTC()
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
	r.s.users[id] = u
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
	r.s.users[id] = u
	return nil
}

// --- Routines ---

type routineRepo struct{ s *Store }

func (r routineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	routine.ID = primitive.NewObjectID()
	routine.CreatedAt = time.Now().UTC()
	routine.UpdatedAt = routine.CreatedAt
	stored := *routine
	stored.Days = stripRefs(routine.Days)
	r.s.routines[routine.ID] = stored
	return routine.ID, nil
}

func (r routineRepo) get(userID, id primitive.ObjectID) (domain.Routine, error) {
	rt, ok := r.s.routines[id]
	if !ok || rt.UserID != userID {
		return domain.Routine{}, repository.ErrNotFound
	}
	return rt, nil
}

func (r routineRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Routine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	rt.Days = stripRefs(rt.Days)
	return &rt, nil
}

func (r routineRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Routine{}
	for _, rt := range r.s.routines {
		if rt.UserID == userID {
			rt.Days = stripRefs(rt.Days)
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return out, nil
}

func (r routineRepo) Rename(_ context.Context, userID, id primitive.ObjectID, name string) (*domain.Routine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	rt.Name = name
	rt.UpdatedAt = time.Now().UTC()
	r.s.routines[id] = rt
	rt.Days = stripRefs(rt.Days)
	return &rt, nil
}

func (r routineRepo) AppendDay(_ context.Context, userID, routineID, dayID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, err := r.get(userID, routineID)
	if err != nil {
		return err
	}
	rt.Days = append(stripRefs(rt.Days), domain.Unresolved[domain.Day](dayID))
	r.s.routines[routineID] = rt
	return nil
}

func (r routineRepo) RemoveDay(_ context.Context, userID, routineID, dayID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, err := r.get(userID, routineID)
	if err != nil {
		return err
	}
	rt.Days = removeRef(rt.Days, dayID)
	r.s.routines[routineID] = rt
	return nil
}

func (r routineRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.get(userID, id); err != nil {
		return err
	}
	delete(r.s.routines, id)
	return nil
}

// --- Days ---

type dayRepo struct{ s *Store }

func (r dayRepo) Create(_ context.Context, day *domain.Day) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day.ID = primitive.NewObjectID()
	day.CreatedAt = time.Now().UTC()
	day.UpdatedAt = day.CreatedAt
	stored := *day
	stored.Exercises = stripRefs(day.Exercises)
	r.s.days[day.ID] = stored
	return day.ID, nil
}

func (r dayRepo) get(userID, id primitive.ObjectID) (domain.Day, error) {
	d, ok := r.s.days[id]
	if !ok || d.UserID != userID {
		return domain.Day{}, repository.ErrNotFound
	}
	return d, nil
}

func (r dayRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Day, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	d.Exercises = stripRefs(d.Exercises)
	return &d, nil
}

func (r dayRepo) GetByIDs(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Day, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Day{}
	for id := range idSet(ids) {
		if d, err := r.get(userID, id); err == nil {
			d.Exercises = stripRefs(d.Exercises)
			out = append(out, d)
		}
	}
	return out, nil
}

func (r dayRepo) Update(_ context.Context, userID, id primitive.ObjectID, patch domain.DayPatch) (*domain.Day, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(&d)
	d.UpdatedAt = time.Now().UTC()
	r.s.days[id] = d
	d.Exercises = stripRefs(d.Exercises)
	return &d, nil
}

func (r dayRepo) AppendExercise(_ context.Context, userID, dayID, exerciseID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, err := r.get(userID, dayID)
	if err != nil {
		return err
	}
	d.Exercises = append(stripRefs(d.Exercises), domain.Unresolved[domain.Exercise](exerciseID))
	r.s.days[dayID] = d
	return nil
}

func (r dayRepo) RemoveExercise(_ context.Context, userID, dayID, exerciseID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, err := r.get(userID, dayID)
	if err != nil {
		return err
	}
	d.Exercises = removeRef(d.Exercises, exerciseID)
	r.s.days[dayID] = d
	return nil
}

func (r dayRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.get(userID, id); err != nil {
		return err
	}
	delete(r.s.days, id)
	return nil
}

func (r dayRepo) DeleteMany(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if d, ok := r.s.days[id]; ok && d.UserID == userID {
			delete(r.s.days, id)
		}
	}
	return nil
}

// --- Exercises ---

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex.ID = primitive.NewObjectID()
	ex.CreatedAt = time.Now().UTC()
	ex.UpdatedAt = ex.CreatedAt
	if ex.Videos == nil {
		ex.Videos = []domain.Ref[domain.Video]{}
	}
	stored := *ex
	stored.Videos = stripRefs(ex.Videos)
	r.s.exercises[ex.ID] = stored
	return ex.ID, nil
}

func (r exerciseRepo) get(userID, id primitive.ObjectID) (domain.Exercise, error) {
	ex, ok := r.s.exercises[id]
	if !ok || ex.UserID != userID {
		return domain.Exercise{}, repository.ErrNotFound
	}
	ex.Videos = stripRefs(ex.Videos)
	return ex, nil
}

func (r exerciseRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r exerciseRepo) GetByIDs(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Exercise{}
	for id := range idSet(ids) {
		if ex, err := r.get(userID, id); err == nil {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r exerciseRepo) Update(_ context.Context, userID, id primitive.ObjectID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(&ex)
	ex.UpdatedAt = time.Now().UTC()
	r.s.exercises[id] = ex
	return &ex, nil
}

func (r exerciseRepo) ToggleCompleted(_ context.Context, userID, id primitive.ObjectID) (*domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, err := r.get(userID, id)
	if err != nil {
		return nil, err
	}
	ex.Completed = !ex.Completed
	r.s.exercises[id] = ex
	return &ex, nil
}

func (r exerciseRepo) ResetCompleted(_ context.Context, userID primitive.ObjectID, dayIDs []primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	days := idSet(dayIDs)
	var n int64
	for id, ex := range r.s.exercises {
		if ex.UserID == userID && days[ex.DayID] && ex.Completed {
			ex.Completed = false
			r.s.exercises[id] = ex
			n++
		}
	}
	return n, nil
}

func (r exerciseRepo) SetVideos(_ context.Context, userID, id primitive.ObjectID, videoIDs []primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, err := r.get(userID, id)
	if err != nil {
		return err
	}
	ex.Videos = domain.UnresolvedRefs[domain.Video](videoIDs)
	r.s.exercises[id] = ex
	return nil
}

func (r exerciseRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.get(userID, id); err != nil {
		return err
	}
	delete(r.s.exercises, id)
	return nil
}

func (r exerciseRepo) DeleteMany(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if ex, ok := r.s.exercises[id]; ok && ex.UserID == userID {
			delete(r.s.exercises, id)
		}
	}
	return nil
}

// --- Videos ---

type videoRepo struct{ s *Store }

func (r videoRepo) insert(v *domain.Video) {
	v.ID = primitive.NewObjectID()
	v.CreatedAt = time.Now().UTC()
	r.s.videos[v.ID] = *v
}

func (r videoRepo) Create(_ context.Context, v *domain.Video) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(v)
	return v.ID, nil
}

func (r videoRepo) CreateMany(_ context.Context, videos []domain.Video) ([]primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(videos))
	for i := range videos {
		r.insert(&videos[i])
		ids = append(ids, videos[i].ID)
	}
	return ids, nil
}

func (r videoRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok || v.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r videoRepo) GetByIDs(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Video{}
	for id := range idSet(ids) {
		if v, ok := r.s.videos[id]; ok && v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r videoRepo) ListByExercise(_ context.Context, userID, exerciseID primitive.ObjectID) ([]domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Video{}
	for _, v := range r.s.videos {
		if v.UserID == userID && v.ExerciseID == exerciseID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r videoRepo) UpdateURL(_ context.Context, userID, id primitive.ObjectID, url string) (*domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok || v.UserID != userID {
		return nil, repository.ErrNotFound
	}
	v.URL = url
	r.s.videos[id] = v
	return &v, nil
}

func (r videoRepo) SetCurrent(_ context.Context, userID, exerciseID, currentID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := false
	for id, v := range r.s.videos {
		if v.UserID != userID || v.ExerciseID != exerciseID {
			continue
		}
		matched = true
		v.IsCurrent = id == currentID
		r.s.videos[id] = v
	}
	if !matched {
		return repository.ErrNotFound
	}
	return nil
}

func (r videoRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.videos, id)
	return nil
}

func (r videoRepo) DeleteByExercises(_ context.Context, userID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exercises := idSet(exerciseIDs)
	out := []domain.Video{}
	for id, v := range r.s.videos {
		if v.UserID == userID && exercises[v.ExerciseID] {
			out = append(out, v)
			delete(r.s.videos, id)
		}
	}
	return out, nil
}

// --- Progress ---

type progressRepo struct{ s *Store }

func (r progressRepo) Create(_ context.Context, e *domain.ProgressEntry) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	r.s.progress[e.ID] = *e
	return e.ID, nil
}

func (r progressRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.progress[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r progressRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.ProgressEntry{}
	for _, e := range r.s.progress {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r progressRepo) Update(_ context.Context, userID, id primitive.ObjectID, patch domain.ProgressEntryPatch) (*domain.ProgressEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.progress[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&e)
	r.s.progress[id] = e
	return &e, nil
}

func (r progressRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.progress[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.progress, id)
	return nil
}

func (r progressRepo) DeleteAllByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.progress {
		if e.UserID == userID {
			delete(r.s.progress, id)
			n++
		}
	}
	return n, nil
}
