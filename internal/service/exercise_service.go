package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"
	"alcyxob/fitness-routines/internal/storage"
	"alcyxob/fitness-routines/internal/videosearch"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

const presignedURLExpiry = storage.DefaultPresignedURLExpiry

// VideoInput is one entry of a replace-all video request.
type VideoInput struct {
	URL       string `json:"url"`
	IsCurrent bool   `json:"isCurrent"`
}

// SwitchDirection selects the neighbour that becomes current.
type SwitchDirection string

const (
	SwitchNext     SwitchDirection = "next"
	SwitchPrevious SwitchDirection = "previous"
)

// UploadTicket is what a client needs to PUT a video file to storage.
type UploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExerciseService interface {
	GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	// UpdateExercise applies the provided fields and logs a progress entry
	// when a tracked field changed.
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, patch domain.ExercisePatch) (*domain.Exercise, error)
	ToggleCompleted(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error

	SetVideos(ctx context.Context, userID, exerciseID primitive.ObjectID, inputs []VideoInput) (*domain.Exercise, error)
	AddVideo(ctx context.Context, userID, exerciseID primitive.ObjectID, input VideoInput) (*domain.Exercise, error)
	SwitchVideo(ctx context.Context, userID, exerciseID primitive.ObjectID, direction SwitchDirection) (*domain.Exercise, error)
	SearchVideos(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	RequestUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*UploadTicket, error)
	ConfirmUpload(ctx context.Context, userID, exerciseID primitive.ObjectID, objectKey string) (*domain.Exercise, error)
	UpdateVideo(ctx context.Context, userID, videoID primitive.ObjectID, patch domain.VideoPatch) (*domain.Exercise, error)
	DeleteVideo(ctx context.Context, userID, videoID primitive.ObjectID) (*domain.Exercise, error)
}

type exerciseService struct {
	dayRepo      repository.DayRepository
	exerciseRepo repository.ExerciseRepository
	videoRepo    repository.VideoRepository
	progressRepo repository.ProgressRepository
	resolver     *repository.Resolver
	searcher     VideoSearcher
	storage      ObjectStorage
	cascade      cascade
	present      videoPresenter
	now          func() time.Time
}

// NewExerciseService creates the exercise and video service. searcher and
// storage may be nil, which disables video search and uploads.
func NewExerciseService(
	dayRepo repository.DayRepository,
	exerciseRepo repository.ExerciseRepository,
	videoRepo repository.VideoRepository,
	progressRepo repository.ProgressRepository,
	resolver *repository.Resolver,
	searcher VideoSearcher,
	storage ObjectStorage,
) ExerciseService {
	return &exerciseService{
		dayRepo:      dayRepo,
		exerciseRepo: exerciseRepo,
		videoRepo:    videoRepo,
		progressRepo: progressRepo,
		resolver:     resolver,
		searcher:     searcher,
		storage:      storage,
		cascade: cascade{
			days:      dayRepo,
			exercises: exerciseRepo,
			videos:    videoRepo,
			storage:   storage,
		},
		present: videoPresenter{storage: storage},
		now:     time.Now,
	}
}

// loadExercise returns the exercise with its videos resolved.
func (s *exerciseService) loadExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	ex, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID)
	if err != nil {
		return nil, notFoundOr(err, "get exercise")
	}
	if err := s.resolver.ResolveExercise(ctx, userID, ex); err != nil {
		return nil, fmt.Errorf("resolve exercise: %w", err)
	}
	return ex, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	ex, err := s.loadExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	s.present.exercise(ctx, ex)
	return ex, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	if patch.Empty() {
		return nil, validationError("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError("%s", err)
	}

	existing, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID)
	if err != nil {
		return nil, notFoundOr(err, "get exercise")
	}
	tracked := patch.ChangesTracked(existing)

	updated, err := s.exerciseRepo.Update(ctx, userID, exerciseID, patch)
	if err != nil {
		return nil, notFoundOr(err, "update exercise")
	}

	// The log entry is a second, independent write. The edit already
	// succeeded, so a failure here is only logged.
	if tracked {
		entry := domain.NewProgressEntryFromExercise(updated, s.now().UTC())
		if _, err := s.progressRepo.Create(ctx, entry); err != nil {
			log.Errorf("log progress for exercise %s: %s", exerciseID.Hex(), err)
		}
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

func (s *exerciseService) ToggleCompleted(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	if _, err := s.exerciseRepo.ToggleCompleted(ctx, userID, exerciseID); err != nil {
		return nil, notFoundOr(err, "toggle exercise")
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

// DeleteExercise removes the exercise with its videos and detaches it from its day.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	ex, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID)
	if err != nil {
		return notFoundOr(err, "get exercise")
	}

	var errs error
	errs = multierr.Append(errs, s.cascade.deleteExercises(ctx, userID, []primitive.ObjectID{exerciseID}))
	if err := s.dayRepo.RemoveExercise(ctx, userID, ex.DayID, exerciseID); err != nil && !isNotFound(err) {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return fmt.Errorf("delete exercise %s: %w", exerciseID.Hex(), errs)
	}
	return nil
}

// === Videos ===

func validateVideoURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", validationError("video url is required")
	}
	return url, nil
}

// SetVideos replaces the exercise's videos. Exactly one of the new videos
// ends up current: the first one marked, or the first one when none is.
func (s *exerciseService) SetVideos(ctx context.Context, userID, exerciseID primitive.ObjectID, inputs []VideoInput) (*domain.Exercise, error) {
	videos := make([]domain.Video, 0, len(inputs))
	for _, in := range inputs {
		url, err := validateVideoURL(in.URL)
		if err != nil {
			return nil, err
		}
		videos = append(videos, domain.Video{
			UserID:     userID,
			ExerciseID: exerciseID,
			URL:        url,
			IsCurrent:  in.IsCurrent,
			Source:     domain.VideoSourceManual,
		})
	}
	if _, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID); err != nil {
		return nil, notFoundOr(err, "get exercise")
	}

	old, err := s.videoRepo.DeleteByExercises(ctx, userID, []primitive.ObjectID{exerciseID})
	if err != nil {
		return nil, fmt.Errorf("delete old videos: %w", err)
	}
	s.cascade.deleteObjects(ctx, old)

	ids := []primitive.ObjectID{}
	if len(videos) > 0 {
		ids, err = s.videoRepo.CreateMany(ctx, domain.NormalizeCurrent(videos))
		if err != nil {
			return nil, fmt.Errorf("create videos: %w", err)
		}
	}
	if err := s.exerciseRepo.SetVideos(ctx, userID, exerciseID, ids); err != nil {
		return nil, notFoundOr(err, "set videos")
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

// attachVideo stores v, appends it to the exercise and makes it current when
// asked to or when the exercise has no current video yet.
func (s *exerciseService) attachVideo(ctx context.Context, ex *domain.Exercise, v *domain.Video, makeCurrent bool) error {
	existing := ex.ResolvedVideos()
	makeCurrent = makeCurrent || domain.CurrentIndex(existing) < 0

	v.UserID = ex.UserID
	v.ExerciseID = ex.ID
	v.IsCurrent = false
	videoID, err := s.videoRepo.Create(ctx, v)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	ids := append(domain.RefIDs(ex.Videos), videoID)
	if err := s.exerciseRepo.SetVideos(ctx, ex.UserID, ex.ID, ids); err != nil {
		return notFoundOr(err, "set videos")
	}
	if makeCurrent {
		if err := s.videoRepo.SetCurrent(ctx, ex.UserID, ex.ID, videoID); err != nil {
			return fmt.Errorf("set current video: %w", err)
		}
	}
	return nil
}

func (s *exerciseService) AddVideo(ctx context.Context, userID, exerciseID primitive.ObjectID, input VideoInput) (*domain.Exercise, error) {
	url, err := validateVideoURL(input.URL)
	if err != nil {
		return nil, err
	}
	ex, err := s.loadExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	video := &domain.Video{URL: url, Source: domain.VideoSourceManual}
	if err := s.attachVideo(ctx, ex, video, input.IsCurrent); err != nil {
		return nil, err
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

// SwitchVideo moves the current flag to the next or previous video, wrapping around.
func (s *exerciseService) SwitchVideo(ctx context.Context, userID, exerciseID primitive.ObjectID, direction SwitchDirection) (*domain.Exercise, error) {
	step := 1
	switch direction {
	case SwitchNext, "":
	case SwitchPrevious:
		step = -1
	default:
		return nil, validationError("direction must be next or previous")
	}

	ex, err := s.loadExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	switched, err := domain.SwitchCurrent(ex.ResolvedVideos(), step)
	if err != nil {
		return nil, validationError("%s", err)
	}
	current := switched[domain.CurrentIndex(switched)]
	if err := s.videoRepo.SetCurrent(ctx, userID, exerciseID, current.ID); err != nil {
		return nil, notFoundOr(err, "switch video")
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

// SearchVideos looks up form videos for the exercise and appends the ones
// not attached yet.
func (s *exerciseService) SearchVideos(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	if s.searcher == nil {
		return nil, ErrFeatureDisabled
	}
	ex, err := s.loadExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	results, err := s.searcher.Search(ctx, videosearch.FormQuery(ex.Name))
	if err != nil {
		log.Errorf("video search for exercise %s: %s", exerciseID.Hex(), err)
		return nil, ErrUpstream
	}

	existing := ex.ResolvedVideos()
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[v.URL] = true
	}
	var fresh []domain.Video
	for _, r := range results {
		if known[r.URL] {
			continue
		}
		known[r.URL] = true
		fresh = append(fresh, domain.Video{
			UserID:     userID,
			ExerciseID: exerciseID,
			URL:        r.URL,
			Source:     domain.VideoSourceSearch,
		})
	}
	if len(fresh) == 0 {
		s.present.exercise(ctx, ex)
		return ex, nil
	}

	newIDs, err := s.videoRepo.CreateMany(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("create videos: %w", err)
	}
	ids := append(domain.RefIDs(ex.Videos), newIDs...)
	if err := s.exerciseRepo.SetVideos(ctx, userID, exerciseID, ids); err != nil {
		return nil, notFoundOr(err, "set videos")
	}
	if domain.CurrentIndex(existing) < 0 {
		first := newIDs[0]
		if len(existing) > 0 {
			first = existing[0].ID
		}
		if err := s.videoRepo.SetCurrent(ctx, userID, exerciseID, first); err != nil {
			return nil, fmt.Errorf("set current video: %w", err)
		}
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

func (s *exerciseService) RequestUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*UploadTicket, error) {
	if s.storage == nil {
		return nil, ErrFeatureDisabled
	}
	if _, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID); err != nil {
		return nil, notFoundOr(err, "get exercise")
	}
	key, err := storage.VideoObjectKey(userID.Hex(), exerciseID.Hex(), contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, validationError("%s", err)
		}
		return nil, err
	}
	url, err := s.storage.GeneratePresignedUploadURL(ctx, key, contentType, presignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: s.now().Add(presignedURLExpiry).UTC(),
	}, nil
}

// ConfirmUpload attaches a finished upload to the exercise.
func (s *exerciseService) ConfirmUpload(ctx context.Context, userID, exerciseID primitive.ObjectID, objectKey string) (*domain.Exercise, error) {
	if s.storage == nil {
		return nil, ErrFeatureDisabled
	}
	objectKey = strings.TrimSpace(objectKey)
	if !storage.KeyBelongsTo(objectKey, userID.Hex(), exerciseID.Hex()) {
		return nil, validationError("object key does not belong to this exercise")
	}
	ex, err := s.loadExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	for _, v := range ex.ResolvedVideos() {
		if v.ObjectKey == objectKey {
			return nil, validationError("upload already attached")
		}
	}
	exists, err := s.storage.ObjectExists(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("check upload: %w", err)
	}
	if !exists {
		return nil, validationError("upload not found in storage")
	}

	video := &domain.Video{URL: objectKey, ObjectKey: objectKey, Source: domain.VideoSourceUpload}
	if err := s.attachVideo(ctx, ex, video, false); err != nil {
		return nil, err
	}
	return s.GetExercise(ctx, userID, exerciseID)
}

func (s *exerciseService) UpdateVideo(ctx context.Context, userID, videoID primitive.ObjectID, patch domain.VideoPatch) (*domain.Exercise, error) {
	if patch.URL == nil && patch.IsCurrent == nil {
		return nil, validationError("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	video, err := s.videoRepo.GetByID(ctx, userID, videoID)
	if err != nil {
		return nil, notFoundOr(err, "get video")
	}

	if patch.URL != nil {
		if video.Source == domain.VideoSourceUpload {
			return nil, validationError("the url of an uploaded video cannot be changed")
		}
		if _, err := s.videoRepo.UpdateURL(ctx, userID, videoID, strings.TrimSpace(*patch.URL)); err != nil {
			return nil, notFoundOr(err, "update video")
		}
	}

	if patch.IsCurrent != nil {
		ex, err := s.loadExercise(ctx, userID, video.ExerciseID)
		if err != nil {
			return nil, err
		}
		target := video.ID
		if !*patch.IsCurrent && video.IsCurrent {
			// Something must stay current; hand the flag to the next video.
			switched, err := domain.SwitchCurrent(ex.ResolvedVideos(), 1)
			if err != nil {
				return nil, validationError("%s", err)
			}
			target = switched[domain.CurrentIndex(switched)].ID
		}
		if *patch.IsCurrent || video.IsCurrent {
			if err := s.videoRepo.SetCurrent(ctx, userID, video.ExerciseID, target); err != nil {
				return nil, notFoundOr(err, "set current video")
			}
		}
	}
	return s.GetExercise(ctx, userID, video.ExerciseID)
}

// DeleteVideo removes a video. If it was current, the first remaining video
// becomes current.
func (s *exerciseService) DeleteVideo(ctx context.Context, userID, videoID primitive.ObjectID) (*domain.Exercise, error) {
	video, err := s.videoRepo.GetByID(ctx, userID, videoID)
	if err != nil {
		return nil, notFoundOr(err, "get video")
	}
	ex, err := s.loadExercise(ctx, userID, video.ExerciseID)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.Delete(ctx, userID, videoID); err != nil {
		return nil, notFoundOr(err, "delete video")
	}
	s.cascade.deleteObjects(ctx, []domain.Video{*video})

	remaining := make([]domain.Video, 0, len(ex.Videos))
	for _, v := range ex.ResolvedVideos() {
		if v.ID != videoID {
			remaining = append(remaining, v)
		}
	}
	ids := make([]primitive.ObjectID, 0, len(remaining))
	for _, v := range remaining {
		ids = append(ids, v.ID)
	}
	if err := s.exerciseRepo.SetVideos(ctx, userID, ex.ID, ids); err != nil {
		return nil, notFoundOr(err, "set videos")
	}
	if len(remaining) > 0 && domain.CurrentIndex(remaining) < 0 {
		if err := s.videoRepo.SetCurrent(ctx, userID, ex.ID, remaining[0].ID); err != nil {
			return nil, fmt.Errorf("set current video: %w", err)
		}
	}
	return s.GetExercise(ctx, userID, ex.ID)
}
