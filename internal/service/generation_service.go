package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"alcyxob/fitness-routines/internal/ai"
	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/metrics"
	"alcyxob/fitness-routines/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxChatPromptLength = 2000

// GenerationService exposes AI generation. Nothing it returns is persisted;
// a draft is saved through RoutineService.CreateRoutine.
type GenerationService interface {
	GenerateRoutine(ctx context.Context, params domain.GenerationParams) (*domain.RoutineDraft, error)
	SuggestAlternatives(ctx context.Context, userID, exerciseID primitive.ObjectID, count int) ([]domain.ExerciseDraft, error)
	Chat(ctx context.Context, prompt string) (string, error)
}

type generationService struct {
	generator    Generator
	exerciseRepo repository.ExerciseRepository
	cache        ChatCache
	metrics      *metrics.Manager
}

// NewGenerationService wires the generator. A nil generator disables every
// operation; a nil cache disables chat caching.
func NewGenerationService(generator Generator, exerciseRepo repository.ExerciseRepository, cache ChatCache, m *metrics.Manager) GenerationService {
	return &generationService{
		generator:    generator,
		exerciseRepo: exerciseRepo,
		cache:        cache,
		metrics:      m,
	}
}

// observe records one upstream call and converts its error. Every failure,
// including a malformed answer, is reported to callers as ErrUpstream.
func (s *generationService) observe(kind string, start time.Time, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.Is(err, ai.ErrInvalidResponse) {
			outcome = "invalid"
		}
	}
	if s.metrics != nil {
		s.metrics.HistAIDuration.Observe(time.Since(start).Seconds())
		s.metrics.CounterGenerations.WithLabelValues(kind, outcome).Inc()
	}
	if err != nil {
		log.Errorf("ai %s failed: %s", kind, err)
		return ErrUpstream
	}
	return nil
}

func (s *generationService) GenerateRoutine(ctx context.Context, params domain.GenerationParams) (*domain.RoutineDraft, error) {
	if s.generator == nil {
		return nil, ErrFeatureDisabled
	}
	if err := params.Validate(); err != nil {
		return nil, validationError("%s", err)
	}

	start := time.Now()
	draft, err := s.generator.GenerateRoutine(ctx, params)
	if err := s.observe("routine", start, err); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *generationService) SuggestAlternatives(ctx context.Context, userID, exerciseID primitive.ObjectID, count int) ([]domain.ExerciseDraft, error) {
	if s.generator == nil {
		return nil, ErrFeatureDisabled
	}
	if count < 0 || count > domain.MaxAlternatives {
		return nil, validationError("count must be between 1 and %d", domain.MaxAlternatives)
	}
	ex, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID)
	if err != nil {
		return nil, notFoundOr(err, "get exercise")
	}

	start := time.Now()
	alternatives, err := s.generator.SuggestAlternatives(ctx, ex, domain.ClampAlternatives(count))
	if err := s.observe("alternatives", start, err); err != nil {
		return nil, err
	}
	return alternatives, nil
}

// Chat answers a fitness question. Answers are cached by exact prompt text.
func (s *generationService) Chat(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", ErrFeatureDisabled
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", validationError("prompt is required")
	}
	if utf8.RuneCountInString(prompt) > maxChatPromptLength {
		return "", validationError("prompt must be at most %d characters", maxChatPromptLength)
	}

	if s.cache != nil {
		if answer, ok := s.cache.Get(prompt); ok {
			s.countCache("hit")
			return answer, nil
		}
		s.countCache("miss")
	}

	start := time.Now()
	answer, err := s.generator.Chat(ctx, prompt)
	if err := s.observe("chat", start, err); err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Set(prompt, answer)
	}
	return answer, nil
}

func (s *generationService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CounterChatCache.WithLabelValues(result).Inc()
	}
}
