package service

import (
	"context"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/videosearch"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=service_test

// Generator produces drafts and answers from the AI model.
type Generator interface {
	GenerateRoutine(ctx context.Context, params domain.GenerationParams) (*domain.RoutineDraft, error)
	SuggestAlternatives(ctx context.Context, ex *domain.Exercise, count int) ([]domain.ExerciseDraft, error)
	Chat(ctx context.Context, prompt string) (string, error)
}

// VideoSearcher finds exercise videos.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]videosearch.Result, error)
}

// ObjectStorage holds user-uploaded video files.
type ObjectStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// ChatCache remembers chat answers by prompt.
type ChatCache interface {
	Get(prompt string) (string, bool)
	Set(prompt, answer string)
}
