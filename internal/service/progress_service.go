package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressService interface {
	// ListEntries returns the user's log, newest first.
	ListEntries(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error)
	CreateEntry(ctx context.Context, userID primitive.ObjectID, entry domain.ProgressEntry) (*domain.ProgressEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID primitive.ObjectID, patch domain.ProgressEntryPatch) (*domain.ProgressEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error
	// ClearEntries deletes the whole log and reports how many entries went.
	ClearEntries(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	now          func() time.Time
}

func NewProgressService(progressRepo repository.ProgressRepository) ProgressService {
	return &progressService{progressRepo: progressRepo, now: time.Now}
}

func (s *progressService) ListEntries(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	entries, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return entries, nil
}

func (s *progressService) CreateEntry(ctx context.Context, userID primitive.ObjectID, entry domain.ProgressEntry) (*domain.ProgressEntry, error) {
	entry.ID = primitive.NilObjectID
	entry.UserID = userID
	entry.Name = strings.TrimSpace(entry.Name)
	if err := entry.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	if entry.Date.IsZero() {
		entry.Date = s.now()
	}
	entry.Date = entry.Date.UTC()

	if _, err := s.progressRepo.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("create progress entry: %w", err)
	}
	return &entry, nil
}

func (s *progressService) UpdateEntry(ctx context.Context, userID, entryID primitive.ObjectID, patch domain.ProgressEntryPatch) (*domain.ProgressEntry, error) {
	if patch.Empty() {
		return nil, validationError("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError("%s", err)
	}
	entry, err := s.progressRepo.Update(ctx, userID, entryID, patch)
	if err != nil {
		return nil, notFoundOr(err, "update progress entry")
	}
	return entry, nil
}

func (s *progressService) DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if err := s.progressRepo.Delete(ctx, userID, entryID); err != nil {
		return notFoundOr(err, "delete progress entry")
	}
	return nil
}

func (s *progressService) ClearEntries(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.progressRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear progress: %w", err)
	}
	return n, nil
}
