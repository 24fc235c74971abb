package service

import (
	"context"

	"alcyxob/fitness-routines/internal/domain"

	log "github.com/sirupsen/logrus"
)

// DayView is a resolved day with its derived progress and circuit grouping.
type DayView struct {
	domain.Day
	Progress domain.ProgressSummary `json:"progress"`
	Grouping domain.CircuitGrouping `json:"grouping"`
}

// RoutineView is a resolved routine as returned to clients.
type RoutineView struct {
	domain.Routine
	Days     []DayView              `json:"days"`
	Progress domain.ProgressSummary `json:"progress"`
}

// RoutineProgressView is the progress summary of one routine.
type RoutineProgressView struct {
	RoutineID string                 `json:"routineId"`
	Routine   domain.ProgressSummary `json:"routine"`
	Days      []DayProgressView      `json:"days"`
}

type DayProgressView struct {
	DayID   string                 `json:"dayId"`
	DayName string                 `json:"dayName"`
	Summary domain.ProgressSummary `json:"summary"`
}

func newDayView(day *domain.Day) DayView {
	return DayView{
		Day:      *day,
		Progress: domain.DaySummary(day),
		Grouping: domain.GroupCircuits(day.ResolvedExercises()),
	}
}

func newRoutineView(r *domain.Routine) RoutineView {
	view := RoutineView{
		Routine:  *r,
		Days:     make([]DayView, 0, len(r.Days)),
		Progress: domain.RoutineSummary(r),
	}
	for _, ref := range r.Days {
		if ref.Value != nil {
			view.Days = append(view.Days, newDayView(ref.Value))
		}
	}
	return view
}

func newRoutineProgressView(r *domain.Routine) RoutineProgressView {
	view := RoutineProgressView{
		RoutineID: r.ID.Hex(),
		Routine:   domain.RoutineSummary(r),
		Days:      []DayProgressView{},
	}
	for _, day := range r.ResolvedDays() {
		view.Days = append(view.Days, DayProgressView{
			DayID:   day.ID.Hex(),
			DayName: day.DayName,
			Summary: domain.DaySummary(&day),
		})
	}
	return view
}

// videoPresenter swaps the stored object key of uploaded videos for a
// short-lived download URL. Without storage the stored value is kept.
type videoPresenter struct {
	storage ObjectStorage
}

func (p videoPresenter) video(ctx context.Context, v *domain.Video) {
	if p.storage == nil || v.Source != domain.VideoSourceUpload || v.ObjectKey == "" {
		return
	}
	url, err := p.storage.GeneratePresignedDownloadURL(ctx, v.ObjectKey, presignedURLExpiry)
	if err != nil {
		log.Warnf("presign download for video %s: %s", v.ID.Hex(), err)
		return
	}
	v.URL = url
}

func (p videoPresenter) exercise(ctx context.Context, ex *domain.Exercise) {
	for _, ref := range ex.Videos {
		if ref.Value != nil {
			p.video(ctx, ref.Value)
		}
	}
}

func (p videoPresenter) day(ctx context.Context, day *domain.Day) {
	for _, ref := range day.Exercises {
		if ref.Value != nil {
			p.exercise(ctx, ref.Value)
		}
	}
}

func (p videoPresenter) routine(ctx context.Context, r *domain.Routine) {
	for _, ref := range r.Days {
		if ref.Value != nil {
			p.day(ctx, ref.Value)
		}
	}
}
