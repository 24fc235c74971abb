package domain

// ProgressSummary is a derived completion figure. It is never persisted.
type ProgressSummary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

func summarize(completed, total int) ProgressSummary {
	s := ProgressSummary{Completed: completed, Total: total}
	if total > 0 {
		s.Percent = float64(completed) / float64(total) * 100
	}
	return s
}

func countCompleted(exercises []Ref[Exercise]) (completed, total int) {
	for _, ref := range exercises {
		if ref.Value == nil {
			continue
		}
		total++
		if ref.Value.Completed {
			completed++
		}
	}
	return completed, total
}

// DaySummary counts completed exercises of a resolved day.
func DaySummary(day *Day) ProgressSummary {
	return summarize(countCompleted(day.Exercises))
}

// RoutineSummary counts completed exercises across all days of a resolved
// routine. Every exercise weighs the same, so a large day moves the figure
// more than a small one.
func RoutineSummary(routine *Routine) ProgressSummary {
	var completed, total int
	for _, ref := range routine.Days {
		if ref.Value == nil {
			continue
		}
		c, t := countCompleted(ref.Value.Exercises)
		completed += c
		total += t
	}
	return summarize(completed, total)
}

// DayProgress is the completion percentage of a day, 0 for an empty day.
func DayProgress(day *Day) float64 {
	return DaySummary(day).Percent
}

// RoutineProgress is the completion percentage over the flattened exercise
// set of a routine, not an average of per-day percentages.
func RoutineProgress(routine *Routine) float64 {
	return RoutineSummary(routine).Percent
}
