package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/fitness-routines/internal/domain"
)

// ErrInvalidResponse means the model answered, but not with a usable payload.
var ErrInvalidResponse = errors.New("invalid model response")

// Generator builds prompts, calls the model and validates what comes back.
// Nothing it returns is persisted.
type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// GenerateRoutine asks the model for a complete routine draft.
func (g *Generator) GenerateRoutine(ctx context.Context, params domain.GenerationParams) (*domain.RoutineDraft, error) {
	content, err := g.completer.Complete(ctx, CompletionRequest{
		System: routineSystemPrompt,
		User:   routineUserPrompt(params),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var draft domain.RoutineDraft
	if err := DecodeJSON(content, &draft); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	return &draft, nil
}

func routineUserPrompt(p domain.GenerationParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day workout routine for a %s lifter.\n", p.DayCount, p.ExperienceLevel)
	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	if len(p.Equipment) > 0 {
		fmt.Fprintf(&b, "Available equipment: %s\n", strings.Join(p.Equipment, ", "))
	} else {
		b.WriteString("Available equipment: bodyweight only\n")
	}
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", notes)
	}
	fmt.Fprintf(&b, "Return exactly %d days.", p.DayCount)
	return b.String()
}

// SuggestAlternatives asks for up to count replacements for one exercise.
// Invalid candidates are dropped; an answer with none left is an error.
func (g *Generator) SuggestAlternatives(ctx context.Context, ex *domain.Exercise, count int) ([]domain.ExerciseDraft, error) {
	count = domain.ClampAlternatives(count)

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d alternatives to %q", count, ex.Name)
	if len(ex.MuscleGroups) > 0 {
		fmt.Fprintf(&b, " (muscles: %s)", strings.Join(ex.MuscleGroups, ", "))
	}
	fmt.Fprintf(&b, ", currently prescribed as %d sets of %d %s.", ex.Sets, ex.Reps, ex.RepsUnit)

	content, err := g.completer.Complete(ctx, CompletionRequest{
		System: alternativesSystemPrompt,
		User:   b.String(),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Exercises []domain.ExerciseDraft `json:"exercises"`
	}
	if err := DecodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	out := make([]domain.ExerciseDraft, 0, count)
	for _, d := range payload.Exercises {
		d.Normalize()
		if d.Validate() != nil || strings.EqualFold(d.Name, ex.Name) {
			continue
		}
		// Keep the slot in the same circuit as the exercise it replaces.
		d.CircuitID = ex.CircuitID
		out = append(out, d)
		if len(out) == count {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable alternatives", ErrInvalidResponse)
	}
	return out, nil
}

// Chat answers a free-form fitness question.
func (g *Generator) Chat(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("chat: empty prompt")
	}
	answer, err := g.completer.Complete(ctx, CompletionRequest{
		System: chatSystemPrompt,
		User:   prompt,
	})
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrInvalidResponse)
	}
	return answer, nil
}
