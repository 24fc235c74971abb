package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ExperienceLevel steers routine generation.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

func (l ExperienceLevel) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

const (
	MaxDaysPerRoutine   = 7
	DefaultAlternatives = 3
	MaxAlternatives     = 5
)

// GenerationParams describe the routine a user asks the generator for.
type GenerationParams struct {
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Goal            string          `json:"goal"`
	Equipment       []string        `json:"equipment,omitempty"`
	DayCount        int             `json:"dayCount"`
	Notes           string          `json:"notes,omitempty"`
}

func (p *GenerationParams) Validate() error {
	p.Goal = strings.TrimSpace(p.Goal)
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = LevelBeginner
	}
	if !p.ExperienceLevel.Valid() {
		return fmt.Errorf("experienceLevel must be one of %s, %s, %s", LevelBeginner, LevelIntermediate, LevelAdvanced)
	}
	if p.Goal == "" {
		return errors.New("goal is required")
	}
	if p.DayCount < 1 || p.DayCount > MaxDaysPerRoutine {
		return fmt.Errorf("dayCount must be between 1 and %d", MaxDaysPerRoutine)
	}
	return nil
}

// ClampAlternatives bounds the requested number of alternative exercises.
func ClampAlternatives(n int) int {
	switch {
	case n <= 0:
		return DefaultAlternatives
	case n > MaxAlternatives:
		return MaxAlternatives
	default:
		return n
	}
}
