package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"alcyxob/fitness-routines/internal/workout"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newWorkoutCommand(ctx *commandContext) *cobra.Command {
	var work time.Duration
	var prepare time.Duration
	var rest time.Duration
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "workout <exerciseId>",
		Short: "Run the set/rest timer for an exercise and mark it completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			ex, err := api.GetExercise(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ex.Sets <= 0 {
				return errors.New("exercise has no sets to time")
			}
			if rest <= 0 {
				rest = ex.Rest.Duration()
			}

			out := &syncWriter{w: cmd.OutOrStdout()}
			fmt.Fprintf(out, "%s  %s\n", color.New(color.FgGreen, color.Bold).Sprint(ex.Name), prescription(*ex))

			done := make(chan struct{})
			var once sync.Once
			timer := workout.NewTimer(workout.Callbacks{
				OnCue: func(c workout.Cue) {
					fmt.Fprintf(out, "\n\a%s\n", cueMessage(c))
				},
				OnTick: func(s workout.Snapshot) {
					if s.Phase == workout.PhaseIdle {
						return
					}
					fmt.Fprintf(out, "\r%-9s %-12s %8s", s.Phase, s.Label(), time.Duration(s.Remaining)*tick)
				},
				OnComplete: func() {
					once.Do(func() { close(done) })
				},
			}, workout.WithTickInterval(tick))

			err = timer.Start(workout.Config{Sets: ex.Sets, Work: work, Rest: rest, Prepare: prepare})
			if err != nil {
				return err
			}

			select {
			case <-done:
				timer.Stop()
			case <-cmd.Context().Done():
				timer.Stop()
				fmt.Fprintln(out)
				return cmd.Context().Err()
			}

			if ex.Completed {
				fmt.Fprintf(out, "\n%s was already marked completed\n", ex.Name)
				return nil
			}
			if _, err := api.ToggleExercise(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("mark completed: %w", err)
			}
			fmt.Fprintf(out, "\n%s Marked %s completed\n", color.GreenString("✓"), ex.Name)
			return nil
		},
	}

	cmd.Flags().DurationVar(&work, "work", workout.DefaultWorkDuration, "Length of each working set")
	cmd.Flags().DurationVar(&prepare, "prepare", workout.DefaultPrepareDuration, "Countdown before the first set")
	cmd.Flags().DurationVar(&rest, "rest", 0, "Rest between sets (default: the exercise's rest)")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "Countdown step")
	_ = cmd.Flags().MarkHidden("tick")
	return cmd
}

func cueMessage(c workout.Cue) string {
	switch c {
	case workout.CuePrepare:
		return color.CyanString("Get ready")
	case workout.CueWork:
		return color.YellowString("Go!")
	case workout.CueRestWarning:
		return color.CyanString("Rest almost over")
	case workout.CueFinished:
		return color.GreenString("Done")
	}
	return c.String()
}

// syncWriter serializes writes from the timer's callbacks and the command.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
