package main

import (
	"errors"
	"fmt"

	"alcyxob/fitness-routines/internal/domain"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Create a routine from a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(args[0])
			if err != nil {
				return err
			}
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			routine, err := api.CreateRoutine(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("failed to create routine: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %q (%s) with %d days\n",
				color.GreenString("✓"), routine.Name, routine.ID.Hex(), len(routine.Days))
			return nil
		},
	}
}

// readDraft decodes and validates a routine file, e.g.
//
//	name = "Upper Lower"
//	[[day]]
//	name = "Day 1: Lower"
//	[[day.exercise]]
//	name = "Squat"
//	sets = 5
//	reps = 5
//	rest_seconds = "90s"
func readDraft(path string) (domain.RoutineDraft, error) {
	var draft domain.RoutineDraft
	meta, err := toml.DecodeFile(path, &draft)
	if err != nil {
		return draft, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return draft, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return draft, errors.Join(fmt.Errorf("invalid routine in %s", path), err)
	}
	return draft, nil
}
