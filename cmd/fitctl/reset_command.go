package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	var dayID string

	cmd := &cobra.Command{
		Use:   "reset [routineId]",
		Short: "Clear the completed marks of a routine, or of one day with --day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dayID = strings.TrimSpace(dayID)
			if dayID == "" && len(args) == 0 {
				return errors.New("either a routine id or --day is required")
			}
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dayID != "" {
				day, err := api.ResetDay(cmd.Context(), dayID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Reset %q: %s\n", color.GreenString("✓"), day.DayName, progressLabel(day.Progress))
				return nil
			}

			routine, err := api.ResetRoutine(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Reset %q: %s\n", color.GreenString("✓"), routine.Name, progressLabel(routine.Progress))
			return nil
		},
	}

	cmd.Flags().StringVar(&dayID, "day", "", "Reset only this day")
	return cmd
}
