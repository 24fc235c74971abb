package main

import (
	"fmt"
	"strconv"
	"strings"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRoutinesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "routines",
		Short: "List your routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			routines, err := api.ListRoutines(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(routines) == 0 {
				fmt.Fprintln(out, "No routines yet. Create one with `fitctl import <file.toml>`.")
				return nil
			}

			rows := make([][]string, 0, len(routines))
			for _, r := range routines {
				rows = append(rows, []string{
					r.ID.Hex(),
					r.Name,
					strconv.Itoa(len(r.Days)),
					strconv.Itoa(r.Progress.Total),
					formatPercent(r.Progress.Percent),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Days", "Exercises", "Done"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <routineId>",
		Short: "Show a routine day by day, circuits first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			routine, err := api.GetRoutine(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRoutine(routine))
			return nil
		},
	}
}

func renderRoutine(r *service.RoutineView) string {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", green(r.Name), progressLabel(r.Progress))

	for _, day := range r.Days {
		fmt.Fprintf(&b, "\n%s  %s\n", cyan(day.DayName), progressLabel(day.Progress))
		if len(day.MusclesWorked) > 0 {
			fmt.Fprintf(&b, "   %s %s\n", cyan("Muscles:"), strings.Join(day.MusclesWorked, ", "))
		}
		for _, circuit := range day.Grouping.Circuits {
			fmt.Fprintf(&b, "   %s\n", yellow("Circuit "+circuit.ID))
			for _, ex := range circuit.Exercises {
				fmt.Fprintf(&b, "     %s\n", exerciseLine(ex))
			}
		}
		for _, ex := range day.Grouping.Standalone {
			fmt.Fprintf(&b, "   %s\n", exerciseLine(ex))
		}
	}
	return b.String()
}

func progressLabel(p domain.ProgressSummary) string {
	return fmt.Sprintf("%d/%d (%s)", p.Completed, p.Total, formatPercent(p.Percent))
}

func exerciseLine(ex domain.Exercise) string {
	mark := "[ ]"
	if ex.Completed {
		mark = color.GreenString("[x]")
	}
	return fmt.Sprintf("%s %s  %s  %s", mark, ex.Name, prescription(ex), color.HiBlackString(ex.ID.Hex()))
}

// prescription reads like "3 x 10 @ 20kg, rest 90s".
func prescription(ex domain.Exercise) string {
	reps := strconv.Itoa(ex.Reps)
	if ex.RepsUnit == domain.RepsUnitSeconds {
		reps += "s"
	}
	s := fmt.Sprintf("%d x %s", ex.Sets, reps)
	if ex.Weight > 0 {
		s += fmt.Sprintf(" @ %s%s", strconv.FormatFloat(ex.Weight, 'f', -1, 64), ex.WeightUnit)
	}
	if ex.Rest > 0 {
		s += fmt.Sprintf(", rest %s", ex.Rest.Duration())
	}
	return s
}
