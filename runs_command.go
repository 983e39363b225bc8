package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tigertag/internal/errmsg"
	"github.com/llehouerou/tigertag/internal/rename"
	"github.com/llehouerou/tigertag/internal/state"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withState(func(mgr *state.Manager) error {
				runs, err := mgr.ListRuns()
				if err != nil {
					return errmsg.Wrap(errmsg.OpRunLoad, err)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					synced := "no"
					if r.SyncedAt != nil {
						synced = humanize.Time(*r.SyncedAt)
					}
					rows = append(rows, []string{
						r.ID,
						r.Folder,
						humanize.Time(r.StartedAt),
						strconv.Itoa(r.Tagged),
						strconv.Itoa(r.Skipped),
						strconv.Itoa(r.Failed),
						strconv.Itoa(r.RenameCount),
						synced,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Folder", "Started", "Tagged", "Skipped", "Failed", "Renames", "Synced"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List filename templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(rename.Templates()))
			for _, t := range rename.Templates() {
				name := t.Name()
				if name == rename.DefaultTemplateName {
					name += " (default)"
				}
				rows = append(rows, []string{name, t.Pattern()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Pattern"}, rows, nil))
			return nil
		},
	}
}
