package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tigertag/internal/errmsg"
	"github.com/llehouerou/tigertag/internal/state"
	"github.com/llehouerou/tigertag/internal/vdj"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var vdjPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply the renames of a recorded run to the VirtualDJ database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if vdjPath == "" {
				vdjPath = cfg.VirtualDJ.DatabasePath
			}
			if vdjPath == "" {
				return errors.New("no VirtualDJ database: pass --vdj or set virtualdj.database_path")
			}

			return ctx.withState(func(mgr *state.Manager) error {
				var run *state.Run
				if runID == "" {
					run, err = mgr.LatestRun()
				} else {
					run, err = mgr.GetRun(runID)
				}
				if err != nil {
					return errmsg.Wrap(errmsg.OpRunLoad, err)
				}
				if run == nil {
					return errmsg.Wrap(errmsg.OpRunLoad, state.ErrRunNotFound)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s: %s, %d renames\n", run.ID, run.Folder, len(run.Renames))
				if run.SyncedAt != nil {
					fmt.Fprintf(out, "Already synced on %s; applying again\n", run.SyncedAt.Format(time.DateTime))
				}

				res, err := vdj.NewSyncer(ctx.log()).Sync(vdj.Request{
					DatabasePath: vdjPath,
					Folder:       run.Folder,
					Renames:      run.Renames,
				})
				if err != nil {
					return errmsg.Wrap(errmsg.OpVirtualDJ, err)
				}
				printSync(out, res)
				return mgr.MarkSynced(run.ID, time.Now())
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id (default: latest run)")
	cmd.Flags().StringVar(&vdjPath, "vdj", "", "VirtualDJ database.xml (overrides config)")

	return cmd
}
