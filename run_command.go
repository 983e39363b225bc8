package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tigertag/internal/catalogue"
	"github.com/llehouerou/tigertag/internal/config"
	"github.com/llehouerou/tigertag/internal/errmsg"
	"github.com/llehouerou/tigertag/internal/match"
	"github.com/llehouerou/tigertag/internal/prompt"
	"github.com/llehouerou/tigertag/internal/rename"
	"github.com/llehouerou/tigertag/internal/retag"
	"github.com/llehouerou/tigertag/internal/state"
	"github.com/llehouerou/tigertag/internal/vdj"
)

type runOptions struct {
	csvFiles []string
	sources  []string
	fromYear int
	toYear   int
	allYears bool
	template string
	batch    string
	vdjPath  string
	link     bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <folder>",
		Short: "Match, rename and retag the audio files of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			cat, err := loadRunCatalogue(ctx, cfg, folder, opts)
			if err != nil {
				return errmsg.Wrap(errmsg.OpCatalogueLoad, err)
			}
			if cat.Len() == 0 {
				return errmsg.Wrap(errmsg.OpCatalogueLoad, errors.New("no catalogue entries match the selection"))
			}

			tmpl, err := cfg.Template()
			if opts.template != "" {
				tmpl, err = rename.ParseTemplateName(opts.template)
			}
			if err != nil {
				return err
			}

			decider, err := newDecider(opts.batch, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalogue: %d entries from %s\n", cat.Len(), strings.Join(cat.Sources(), ", "))

			tagger := retag.New(cat, decider, retag.Options{
				Template:   tmpl,
				Resolver:   cfg.MatchResolver(),
				RetryDelay: cfg.RetryDelay(),
				Logger:     ctx.log(),
			})

			started := time.Now()
			report, runErr := tagger.Run(cmd.Context(), folder)
			if report == nil {
				return errmsg.Wrap(errmsg.OpRetag, runErr)
			}
			finished := time.Now()

			printReport(out, report, finished.Sub(started))

			var runID string
			err = ctx.withState(func(mgr *state.Manager) error {
				id, saveErr := mgr.SaveRun(state.Run{
					Folder:     folder,
					Template:   tmpl.Name(),
					StartedAt:  started,
					FinishedAt: finished,
					Tagged:     report.Tagged,
					Skipped:    report.Skipped + report.NoCandidate,
					Failed:     report.Failed,
					Renames:    report.Renames,
				})
				if saveErr != nil {
					return errmsg.Wrap(errmsg.OpRunSave, saveErr)
				}
				runID = id
				fmt.Fprintf(out, "Run %s saved with %d renames\n", runID, len(report.Renames))

				return syncAfterRun(ctx, cfg, mgr, out, runID, report, opts)
			})
			if err != nil {
				return err
			}

			switch {
			case errors.Is(runErr, match.ErrAborted):
				fmt.Fprintln(out, "Run aborted; files after the last one shown were not touched.")
			case runErr != nil:
				return errmsg.Wrap(errmsg.OpRetag, runErr)
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.csvFiles, "csv", nil, "Load the catalogue from CSV files instead of the state database")
	flags.StringArrayVar(&opts.sources, "source", nil, "Restrict the catalogue to these sources")
	flags.IntVar(&opts.fromYear, "from", 0, "First recording year to match")
	flags.IntVar(&opts.toYear, "to", 0, "Last recording year to match")
	flags.BoolVar(&opts.allYears, "all-years", false, "Do not take a year range from the folder name")
	flags.StringVar(&opts.template, "template", "", "Filename template (see 'tigertag templates')")
	flags.StringVar(&opts.batch, "batch", "", "Decide without prompting: 'first' or 'skip'")
	flags.StringVar(&opts.vdjPath, "vdj", "", "VirtualDJ database.xml to update")
	flags.BoolVar(&opts.link, "link", false, "Update the VirtualDJ database after the run")

	return cmd
}

// loadRunCatalogue loads the catalogue for a run and narrows it to the
// requested sources and years. Without explicit years the folder name
// supplies the range.
func loadRunCatalogue(ctx *commandContext, cfg *config.Config, folder string, opts runOptions) (*catalogue.Catalogue, error) {
	filter := catalogue.Filter{
		Sources:  opts.sources,
		FromYear: opts.fromYear,
		ToYear:   opts.toYear,
	}
	if filter.FromYear == 0 && filter.ToYear == 0 && !opts.allYears {
		if from, to, ok := catalogue.YearsFromFolder(filepath.Base(folder)); ok {
			filter.FromYear, filter.ToYear = from, to
			ctx.log().Info("year range from folder name", "from", from, "to", to)
		}
	}

	if len(opts.csvFiles) > 0 {
		cats := make([]*catalogue.Catalogue, 0, len(opts.csvFiles))
		for _, path := range opts.csvFiles {
			cat, err := catalogue.LoadCSV(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			cats = append(cats, cat)
		}
		return catalogue.Union(cats...).Filter(filter), nil
	}

	var cat *catalogue.Catalogue
	err := ctx.withState(func(mgr *state.Manager) error {
		var err error
		cat, err = catalogue.Load(mgr.DB(), filter)
		return err
	})
	return cat, err
}

func newDecider(batch string, in io.Reader, out io.Writer) (match.Decider, error) {
	switch strings.ToLower(strings.TrimSpace(batch)) {
	case "first":
		return match.AutoFirst{}, nil
	case "skip":
		return match.SkipAll{}, nil
	case "":
		if !interactive(in, out) {
			return nil, errors.New("interactive mode needs a terminal; use --batch first or --batch skip")
		}
		return &prompt.Terminal{In: in, Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown --batch mode %q (want first or skip)", batch)
	}
}

func printReport(w io.Writer, report *retag.Report, elapsed time.Duration) {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		newName := ""
		if !res.Rename.IsZero() {
			newName = res.Rename.New
		}
		score := ""
		if res.Entry != nil {
			score = strconv.Itoa(res.Score)
		}
		problem := ""
		if res.State == retag.StateFailed {
			problem = errmsg.FormatWith(errmsg.OpRetagFile, filepath.Base(res.Path), res.Err)
		} else if res.Err != nil {
			problem = res.Err.Error()
		}
		rows = append(rows, []string{
			filepath.Base(res.Path),
			res.State.String(),
			newName,
			score,
			problem,
		})
	}

	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable(
			[]string{"File", "Result", "New name", "Score", "Problem"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
	}
	fmt.Fprintf(w, "%d tagged, %d skipped, %d without candidate, %d unsupported, %d failed (%s)\n",
		report.Tagged, report.Skipped, report.NoCandidate, report.Unsupported, report.Failed,
		elapsed.Round(time.Millisecond))
}

// syncAfterRun updates the VirtualDJ database when linking is enabled,
// otherwise it reminds the user how to do it later.
func syncAfterRun(ctx *commandContext, cfg *config.Config, mgr *state.Manager, w io.Writer, runID string, report *retag.Report, opts runOptions) error {
	if len(report.Renames) == 0 {
		return nil
	}
	dbPath := opts.vdjPath
	if dbPath == "" {
		dbPath = cfg.VirtualDJ.DatabasePath
	}
	if dbPath == "" {
		return nil
	}
	if !opts.link && !cfg.VirtualDJ.Link {
		fmt.Fprintf(w, "VirtualDJ database not updated; run 'tigertag sync --run %s' to apply the renames\n", runID)
		return nil
	}

	res, err := vdj.NewSyncer(ctx.log()).Sync(vdj.Request{
		DatabasePath: dbPath,
		Folder:       report.Folder,
		Renames:      report.Renames,
	})
	if err != nil {
		return errmsg.Wrap(errmsg.OpVirtualDJ, err)
	}
	printSync(w, res)
	return mgr.MarkSynced(runID, time.Now())
}

func printSync(w io.Writer, res vdj.Result) {
	if res.BackupPath == "" {
		fmt.Fprintln(w, "VirtualDJ database: nothing to update")
		return
	}
	fmt.Fprintf(w, "VirtualDJ database: %s updated (backup %s)\n",
		humanize.Comma(int64(res.Updated))+" "+plural(res.Updated, "entry", "entries"),
		filepath.Base(res.BackupPath))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
