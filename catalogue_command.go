package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tigertag/internal/catalogue"
	"github.com/llehouerou/tigertag/internal/errmsg"
	"github.com/llehouerou/tigertag/internal/state"
)

func newCatalogueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Manage the reference catalogue",
	}
	cmd.AddCommand(newCatalogueImportCommand(ctx))
	cmd.AddCommand(newCatalogueListCommand(ctx))
	return cmd
}

func newCatalogueImportCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <csv>...",
		Short: "Import CSV files as catalogue sources, replacing earlier imports of the same source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return errors.New("--name needs exactly one CSV file")
			}

			return ctx.withState(func(mgr *state.Manager) error {
				for _, path := range args {
					source := name
					if source == "" {
						source = catalogue.SourceName(path)
					}
					cat, err := readCatalogueFile(path, source)
					if err != nil {
						return errmsg.WrapWith(errmsg.OpCatalogueImport, path, err)
					}
					if err := catalogue.Import(mgr.DB(), source, cat); err != nil {
						return errmsg.Wrap(errmsg.OpCatalogueImport, err)
					}
					ctx.log().Info("catalogue imported", "source", source, "entries", cat.Len())
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %s entries from %s as %q\n",
						humanize.Comma(int64(cat.Len())), path, source)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Source name (default: file name without extension)")
	return cmd
}

func readCatalogueFile(path, source string) (*catalogue.Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogue.ReadCSV(f, source)
}

func newCatalogueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported catalogue sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withState(func(mgr *state.Manager) error {
				sources, err := catalogue.Sources(mgr.DB())
				if err != nil {
					return errmsg.Wrap(errmsg.OpCatalogueList, err)
				}
				if len(sources) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No catalogue imported yet; use 'tigertag catalogue import <csv>'")
					return nil
				}

				rows := make([][]string, 0, len(sources))
				for _, s := range sources {
					rows = append(rows, []string{s.Name, strconv.Itoa(s.Entries), humanize.Time(s.ImportedAt)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Source", "Entries", "Imported"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
