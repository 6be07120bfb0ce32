package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/cpilib/marketdata"
)

// NewFixingsCommand creates the fixings subcommand.
func NewFixingsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fixings FILE",
		Short: "Store the document's index fixings in the fixings database",
		Long: `Write the document's fixings to the database named by --fixings-dsn,
creating the table if needed. Re-saving a known fixing is a no-op; a revised
level is rejected and nothing from the batch is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.FixingsDSN == "" {
				return fmt.Errorf("%w: fixings needs --fixings-dsn", errUsage)
			}
			ctx := cmd.Context()

			doc, err := marketdata.LoadDocument(args[0])
			if err != nil {
				return err
			}
			feed, err := doc.Feed()
			if err != nil {
				return err
			}
			fixings, err := feed.Fixings(ctx, doc.Index.Name)
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(opts.FixingsDSN)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeDB(); cerr != nil {
					opts.logger.Error("error closing fixings database", "error", cerr)
				}
			}()
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			if err := store.Save(ctx, doc.Index.Name, fixings); err != nil {
				return err
			}
			opts.logger.Debug("fixings stored", "index", doc.Index.Name, "count", len(fixings))

			out := fixingsOutput{Index: doc.Index.Name, Saved: len(fixings)}
			if len(fixings) > 0 {
				out.First = date(fixings[0].Date)
				out.Last = date(fixings[len(fixings)-1].Date)
			}
			return emit(cmd.OutOrStdout(), opts, out)
		},
	}
}
