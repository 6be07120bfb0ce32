package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meenmo/cpilib/inflation"
)

// NewCurveCommand creates the curve subcommand.
func NewCurveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "curve FILE...",
		Short: "Bootstrap the zero inflation curve of each document",
		Long: `Bootstrap one zero-coupon inflation curve per market-data document and
print its pillars. Documents are bootstrapped concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			jobs := make([]inflation.CurveJob, 0, len(args))
			for _, path := range args {
				s, err := loadSession(ctx, opts, path)
				if err != nil {
					return err
				}
				jobs = append(jobs, inflation.CurveJob{
					ID:     uuid.NewString(),
					Params: s.params,
					Index:  s.index,
					Quotes: s.quotes,
				})
			}

			curves, err := inflation.BootstrapAll(ctx, jobs, opts.cfg.Batch.Concurrency)
			if err != nil {
				return err
			}

			out := curveOutput{Curves: make([]curveJSON, len(curves))}
			for i, c := range curves {
				nodes := c.Nodes()
				cj := curveJSON{
					TaskID:        jobs[i].ID,
					Source:        args[i],
					Index:         jobs[i].Index.Name(),
					ReferenceDate: date(c.ReferenceDate()),
					BaseDate:      date(c.BaseDate()),
					Nodes:         make([]nodeJSON, len(nodes)),
				}
				for j, n := range nodes {
					cj.Nodes[j] = nodeJSON{Date: date(n.Date), ZeroRate: n.Rate}
				}
				out.Curves[i] = cj
				opts.logger.Debug("curve bootstrapped", "task_id", cj.TaskID, "source", cj.Source, "nodes", len(nodes))
			}
			return emit(cmd.OutOrStdout(), opts, out)
		},
	}
}
