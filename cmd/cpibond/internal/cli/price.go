package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/meenmo/cpilib/bond"
)

// NewPriceCommand creates the price subcommand.
func NewPriceCommand(opts *RootOptions) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "price FILE",
		Short: "Price the document's CPI bonds off the bootstrapped curve",
		Long: `Bootstrap the document's inflation curve, link it to the index and price
every bond with the nominal discount curve. Prices are per 100 notional at
each bond's settlement date; NPV is in currency at the evaluation date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if _, err := s.buildCurve(opts); err != nil {
				return err
			}
			bonds, err := s.bonds(only)
			if err != nil {
				return err
			}

			engine := bond.NewDiscountingEngine(s.discount)
			quotes, err := bond.PriceAll(cmd.Context(), s.val, engine, bonds, opts.cfg.Batch.Concurrency)
			if err != nil {
				return err
			}

			out := priceOutput{EvaluationDate: date(s.val.EvaluationDate), Bonds: make([]priceJSON, len(quotes))}
			for i, q := range quotes {
				npv, err := engine.NPV(s.val, bonds[i])
				if err != nil {
					return err
				}
				out.Bonds[i] = priceJSON{
					ID:         q.ID,
					Settlement: date(q.Settlement),
					Clean:      q.Clean,
					Dirty:      q.Dirty,
					Accrued:    q.Accrued,
					NPV:        npv,
				}
				opts.logger.Debug("bond priced", "quote", q.String())
			}
			return emit(cmd.OutOrStdout(), opts, out)
		},
	}

	cmd.Flags().StringSliceVar(&only, "bond", nil, "price only these bond ids (repeatable)")
	return cmd
}

// bonds builds the document's bonds against the session index, keeping only
// the ids in only when it is non-empty.
func (s *session) bonds(only []string) ([]*bond.CPIBond, error) {
	want := make(map[string]bool, len(only))
	for _, id := range only {
		want[id] = true
	}
	var out []*bond.CPIBond
	for _, doc := range s.doc.Bonds {
		if len(only) > 0 && !want[doc.ID] {
			continue
		}
		b, err := doc.Bond(s.index)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		delete(want, doc.ID)
	}
	if len(want) > 0 {
		return nil, fmt.Errorf("%w: %s: no bonds %v", errUsage, s.path, slices.Sorted(maps.Keys(want)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: no bonds", errUsage, s.path)
	}
	return out, nil
}
