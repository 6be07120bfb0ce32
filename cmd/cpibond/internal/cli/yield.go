package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/cpilib/bond"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
)

type yieldFlags struct {
	only      []string
	rate      float64
	dirty     float64
	override  bool
	fromDirty bool
}

// NewYieldCommand creates the yield subcommand.
func NewYieldCommand(opts *RootOptions) *cobra.Command {
	f := &yieldFlags{}

	cmd := &cobra.Command{
		Use:   "yield FILE",
		Short: "Price bonds from their quoted yield, or solve the yield of a price",
		Long: `Price each bond from the yield quoted in its document section and report
modified duration. The yield is then solved back from the dirty price.

With --dirty the price is taken as given and only the yield is solved; a
single bond must then be selected with --bond.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.override = cmd.Flags().Changed("rate")
			f.fromDirty = cmd.Flags().Changed("dirty")
			if f.fromDirty && len(f.only) != 1 {
				return fmt.Errorf("%w: --dirty needs exactly one --bond", errUsage)
			}

			s, err := loadSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if _, err := s.buildCurve(opts); err != nil {
				return err
			}
			bonds, err := s.bonds(f.only)
			if err != nil {
				return err
			}

			out := yieldOutput{Bonds: make([]yieldJSON, 0, len(bonds))}
			for _, b := range bonds {
				row, err := s.yieldRow(opts, f, b)
				if err != nil {
					return err
				}
				out.Bonds = append(out.Bonds, row)
			}
			return emit(cmd.OutOrStdout(), opts, out)
		},
	}

	cmd.Flags().StringSliceVar(&f.only, "bond", nil, "bond ids (repeatable)")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "override the document's quoted yield")
	cmd.Flags().Float64Var(&f.dirty, "dirty", 0, "dirty price per 100 to solve the yield of")
	return cmd
}

func (s *session) quotedYield(id string) (market.InterestRate, error) {
	for _, doc := range s.doc.Bonds {
		if doc.ID == id && doc.Yield != nil {
			return doc.Yield.InterestRate()
		}
	}
	return market.InterestRate{}, errs.InvalidInput("%s: bond %s has no yield section", s.path, id)
}

func (s *session) yieldRow(opts *RootOptions, f *yieldFlags, b *bond.CPIBond) (yieldJSON, error) {
	y, err := s.quotedYield(b.ID())
	if err != nil {
		return yieldJSON{}, err
	}
	if f.override {
		y = y.WithRate(f.rate)
	}
	settlement := b.SettlementDate(s.val)
	row := yieldJSON{ID: b.ID(), Settlement: date(settlement)}

	if f.fromDirty {
		row.Dirty = f.dirty
	} else {
		if row.Dirty, err = bond.DirtyPriceFromYield(s.val, b, y, settlement); err != nil {
			return yieldJSON{}, err
		}
	}

	res, err := bond.Yield(s.val, b, row.Dirty, y, settlement, opts.cfg.Yield)
	if err != nil {
		return yieldJSON{}, err
	}
	row.ImpliedRate = res.Yield.Rate
	row.Iterations = res.Iterations
	opts.logger.Debug("yield solved", "bond", b.ID(), "yield", res.Yield.String(), "iterations", res.Iterations)

	if f.fromDirty {
		y = res.Yield
	}
	row.Yield = y.String()
	if row.Clean, err = bond.CleanPriceFromYield(s.val, b, y, settlement); err != nil {
		return yieldJSON{}, err
	}
	if row.Duration, err = bond.Duration(s.val, b, y, settlement); err != nil {
		return yieldJSON{}, err
	}
	return row, nil
}
