package bond

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/cpilib/market"
)

// PriceAll prices independent bonds concurrently with one engine. Quotes line
// up with bonds; the first failure cancels the rest.
func PriceAll(ctx context.Context, val market.Valuation, engine Engine, bonds []*CPIBond, concurrency int) ([]Quote, error) {
	out := make([]Quote, len(bonds))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, b := range bonds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			q, err := b.Price(val, engine)
			if err != nil {
				return err
			}
			out[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
