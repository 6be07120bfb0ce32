package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/marketdata"
)

// session is one market document turned into library objects. The index has
// its fixings loaded but no curve linked yet.
type session struct {
	path     string
	doc      *marketdata.Document
	val      market.Valuation
	index    *inflation.Index
	discount discount.Curve
	params   inflation.CurveParams
	quotes   []inflation.SwapQuote
}

func loadSession(ctx context.Context, opts *RootOptions, path string) (*session, error) {
	doc, err := marketdata.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	s := &session{path: path, doc: doc}

	if s.val, err = doc.Valuation(); err != nil {
		return nil, err
	}
	spec, err := doc.IndexSpec()
	if err != nil {
		return nil, err
	}
	if s.index, err = inflation.NewIndex(spec, nil, nil); err != nil {
		return nil, err
	}
	feed, err := doc.Feed()
	if err != nil {
		return nil, err
	}
	if err := loadFixings(ctx, opts, s.index, feed, path); err != nil {
		return nil, err
	}

	if s.discount, err = doc.DiscountCurve(); err != nil {
		return nil, err
	}
	if s.params, err = doc.CurveParams(s.discount, opts.cfg.Bootstrap); err != nil {
		return nil, err
	}
	if s.quotes, err = doc.SwapQuotes(); err != nil {
		return nil, err
	}
	return s, nil
}

// buildCurve bootstraps the session's curve and links it to the index.
func (s *session) buildCurve(opts *RootOptions) (*inflation.ZeroCurve, error) {
	curve, err := inflation.BuildZeroCurve(s.params, s.index, s.quotes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.index.Handle().LinkTo(curve)
	opts.logger.Debug("curve bootstrapped",
		"index", s.index.Name(),
		"base_date", curve.BaseDate(),
		"nodes", len(curve.Nodes()))
	return curve, nil
}

// openStore opens the fixings database. postgres is the default driver; a
// sqlite3:// prefix selects SQLite.
func openStore(dsn string) (*marketdata.SQLStore, func() error, error) {
	driver := "postgres"
	if rest, ok := strings.CutPrefix(dsn, "sqlite3://"); ok {
		driver, dsn = "sqlite3", rest
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return marketdata.NewSQLStore(db), db.Close, nil
}

// loadFixings merges the document's fixings with the stored ones, when a
// database is configured, and adds the union to index in date order.
func loadFixings(ctx context.Context, opts *RootOptions, index *inflation.Index, doc marketdata.FixingFeed, path string) error {
	feeds := []marketdata.FixingFeed{doc}
	source := "document"
	if opts.FixingsDSN != "" {
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
		feeds = append(feeds, store)
		source = "database"
	}

	n, err := marketdata.LoadAll(ctx, index, feeds...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	opts.logger.Debug("fixings loaded", "source", source, "document", path, "index", index.Name(), "count", n)
	return nil
}
