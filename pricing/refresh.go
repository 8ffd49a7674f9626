package pricing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/partkb/core"
)

// Summary counts the outcome of a refresh.
type Summary struct {
	Eligible int // Records that were looked up
	Priced   int // Records that received a price
	Missing  int // Records the quoter had no price for
	Failed   int // Records whose lookup kept failing
	Skipped  int // Records not looked up at all
}

// Refresher fills offer prices from a Quoter.
type Refresher struct {
	quoter   Quoter
	backoff  Backoff
	pause    time.Duration
	force    bool
	progress io.Writer
	interval int
	logger   *slog.Logger
}

// Option configures a Refresher.
type Option func(*Refresher) error

// WithBackoff sets the retry behavior for failing lookups.
func WithBackoff(b Backoff) Option {
	return func(r *Refresher) error {
		if b.Attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.backoff = b
		return nil
	}
}

// WithPause sets a delay between consecutive lookups.
// Default is no delay.
func WithPause(d time.Duration) Option {
	return func(r *Refresher) error {
		r.pause = d
		return nil
	}
}

// WithForce looks up records that already carry a price.
func WithForce(force bool) Option {
	return func(r *Refresher) error {
		r.force = force
		return nil
	}
}

// WithProgress reports progress to w every interval lookups.
func WithProgress(w io.Writer, interval int) Option {
	return func(r *Refresher) error {
		r.progress = w
		r.interval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Refresher) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRefresher creates a refresher backed by quoter.
func NewRefresher(quoter Quoter, opts ...Option) (*Refresher, error) {
	if quoter == nil {
		return nil, ErrQuoterRequired
	}
	r := &Refresher{
		quoter:   quoter,
		backoff:  DefaultBackoff(),
		interval: 10,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// eligible reports whether a record should be looked up.
// Records without an mpn, from a generic manufacturer, or already priced
// are left alone.
func (r *Refresher) eligible(rec *core.RawRecord) bool {
	mpn := strings.TrimSpace(rec.MPN)
	if mpn == "" || strings.EqualFold(mpn, "nan") {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(rec.Manufacturer), "generic") {
		return false
	}
	if r.force {
		return true
	}
	price := strings.TrimSpace(rec.OfferPrice)
	return price == "" || strings.EqualFold(price, "nan")
}

// Refresh looks up prices for the eligible records and writes offer_price
// and currency in place. A failing lookup is logged and counted; only the
// end of ctx stops the refresh early.
func (r *Refresher) Refresh(ctx context.Context, records []*core.RawRecord) (Summary, error) {
	var summary Summary
	var todo []*core.RawRecord
	for _, rec := range records {
		if r.eligible(rec) {
			todo = append(todo, rec)
		} else {
			summary.Skipped++
		}
	}
	summary.Eligible = len(todo)

	progress := NewProgress(r.progress, len(todo), r.interval)
	progress.Start()
	defer progress.Finish()

	for i, rec := range todo {
		if i > 0 && r.pause > 0 {
			timer := time.NewTimer(r.pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}

		var quote Quote
		err := r.backoff.Do(ctx, func(ctx context.Context) error {
			q, err := r.quoter.Quote(ctx, rec.Manufacturer, rec.MPN)
			if errors.Is(err, ErrNoQuote) {
				return Permanent(err)
			}
			quote = q
			return err
		})

		switch {
		case err == nil:
			rec.OfferPrice = strconv.FormatFloat(quote.Price, 'f', -1, 64)
			if quote.Currency != "" {
				rec.Currency = quote.Currency
			}
			summary.Priced++
			r.logger.Debug("priced part", "part", rec.Label, "mpn", rec.MPN, "price", quote.Price, "currency", quote.Currency)
		case errors.Is(err, ErrNoQuote):
			summary.Missing++
		case ctx.Err() != nil:
			return summary, ctx.Err()
		default:
			summary.Failed++
			r.logger.Warn("price lookup failed", "part", rec.Label, "mpn", rec.MPN, "err", err)
		}
		progress.Step(err == nil)
	}

	r.logger.Info("price refresh complete",
		"eligible", summary.Eligible, "priced", summary.Priced,
		"missing", summary.Missing, "failed", summary.Failed,
		"elapsed", progress.Elapsed())
	return summary, nil
}
