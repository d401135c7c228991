package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sablier-labs/price-data/internal/domain"
)

// Status classifies what processing one unit did.
type Status string

const (
	StatusUpdated Status = "updated"   // data changed and was persisted
	StatusSkipped Status = "skipped"   // fetch succeeded, nothing changed
	StatusFailed  Status = "failed"    // unit error, batch continued
)

// Outcome is the per-unit report line. Window is zero when the period never
// resolved to a valid range.
type Outcome struct {
	Asset     string
	Period    Period
	Window    domain.DayRange
	Status    Status
	Changed   int
	Malformed int
	Err       error
}

// Batch drives the pipeline across units strictly sequentially, in the order
// given. One unit's failure never aborts the rest; outcomes come back in
// enumeration order.
type Batch struct {
	Service *PriceDataService
	Log     *zap.Logger
}

func (b *Batch) Run(ctx context.Context, units []Unit) []Outcome {
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	log.Info("batch_started", zap.Int("units", len(units)))

	outcomes := make([]Outcome, 0, len(units))
	for _, u := range units {
		started := time.Now()
		res, err := b.Service.Process(ctx, u)
		out := Outcome{
			Asset:     u.Asset.Symbol,
			Period:    u.Period,
			Window:    res.Window,
			Changed:   res.Changed,
			Malformed: res.Malformed,
			Err:       err,
		}
		switch {
		case err != nil:
			out.Status = StatusFailed
			log.Warn("unit_failed",
				zap.String("asset", u.Asset.Symbol),
				zap.String("period", u.Period.Label()),
				zap.Duration("took", time.Since(started)),
				zap.Error(err))
		case res.Changed > 0:
			out.Status = StatusUpdated
			log.Info("unit_updated",
				zap.String("asset", u.Asset.Symbol),
				zap.String("period", u.Period.Label()),
				zap.Int("changed", res.Changed),
				zap.Duration("took", time.Since(started)))
		default:
			out.Status = StatusSkipped
			log.Info("unit_skipped",
				zap.String("asset", u.Asset.Symbol),
				zap.String("period", u.Period.Label()),
				zap.Duration("took", time.Since(started)))
		}
		outcomes = append(outcomes, out)
	}

	updated, skipped, failed := Summarize(outcomes)
	log.Info("batch_finished",
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))
	return outcomes
}

// Summarize tallies outcomes by status.
func Summarize(outcomes []Outcome) (updated, skipped, failed int) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusUpdated:
			updated++
		case StatusFailed:
			failed++
		default:
			skipped++
		}
	}
	return updated, skipped, failed
}
