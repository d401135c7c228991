package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sablier-labs/price-data/internal/domain"
)

// Kind selects which provider a unit is fetched from.
type Kind string

const (
	KindCrypto Kind = "crypto"
	KindForex  Kind = "forex"
)

// Period is a human-specified time period, resolved to a day range per unit.
// Days > 0 means "the most recent Days days"; otherwise Year/Month name a
// calendar month.
type Period struct {
	Year  int
	Month int
	Days  int
}

func (p Period) Label() string {
	if p.Days > 0 {
		return fmt.Sprintf("last %d days", p.Days)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Unit is one independent piece of batch work: one asset over one period.
type Unit struct {
	Asset  domain.Asset
	Kind   Kind
	Period Period
}

// UnitResult reports what one processed unit did to the persisted series.
type UnitResult struct {
	Window    domain.DayRange
	Changed   int
	Malformed int
}

// PriceDataService runs the fetch-and-merge pipeline for a single unit:
// resolve the day range, fetch, normalize, merge against the persisted
// series, and persist only when something changed.
type PriceDataService struct {
	store  SeriesStore
	crypto CryptoProvider
	forex  ForexProvider
	policy domain.MergePolicy
	clock  Clock
	log    *zap.Logger
}

type Option func(*PriceDataService)

func WithClock(c Clock) Option               { return func(s *PriceDataService) { s.clock = c } }
func WithPolicy(p domain.MergePolicy) Option { return func(s *PriceDataService) { s.policy = p } }
func WithLogger(l *zap.Logger) Option        { return func(s *PriceDataService) { s.log = l } }

func NewPriceDataService(store SeriesStore, crypto CryptoProvider, forex ForexProvider, opts ...Option) *PriceDataService {
	s := &PriceDataService{
		store:  store,
		crypto: crypto,
		forex:  forex,
		policy: domain.PolicyOverwrite,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Process runs one unit to completion. Errors are typed per the domain
// taxonomy and are the caller's to record; they carry no batch semantics.
func (s *PriceDataService) Process(ctx context.Context, u Unit) (UnitResult, error) {
	window, err := s.resolveWindow(u.Period)
	if err != nil {
		return UnitResult{}, err
	}

	fetched, err := s.fetch(ctx, u, window)
	if err != nil {
		return UnitResult{Window: window}, err
	}

	loaded, err := s.store.Load(ctx, u.Asset.Symbol)
	if err != nil {
		return UnitResult{Window: window}, fmt.Errorf("load series %s: %w", u.Asset.Symbol, err)
	}
	if loaded.Malformed > 0 {
		s.log.Warn("malformed_rows_skipped",
			zap.String("asset", u.Asset.Symbol),
			zap.Int("count", loaded.Malformed))
	}

	res := domain.Merge(loaded.Series, fetched, window, s.policy)
	if res.Changed == 0 {
		s.log.Info("merge_no_change", zap.String("asset", u.Asset.Symbol), zap.Stringer("window", window))
		return UnitResult{Window: window, Malformed: loaded.Malformed}, nil
	}

	if err := s.store.Save(ctx, u.Asset.Symbol, res.Series); err != nil {
		return UnitResult{Window: window, Malformed: loaded.Malformed}, fmt.Errorf("save series %s: %w", u.Asset.Symbol, err)
	}
	s.log.Info("merge_done",
		zap.String("asset", u.Asset.Symbol),
		zap.Stringer("window", window),
		zap.Int("changed", res.Changed),
		zap.Stringer("policy", s.policy))
	return UnitResult{Window: window, Changed: res.Changed, Malformed: loaded.Malformed}, nil
}

func (s *PriceDataService) resolveWindow(p Period) (domain.DayRange, error) {
	if p.Days > 0 {
		return domain.RecentDaysRange(p.Days, s.clock.Now())
	}
	return domain.MonthRange(p.Year, p.Month, s.clock.Now())
}

func (s *PriceDataService) fetch(ctx context.Context, u Unit, window domain.DayRange) (domain.Series, error) {
	switch u.Kind {
	case KindForex:
		return s.fetchForexDays(ctx, window)
	default:
		samples, err := s.crypto.RangePrices(ctx, u.Asset, window)
		if err != nil {
			return nil, err
		}
		return domain.Normalize(samples), nil
	}
}

// fetchForexDays issues one request per calendar day; the upstream API has no
// range endpoint. The HTTP client spaces consecutive calls.
func (s *PriceDataService) fetchForexDays(ctx context.Context, window domain.DayRange) (domain.Series, error) {
	samples := make([]domain.Sample, 0, len(window.Days()))
	for _, day := range window.Days() {
		rate, err := s.forex.DayRate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", domain.Day(day), err)
		}
		samples = append(samples, domain.Sample{At: day, Value: rate})
	}
	return domain.Normalize(samples), nil
}
