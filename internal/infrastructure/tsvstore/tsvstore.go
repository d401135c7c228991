// Package tsvstore persists one tab-separated file per asset. The format is
// the system's durable contract with downstream consumers and must stay
// byte-for-byte stable: header "id\toutput", rows `"<ISO date>"\t<value>`,
// sorted ascending, dates unique.
package tsvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/domain"
)

const header = "id\toutput"

type Store struct {
	Dir string
	Log *zap.Logger
}

var _ application.SeriesStore = (*Store)(nil)

func New(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Dir: dir, Log: log}
}

func (s *Store) path(symbol string) string {
	return filepath.Join(s.Dir, symbol+".tsv")
}

// Load reads the persisted series for symbol. A missing file is a valid
// initial state and loads as an empty series. Rows that fail to parse are
// skipped and counted, never fatal.
func (s *Store) Load(_ context.Context, symbol string) (application.LoadedSeries, error) {
	data, err := os.ReadFile(s.path(symbol))
	if os.IsNotExist(err) {
		return application.LoadedSeries{}, nil
	}
	if err != nil {
		return application.LoadedSeries{}, fmt.Errorf("read %s: %w", s.path(symbol), err)
	}

	var out application.LoadedSeries
	seen := make(map[string]int)
	for i, line := range strings.Split(string(data), "\n") {
		if line == "" || (i == 0 && line == header) {
			continue
		}
		obs, err := parseRow(line)
		if err != nil {
			out.Malformed++
			s.Log.Warn("malformed_row",
				zap.String("file", s.path(symbol)),
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}
		// duplicate dates should not occur in a well-formed file; last wins
		if at, dup := seen[obs.Date]; dup {
			out.Series[at] = obs
			continue
		}
		seen[obs.Date] = len(out.Series)
		out.Series = append(out.Series, obs)
	}
	out.Series.Sort()
	return out, nil
}

// Save rewrites the whole series through a temp file and rename, so a crash
// mid-write never leaves a truncated file behind.
func (s *Store) Save(_ context.Context, symbol string, series domain.Series) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir, err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, obs := range series {
		fmt.Fprintf(&b, "%q\t%s\n", obs.Date, obs.Value.String())
	}

	tmp, err := os.CreateTemp(s.Dir, symbol+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path(symbol)); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path(symbol), err)
	}
	return nil
}

func parseRow(line string) (domain.Observation, error) {
	date, value, ok := strings.Cut(line, "\t")
	if !ok {
		return domain.Observation{}, fmt.Errorf("missing tab separator")
	}
	if len(date) < 2 || date[0] != '"' || date[len(date)-1] != '"' {
		return domain.Observation{}, fmt.Errorf("date %s is not quoted", date)
	}
	date = date[1 : len(date)-1]
	if _, err := time.Parse(domain.DayFormat, date); err != nil {
		return domain.Observation{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return domain.Observation{}, fmt.Errorf("invalid value %q: %w", value, err)
	}
	return domain.Observation{Date: date, Value: v}, nil
}
