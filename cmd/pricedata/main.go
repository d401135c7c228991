package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/sablier-labs/price-data/internal/application"
	"github.com/sablier-labs/price-data/internal/bootstrap"
	"github.com/sablier-labs/price-data/internal/domain"
	"github.com/sablier-labs/price-data/internal/logx"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "pricedata",
		Usage: "fetch historical price series and persist them as per-asset TSV files",
		Commands: []*cli.Command{
			fetchCryptoCommand(),
			fetchForexCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logx.L().Error("run", zap.Error(err))
		os.Exit(1)
	}
}

func fetchCryptoCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch-crypto",
		Usage: "fetch daily crypto spot prices for one or all known tickers",
		Flags: append(periodFlags(),
			&cli.StringFlag{Name: "currency", Usage: "ticker symbol (default: all known tickers)"},
			&cli.IntFlag{Name: "recent-days", Usage: "fetch the most recent N days instead of a month"},
			&cli.BoolFlag{Name: "fill-only", Usage: "never overwrite existing entries, only add missing dates"},
		),
		Action: func(c *cli.Context) error {
			assets, err := resolveAssets(c.String("currency"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			periods, err := resolvePeriods(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			units := make([]application.Unit, 0, len(assets)*len(periods))
			for _, a := range assets {
				for _, p := range periods {
					units = append(units, application.Unit{Asset: a, Kind: application.KindCrypto, Period: p})
				}
			}
			return runBatch(c, units)
		},
	}
}

func fetchForexCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch-forex",
		Usage: "fetch the daily exchange rate series",
		Flags: append(periodFlags(),
			&cli.BoolFlag{Name: "fill-only", Usage: "never overwrite existing entries, only add missing dates"},
		),
		Action: func(c *cli.Context) error {
			periods, err := resolvePeriods(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			units := make([]application.Unit, 0, len(periods))
			for _, p := range periods {
				units = append(units, application.Unit{Asset: domain.ForexAsset, Kind: application.KindForex, Period: p})
			}
			return runBatch(c, units)
		},
	}
}

func nowUTC() time.Time { return time.Now().UTC() }

func periodFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "year", Usage: "four-digit year"},
		&cli.StringFlag{Name: "month", Usage: "month 1-12, or \"all\" for every month of the year so far"},
	}
}

func resolveAssets(ticker string) ([]domain.Asset, error) {
	if ticker == "" {
		tickers := domain.CryptoTickers()
		assets := make([]domain.Asset, 0, len(tickers))
		for _, t := range tickers {
			a, _ := domain.CryptoAsset(t)
			assets = append(assets, a)
		}
		return assets, nil
	}
	a, ok := domain.CryptoAsset(strings.ToUpper(ticker))
	if !ok {
		return nil, fmt.Errorf("unknown currency %q (known: %s)", ticker, strings.Join(domain.CryptoTickers(), ", "))
	}
	return []domain.Asset{a}, nil
}

// resolvePeriods turns the period flags into one Period per unit of work.
// Range validity (future month, lookback limit) is checked per unit by the
// service so that one bad period fails its units without aborting the batch.
func resolvePeriods(c *cli.Context) ([]application.Period, error) {
	if c.IsSet("recent-days") {
		return []application.Period{{Days: c.Int("recent-days")}}, nil
	}

	year := c.Int("year")
	if year == 0 {
		return nil, fmt.Errorf("either --recent-days or --year and --month are required")
	}
	monthFlag := c.String("month")
	if monthFlag == "" {
		return nil, fmt.Errorf("--month is required with --year")
	}
	if strings.EqualFold(monthFlag, "all") {
		months := domain.MonthsOfYear(year, nowUTC())
		if len(months) == 0 {
			return nil, fmt.Errorf("year %d has no started months", year)
		}
		periods := make([]application.Period, 0, len(months))
		for _, m := range months {
			periods = append(periods, application.Period{Year: year, Month: m})
		}
		return periods, nil
	}
	month, err := strconv.Atoi(monthFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --month %q", monthFlag)
	}
	return []application.Period{{Year: year, Month: month}}, nil
}

func runBatch(c *cli.Context, units []application.Unit) error {
	policy := domain.PolicyOverwrite
	if c.Bool("fill-only") {
		policy = domain.PolicyFillOnly
	}
	app := bootstrap.Init(policy)

	outcomes := app.Batch.Run(c.Context, units)
	printSummary(outcomes)

	if _, _, failed := application.Summarize(outcomes); failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func printSummary(outcomes []application.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case application.StatusUpdated:
			fmt.Printf("updated   %-8s %-14s %s (%d changed)\n", o.Asset, o.Period.Label(), o.Window, o.Changed)
		case application.StatusSkipped:
			fmt.Printf("no change %-8s %-14s %s\n", o.Asset, o.Period.Label(), o.Window)
		default:
			fmt.Printf("failed    %-8s %-14s %v\n", o.Asset, o.Period.Label(), o.Err)
		}
		if o.Malformed > 0 {
			fmt.Printf("          %-8s %d malformed row(s) skipped\n", o.Asset, o.Malformed)
		}
	}
	updated, skipped, failed := application.Summarize(outcomes)
	fmt.Printf("%d updated, %d unchanged, %d failed\n", updated, skipped, failed)
}
