// Command blackjack-sim is the primary Monte Carlo simulation runner: it
// wires the Strategy Engine, Betting Engine, and Simulation Driver together
// against a table-rules document and reports aggregate statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-advisor/internal/reporting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/betting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/deviation"
	"github.com/lox/blackjack-advisor/sdk/blackjack/engine"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
	"github.com/lox/blackjack-advisor/sdk/blackjack/simulation"
	"github.com/lox/blackjack-advisor/sdk/blackjack/stats"
	"github.com/lox/blackjack-advisor/sdk/blackjack/strategy"
)

type CLI struct {
	Hands            int     `default:"100000" help:"Number of hands to simulate per worker"`
	Workers          int     `default:"1" help:"Number of independent Driver instances to run in parallel"`
	Seed             int64   `default:"1" help:"Base RNG seed; each worker offsets it by its index"`
	RulesFile        string  `help:"Path to an HCL table-rules document; omit for Default()"`
	StrategyFile     string  `help:"Path to a JSON baseline strategy table; omit for defaultChart only"`
	DeviationFile    string  `help:"Path to a JSON deviation set; omit for the built-in Illustrious 18 / Fab 4"`
	Bankroll         float64 `default:"10000" help:"Starting bankroll per worker"`
	Margin           float64 `default:"0.0" help:"Deviation-trigger margin added to each threshold"`
	UseCounting      bool    `default:"true" negatable:"" help:"Size bets from the true count (deviations always use the real count; see --use-deviations)"`
	UseDeviations    bool    `default:"true" negatable:"" help:"Apply Illustrious-18/Fab-4 style deviations"`
	Flat             bool    `help:"Use flat betting instead of Kelly sizing"`
	KellyFraction    float64 `default:"0.5" help:"Fractional Kelly multiplier applied to the modeled advantage, in (0, 1]"`
	WongOut          bool    `help:"Leave the shoe when the true count drops below --wong-out-threshold"`
	WongOutThreshold float64 `default:"1.0" help:"True count below which a wonging-enabled driver leaves the shoe"`
	MinHandsPerShoe  int     `default:"0" help:"Minimum hands played before wonging out is allowed"`
	LateEntry        bool    `help:"Simulate joining an in-progress shoe at a random penetration"`
	LateEntryMaxPen  float64 `default:"0.5" help:"Maximum penetration fraction for simulated late entry"`
	CutPenetration   float64 `default:"-1" help:"Override the rules document's shuffle-point penetration (-1 keeps it)"`
	TraceFile        string  `help:"Write a per-hand NDJSON flight recorder trace to this path"`
	SummaryFile      string  `help:"Write the final summary as JSON to this path, in addition to stdout"`
	ConfigID         string  `default:"default" help:"Identifier stamped into flight-recorder traces"`
	Verbose          bool    `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli, kong.Name("blackjack-sim"), kong.Description("Monte Carlo blackjack simulation runner"))

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(cli, logger); err != nil {
		logger.Fatal("simulation failed", "error", err)
	}
	kctx.Exit(0)
}

func run(cli CLI, logger *log.Logger) error {
	r, err := loadRules(cli)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	table, err := loadStrategy(cli, logger)
	if err != nil {
		return fmt.Errorf("load strategy table: %w", err)
	}
	devs, err := loadDeviations(cli, logger)
	if err != nil {
		return fmt.Errorf("load deviation set: %w", err)
	}
	idx := deviation.NewIndex(devs)

	betCfg := betting.DefaultConfig()
	betCfg.FlatBetting = cli.Flat
	betCfg.KellyFraction = cli.KellyFraction
	if err := betCfg.Validate(); err != nil {
		return fmt.Errorf("invalid betting config: %w", err)
	}

	simCfg := simulation.Config{
		UseCounting:       cli.UseCounting,
		UseDeviations:     cli.UseDeviations,
		BettingStrategy:   simulation.Kelly,
		WongOutEnabled:    cli.WongOut,
		WongOutThreshold:  cli.WongOutThreshold,
		MinHandsPerShoe:   cli.MinHandsPerShoe,
		SimulateLateEntry: cli.LateEntry,
		LateEntryMaxPen:   cli.LateEntryMaxPen,
		LogJSON:           cli.TraceFile != "",
		InitialBankroll:   cli.Bankroll,
		CutPenetration:    r.Penetration,
		Margin:            cli.Margin,
		ConfigID:          cli.ConfigID,
	}
	if cli.Flat {
		simCfg.BettingStrategy = simulation.Flat
	}
	if cli.CutPenetration >= 0 {
		r.Penetration = cli.CutPenetration
	}

	workers := cli.Workers
	if workers < 1 {
		workers = 1
	}

	aggregates := make([]*stats.Aggregate, workers)
	handsSkipped := make([]int, workers)
	durations := make([]time.Duration, workers)
	recorders := make([]reporting.HandRecorder, workers)
	defer func() {
		for _, rec := range recorders {
			if rec != nil {
				rec.Close()
			}
		}
	}()

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		w := w
		recorder, err := newRecorder(cli, w)
		if err != nil {
			return fmt.Errorf("worker %d: %w", w, err)
		}
		recorders[w] = recorder

		eng := engine.New(table, idx, cli.Margin)
		bet := betting.New(r, betCfg)
		driver := simulation.New(r, simCfg, eng, bet, cli.Seed+int64(w), recorder)

		g.Go(func() error {
			if err := driver.Run(ctx, cli.Hands); err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			aggregates[w] = driver.Stats()
			handsSkipped[w] = driver.HandsSkipped()
			durations[w] = driver.Duration()
			logger.Info("worker finished", "worker", w, "hands", driver.Stats().Hands(), "bankroll", driver.Bankroll(), "duration", driver.Duration())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	totalSkipped := 0
	for _, n := range handsSkipped {
		totalSkipped += n
	}
	var wallClock time.Duration
	for _, d := range durations {
		if d > wallClock {
			wallClock = d
		}
	}
	summary := mergeSummary(aggregates, totalSkipped, wallClock)
	if err := (reporting.TableSummaryWriter{}).Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if cli.SummaryFile != "" {
		if err := (reporting.JSONSummaryWriter{Path: cli.SummaryFile}).Write(summary); err != nil {
			return fmt.Errorf("write summary file: %w", err)
		}
	}
	return nil
}

func loadRules(cli CLI) (rules.Rules, error) {
	if cli.RulesFile == "" {
		return rules.Default(), nil
	}
	return rules.Load(cli.RulesFile)
}

func loadStrategy(cli CLI, logger *log.Logger) (*strategy.Table, error) {
	var table *strategy.Table
	if cli.StrategyFile == "" {
		table = strategy.Empty()
	} else {
		f, err := os.Open(cli.StrategyFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		table, err = strategy.LoadJSON(f)
		if err != nil {
			return nil, err
		}
	}
	table.OnMissing(func(key string) {
		logger.Debug("missing strategy entry, using default chart", "key", key)
	})
	return table, nil
}

func loadDeviations(cli CLI, logger *log.Logger) ([]deviation.Deviation, error) {
	if cli.DeviationFile == "" {
		return deviation.StandardSet(), nil
	}
	f, err := os.Open(cli.DeviationFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	devs, errs := deviation.LoadSetJSON(f)
	for _, e := range errs {
		logger.Warn("skipping malformed deviation entry", "error", e)
	}
	return devs, nil
}

func newRecorder(cli CLI, worker int) (reporting.HandRecorder, error) {
	if cli.TraceFile == "" {
		return reporting.NullRecorder{}, nil
	}
	path := cli.TraceFile
	if cli.Workers > 1 {
		path = fmt.Sprintf("%s.%d", path, worker)
	}
	return reporting.NewNDJSONRecorder(path)
}

func mergeSummary(aggs []*stats.Aggregate, handsSkipped int, wallClock time.Duration) reporting.Summary {
	merged := stats.NewAggregate()
	for _, a := range aggs {
		if a == nil {
			continue
		}
		merged.Merge(a)
	}

	byTC := make(map[int]reporting.BucketSummary)
	for _, tc := range merged.SortedTrueCountBuckets() {
		b := merged.ByTrueCount()[tc]
		byTC[tc] = reporting.BucketSummary{Hands: b.Hands, EVPercent: b.EVPercent()}
	}

	seconds := wallClock.Seconds()
	var handsPerSecond float64
	if seconds > 0 {
		handsPerSecond = float64(merged.Hands()) / seconds
	}

	return reporting.Summary{
		Hands:           merged.Hands(),
		TotalWagered:    merged.TotalWagered(),
		NetProfit:       merged.NetProfit(),
		EVPercent:       merged.EVPercent(),
		StdError:        merged.StdError(),
		WinRate:         merged.WinRate(),
		AverageBet:      merged.AverageBet(),
		MaxDrawdown:     merged.MaxDrawdown(),
		HandsSkipped:    handsSkipped,
		DurationSeconds: seconds,
		HandsPerSecond:  handsPerSecond,
		ByTrueCount:     byTC,
	}
}
