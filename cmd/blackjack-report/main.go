// Command blackjack-report reads a previously-written NDJSON flight
// recorder trace and renders the aggregate summary report, grounded on the
// research final_report.py script referenced by the supplemented-features
// section of the specification.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-advisor/internal/reporting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/stats"
)

type CLI struct {
	TraceFile   string `arg:"" help:"Path to an NDJSON flight-recorder trace file"`
	SummaryFile string `help:"Also write the summary as JSON to this path"`
	Verbose     bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli, kong.Name("blackjack-report"), kong.Description("Renders a summary report from an NDJSON flight-recorder trace"))

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(cli, logger); err != nil {
		logger.Fatal("report generation failed", "error", err)
	}
	kctx.Exit(0)
}

func run(cli CLI, logger *log.Logger) error {
	f, err := os.Open(cli.TraceFile)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	agg := stats.NewAggregate()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		var trace reporting.HandTrace
		if err := json.Unmarshal(scanner.Bytes(), &trace); err != nil {
			logger.Warn("skipping malformed trace line", "line", lineNo, "error", err)
			continue
		}
		agg.Record(stats.HandStats{
			Outcome:          outcomeFromResult(trace.Outcome.Result),
			Bet:              betFromTrace(trace),
			Net:              trace.Outcome.PnL,
			Actions:          []action.Action{},
			TrueCountAtStart: trace.Decision.TrueCount,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan trace file: %w", err)
	}

	byTC := make(map[int]reporting.BucketSummary)
	for _, tc := range agg.SortedTrueCountBuckets() {
		b := agg.ByTrueCount()[tc]
		byTC[tc] = reporting.BucketSummary{Hands: b.Hands, EVPercent: b.EVPercent()}
	}

	summary := reporting.Summary{
		Hands:        agg.Hands(),
		TotalWagered: agg.TotalWagered(),
		NetProfit:    agg.NetProfit(),
		EVPercent:    agg.EVPercent(),
		StdError:     agg.StdError(),
		WinRate:      agg.WinRate(),
		AverageBet:   agg.AverageBet(),
		MaxDrawdown:  agg.MaxDrawdown(),
		ByTrueCount:  byTC,
	}

	if err := (reporting.TableSummaryWriter{}).Write(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	fmt.Printf("\n=== BY TRUE COUNT ===\n")
	for _, tc := range agg.SortedTrueCountBuckets() {
		b := agg.ByTrueCount()[tc]
		fmt.Printf("tc=%-4d hands=%-8d ev=%.4f%%\n", tc, b.Hands, b.EVPercent())
	}

	if cli.SummaryFile != "" {
		if err := (reporting.JSONSummaryWriter{Path: cli.SummaryFile}).Write(summary); err != nil {
			return fmt.Errorf("write summary file: %w", err)
		}
	}
	return nil
}

// betFromTrace reconstructs the hand's bet from its PnL and result, since
// the flight-recorder schema records outcome and PnL but not the wager
// directly. PUSH hands return zero PnL, so the original bet can't be
// recovered from the trace; they're counted as zero-wager hands, which
// slightly understates total wagered and average bet.
func betFromTrace(trace reporting.HandTrace) float64 {
	switch trace.Outcome.Result {
	case "PUSH":
		return 0
	case "SURRENDER":
		return -trace.Outcome.PnL * 2
	case "BLACKJACK":
		return trace.Outcome.PnL / 1.5
	case "BUST", "LOSS":
		return -trace.Outcome.PnL
	case "WIN":
		return trace.Outcome.PnL
	default:
		return 0
	}
}

func outcomeFromResult(result string) stats.Outcome {
	switch result {
	case "WIN":
		return stats.Win
	case "LOSS":
		return stats.Loss
	case "PUSH":
		return stats.Push
	case "BLACKJACK":
		return stats.Blackjack
	case "SURRENDER":
		return stats.Surrendered
	case "BUST":
		return stats.Bust
	default:
		return stats.Loss
	}
}
