// Command blackjack-verify-cutoff compares the linear advantage model
// against the research-only exact effect-of-removal estimator across a
// range of shoe penetrations, confirming the two diverge as penetration
// deepens near the defensive wong-out cutoff. Grounded on the research
// validate_defense.py / study_model_error.py scripts referenced by the
// supplemented-features section of the specification.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/blackjack-advisor/internal/randutil"
	"github.com/lox/blackjack-advisor/sdk/blackjack/advantage"
	"github.com/lox/blackjack-advisor/sdk/blackjack/count"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
	"github.com/lox/blackjack-advisor/sdk/blackjack/shoe"
)

var cli struct {
	Debug     bool    `help:"enable debug logging"`
	RulesFile string  `help:"path to an HCL table-rules document; omit for Default()"`
	Seed      int64   `help:"RNG seed used to draw the partially-depleted shoe samples" default:"7"`
	Samples   int     `help:"number of independent shoe draws per penetration bucket" default:"500"`
	Cutoff    float64 `help:"wong-out true-count threshold printed beside the deep-penetration gap (label only; not used in the computation)" default:"1.0"`
}

func main() {
	kong.Parse(&cli, kong.Name("blackjack-verify-cutoff"), kong.Description("Compares the linear advantage model to the exact EOR estimator"))
	setupLogger(cli.Debug)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("verification run failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func run() error {
	r := rules.Default()
	if cli.RulesFile != "" {
		loaded, err := rules.Load(cli.RulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		r = loaded
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	rng := randutil.New(cli.Seed)
	baseEdge := advantage.BreakevenCount(r) * 0.005

	penetrations := []float64{0.25, 0.40, 0.55, 0.65, 0.75, 0.85}

	fmt.Printf("\n=== LINEAR vs EXACT ADVANTAGE MODEL (seed=%d, samples=%d) ===\n", cli.Seed, cli.Samples)
	fmt.Printf("%-12s %-14s %-14s %-12s\n", "penetration", "linear_adv", "exact_adv_avg", "gap")

	var cutoffGap float64
	for _, pen := range penetrations {
		var linearSum, exactSum float64

		for s := 0; s < cli.Samples; s++ {
			sh := shoe.New(r.NumDecks, rng)
			comp := count.DefaultComposition(r.NumDecks)
			manager := count.New(sh.Total(), comp)

			dealTarget := int(float64(sh.Total()) * pen)
			for i := 0; i < dealTarget; i++ {
				c, err := sh.Deal()
				if err != nil {
					break
				}
				manager.Observe(c)
			}

			snap := manager.Snapshot()
			linearSum += advantage.Linear(snap.TrueCount, r)
			exactSum += advantage.ExactEstimator(manager.RemainingByValue(), baseEdge)
		}

		linearAvg := linearSum / float64(cli.Samples)
		exactAvg := exactSum / float64(cli.Samples)
		gap := exactAvg - linearAvg

		fmt.Printf("%-12.2f %-14.5f %-14.5f %-12.5f\n", pen, linearAvg, exactAvg, gap)

		if pen >= 0.75 {
			cutoffGap = gap
		}

		log.Debug().Float64("penetration", pen).Float64("linear_adv", linearAvg).
			Float64("exact_adv", exactAvg).Float64("gap", gap).Msg("bucket sampled")
	}

	fmt.Printf("\ngap at deep penetration (>=0.75, near the wong-out threshold tc=%.1f): %.5f\n", cli.Cutoff, cutoffGap)
	if cutoffGap < 0 {
		fmt.Println("exact estimator reads more pessimistic than the linear model at this depth")
	} else {
		fmt.Println("exact estimator reads more optimistic than the linear model at this depth")
	}
	return nil
}
