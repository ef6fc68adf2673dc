// Command pinsetter bowls random games through the scoring engine and prints
// their scorecards.
//
//	pinsetter -games 5 -strategy pins -seed 42 -totals
//	pinsetter -config pinsetter.yaml -metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/pinsetter/pinsetter/internal/config"
	"github.com/pinsetter/pinsetter/internal/logger"
	"github.com/pinsetter/pinsetter/internal/metrics"
	"github.com/pinsetter/pinsetter/internal/scorecard"
	"github.com/pinsetter/pinsetter/internal/simulate"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "pinsetter:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pinsetter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file; defaults apply when empty")
	games := fs.Int("games", 0, "number of games to bowl (overrides simulator.games)")
	seed := fs.Uint64("seed", 0, "random seed (overrides simulator.seed; 0 picks one)")
	strategy := fs.String("strategy", "", `throw strategy, "symbols" or "pins" (overrides simulator.strategy)`)
	totals := fs.Bool("totals", false, "print running totals under each scorecard")
	dumpMetrics := fs.Bool("metrics", false, "print Prometheus metrics after the games")
	noColor := fs.Bool("no-color", false, "disable colour in scorecards and logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Log.Format = "text"
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *games > 0 {
		cfg.Simulator.Games = *games
	}
	if *seed != 0 {
		cfg.Simulator.Seed = *seed
	}
	if *strategy != "" {
		cfg.Simulator.Strategy = *strategy
	}
	if *noColor {
		cfg.Log.NoColor = true
	}

	log, err := logger.New(stderr, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(log.Logger)

	if cfg.Simulator.Seed == 0 {
		cfg.Simulator.Seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(cfg.Simulator.Seed, cfg.Simulator.Seed>>1|1))

	rec := metrics.NewRecorder()
	sim, err := simulate.New(rng, simulate.Options{
		Strategy:    cfg.Simulator.Strategy,
		MaxAttempts: cfg.Simulator.MaxAttempts,
		Recorder:    rec,
	})
	if err != nil {
		return err
	}

	log.Info("bowling",
		"games", cfg.Simulator.Games,
		"strategy", cfg.Simulator.Strategy,
		"seed", cfg.Simulator.Seed)

	results, err := sim.PlayN(ctx, cfg.Simulator.Games)

	profile := termenv.NewOutput(stdout).EnvColorProfile()
	if cfg.Log.NoColor {
		profile = termenv.Ascii
	}
	card := scorecard.New(profile, *totals)

	sum := 0
	for i, res := range results {
		fmt.Fprintf(stdout, "Game %d: %s\n", i+1, card.Render(res.Game))
		sum += res.Final
		log.Debug("game bowled", "game", i+1, "final", res.Final,
			"attempts", res.Attempts, "rejected", res.Rejected)
	}
	if err != nil {
		return err
	}
	if len(results) > 0 {
		fmt.Fprintf(stdout, "\n%d games, average %.1f\n", len(results), float64(sum)/float64(len(results)))
	}

	if *dumpMetrics {
		fmt.Fprintln(stdout)
		if err := rec.Write(stdout); err != nil {
			return err
		}
	}
	return nil
}
