package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tifye/dugout/bullpen"
	"github.com/tifye/dugout/sim"
)

// A nine inning game takes a few hundred advances; anything near this
// guard means the sampler or state machine is broken.
const maxAdvancesPerGame = 10_000

func newSimulateCommand() *cobra.Command {
	var (
		seed1   uint64
		seed2   uint64
		times   uint
		endless bool
		debug   bool
		data    string
		batter  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play headless games with the top ranked reliever on the mound",
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel := log.InfoLevel
			if debug {
				logLevel = log.DebugLevel
			}
			logger := log.NewWithOptions(os.Stderr, log.Options{
				Level:           logLevel,
				ReportTimestamp: false,
			})

			side := bullpen.Hand(strings.ToUpper(batter))
			if side != bullpen.HandLeft && side != bullpen.HandRight {
				return fmt.Errorf("batter must be L or R, got %q", batter)
			}

			roster := bullpen.NewRoster(logger, data)
			relievers, err := roster.Relievers()
			if err != nil {
				return err
			}
			ranked := bullpen.Rank(relievers, side, bullpen.LeverageMedium, nil)

			ctx := cmd.Context()
			switch {
			case endless:
				for ctx.Err() == nil {
					runGame(ctx, logger, rand.Uint64(), rand.Uint64(), ranked, side)
				}
			case times > 0:
				for range times {
					if ctx.Err() != nil {
						break
					}
					runGame(ctx, logger, rand.Uint64(), rand.Uint64(), ranked, side)
				}
			default:
				if !cmd.Flags().Changed("seed1") {
					seed1 = rand.Uint64()
				}
				if !cmd.Flags().Changed("seed2") {
					seed2 = rand.Uint64()
				}
				runGame(ctx, logger, seed1, seed2, ranked, side)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed1, "seed1", 0, "First seed value")
	cmd.Flags().Uint64Var(&seed2, "seed2", 0, "Second seed value")
	cmd.Flags().UintVar(&times, "times", 0, "Play this many games, each with random seeds")
	cmd.Flags().BoolVar(&endless, "endless", false, "Play games with random seeds until stopped")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include play-by-play debug logs")
	cmd.Flags().StringVar(&data, "data", bullpen.FallbackDataPath, "Path to the relievers CSV")
	cmd.Flags().StringVar(&batter, "batter", "R", "Batter handedness, L or R")

	return cmd
}

func runGame(ctx context.Context, logger *log.Logger, seed1, seed2 uint64, relievers []bullpen.Reliever, batter bullpen.Hand) {
	pitcher := relievers[0]
	pitcher.ResetCounters()

	logger.Info("game started",
		"seed1", seed1, "seed2", seed2,
		"onMound", pitcher.Name, "batter", batter,
	)

	sampler := sim.NewSampler(seed1, seed2)
	state := sim.NewState()

	for advances := 0; !state.Complete; advances++ {
		if advances >= maxAdvancesPerGame {
			logger.Error("game never completed", "advances", advances)
			return
		}
		if ctx.Err() != nil {
			logger.Warn("game abandoned", "err", ctx.Err())
			return
		}

		if state.NeedsTurnover() {
			state.Turnover()
			logger.Debug(sim.DescribeTurnover(state))
			continue
		}

		outcome := sampler.Sample(pitcher, batter)
		state.Apply(outcome)
		sim.Tally(&pitcher, outcome)
		logger.Debug(sim.Describe(outcome, pitcher.Name, state.Count))
	}

	logger.Info("game complete",
		"away", state.Score.Away,
		"home", state.Score.Home,
		"hits", pitcher.Hits,
		"homeRuns", pitcher.HomeRuns,
		"walks", pitcher.Walks,
		"strikes", pitcher.Strikes,
	)
}
