package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tifye/dugout/api"
	"github.com/tifye/dugout/bullpen"
	"github.com/tifye/dugout/bullpen/statcast"
	"github.com/tifye/dugout/feed"
	"github.com/tifye/dugout/narrative"
	"github.com/tifye/dugout/sim"
	"github.com/tifye/dugout/storage"
)

func main() {
	config := viper.New()
	config.AutomaticEnv()

	err := godotenv.Load()
	if err != nil {
		log.Warn("could not load .env file: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := log.NewWithOptions(os.Stdout, log.Options{
		Level: log.DebugLevel,
	})

	err = run(ctx, logger, config)
	if err != nil {
		logger.Error(err)
	}
}

func run(ctx context.Context, logger *log.Logger, config *viper.Viper) error {
	config.SetDefault("PORT", 8003)
	port := config.GetInt("PORT")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("net listen: %s", err)
	}

	deps, cfs, err := initDependencies(logger, config)
	if err != nil {
		return fmt.Errorf("init deps: %s", err)
	}
	defer func() {
		if err := cfs.Cleanup(); err != nil {
			logger.Error("cleanup funcs", "err", err)
		}
	}()

	s := api.NewServer(logger, config, deps)
	go func() {
		logger.Printf("serving on %s", ln.Addr())
		err := s.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = s.Shutdown(closeCtx)
	if err != nil {
		return fmt.Errorf("server shutdown: %s", err)
	}

	return nil
}

func initDependencies(logger *log.Logger, config *viper.Viper) (deps *api.ServerDependencies, cfs CleanupFuncs, err error) {
	defer func() {
		if err == nil {
			return
		}

		if ferr := cfs.Cleanup(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	config.SetDefault("DUGOUT_DATA", "data/relievers.csv")
	config.SetDefault("DUCKDB_PATH", "data/statcast.db")
	config.SetDefault("STATCAST_BASE_URL", statcast.DefaultBaseURL)
	config.SetDefault("LLM_MODEL", narrative.DefaultModel)
	config.SetDefault("SIM_TICK_SECONDS", 3)

	dataPath := config.GetString("DUGOUT_DATA")
	roster := bullpen.NewRoster(logger.WithPrefix("roster"), dataPath)

	dbPath := config.GetString("DUCKDB_PATH")
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, cfs, fmt.Errorf("make db dir: %s", err)
		}
	}
	db, err := storage.InitDuckDB(dbPath)
	if err != nil {
		return nil, cfs, fmt.Errorf("init duckdb: %s", err)
	}
	cfs.Defer(db.Close)

	statcastClient := statcast.NewClient(logger.WithPrefix("statcast"), config.GetString("STATCAST_BASE_URL"))
	refresher := statcast.NewRefresher(
		logger.WithPrefix("refresh"),
		statcastClient,
		statcast.NewPitchStore(db),
		dataPath,
	)

	llm := narrative.NewClient(
		logger.WithPrefix("llm"),
		config.GetString("OPENAI_API_KEY"),
		config.GetString("LLM_MODEL"),
		config.GetString("LLM_BASE_URL"),
	)
	if !llm.Enabled() {
		logger.Info("OPENAI_API_KEY not set; narrative features disabled")
	}

	recommender := bullpen.NewRecommender(logger.WithPrefix("recommend"), roster)
	recommender.OnRefresh(func(ctx context.Context) (int, error) {
		result, err := refresher.Refresh(ctx, statcast.RefreshOptions{MinInnings: statcast.DefaultMinInnings})
		if err != nil {
			return 0, err
		}
		if err := roster.Reload(); err != nil {
			return 0, err
		}
		return result.RowsWritten, nil
	})
	if llm.Enabled() {
		recommender.OnExplain(llm.Explanation)
	}

	hub := feed.NewHub(logger.WithPrefix("feed"))

	interval := time.Duration(config.GetInt("SIM_TICK_SECONDS")) * time.Second
	runner := sim.NewRunner(logger.WithPrefix("sim"), sim.NewSampler(rand.Uint64(), rand.Uint64()), interval)
	runner.OnPublish(func(snap sim.Snapshot) {
		if err := hub.Broadcast("snapshot", snap); err != nil {
			logger.Warn("broadcast snapshot", "err", err)
		}
	})
	if llm.Enabled() {
		runner.OnAnnotate(func(ctx context.Context, snap sim.Snapshot) (string, error) {
			var onMound any
			if len(snap.Relievers) > 0 {
				onMound = snap.Relievers[0]
			}
			return llm.Commentary(ctx, snap.State.LastPlay, snap.State, onMound)
		})
	}
	cfs.Defer(func() error {
		runner.Stop()
		return nil
	})

	return &api.ServerDependencies{
		Roster:      roster,
		Recommender: recommender,
		Refresher:   refresher,
		Narrative:   llm,
		Runner:      runner,
		Hub:         hub,
	}, cfs, nil
}
