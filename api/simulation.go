package api

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/bullpen"
	"github.com/tifye/dugout/sim"
)

func handleGetSimulation(runner *sim.Runner) echo.HandlerFunc {
	assert.AssertNotNil(runner)
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, runner.Snapshot())
	}
}

// handlePostSimulationLoad ranks the roster for the given matchup and
// hands the top relievers to the runner, best arm on the mound.
func handlePostSimulationLoad(logger *log.Logger, roster *bullpen.Roster, runner *sim.Runner) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(roster)
	assert.AssertNotNil(runner)

	return func(c echo.Context) error {
		var req bullpen.RecommendationRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}

		if req.Batter != bullpen.HandLeft && req.Batter != bullpen.HandRight {
			return echo.NewHTTPError(http.StatusBadRequest, "batter must be L or R")
		}
		if req.Leverage == "" {
			req.Leverage = bullpen.LeverageMedium
		}
		switch req.Leverage {
		case bullpen.LeverageLow, bullpen.LeverageMedium, bullpen.LeverageHigh:
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "leverage must be low, medium or high")
		}

		relievers, err := roster.Relievers()
		if err != nil {
			logger.Error("roster load failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		ranked := bullpen.Rank(relievers, req.Batter, req.Leverage, req.Exclude)
		if len(ranked) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no relievers left to load after exclusions")
		}

		if err := runner.Load(ranked, req.Batter); err != nil {
			logger.Error("simulation load failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, runner.Snapshot())
	}
}

func handlePostSimulationStart(logger *log.Logger, runner *sim.Runner) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(runner)

	return func(c echo.Context) error {
		if err := runner.Start(); err != nil {
			if errors.Is(err, sim.ErrNoData) {
				return echo.NewHTTPError(http.StatusConflict, "no relievers loaded; load the simulation first")
			}
			logger.Error("simulation start failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, runner.Snapshot())
	}
}

func handlePostSimulationStop(runner *sim.Runner) echo.HandlerFunc {
	assert.AssertNotNil(runner)
	return func(c echo.Context) error {
		runner.Stop()
		return c.JSON(http.StatusOK, runner.Snapshot())
	}
}

func handlePostSimulationStep(runner *sim.Runner) echo.HandlerFunc {
	assert.AssertNotNil(runner)
	return func(c echo.Context) error {
		err := runner.Step()
		switch {
		case errors.Is(err, sim.ErrLive):
			return echo.NewHTTPError(http.StatusConflict, "simulation is live; stop it before stepping")
		case errors.Is(err, sim.ErrNoData):
			return echo.NewHTTPError(http.StatusConflict, "no relievers loaded; load the simulation first")
		case err != nil:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, runner.Snapshot())
	}
}
