package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/bullpen"
	"github.com/tifye/dugout/bullpen/statcast"
)

func handlePostRecommendations(logger *log.Logger, recommender *bullpen.Recommender) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(recommender)

	type response struct {
		Deterministic bool                          `json:"deterministic"`
		TopRelievers  []bullpen.Reliever            `json:"top_relievers"`
		Explanation   *string                       `json:"explanation"`
		Context       bullpen.RecommendationRequest `json:"context"`
		Notes         []string                      `json:"notes"`
	}
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
		req.Exclude = cleanNames(req.Exclude)

		rec, err := recommender.Recommend(c.Request().Context(), req)
		if err != nil {
			logger.Error("recommendation failed", "err", err)
			if errors.Is(err, statcast.ErrUpstream) {
				return echo.NewHTTPError(http.StatusBadGateway, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if len(rec.Relievers) == 0 {
			return echo.NewHTTPError(http.StatusInternalServerError, "Agent workflow did not produce any scored relievers.")
		}

		var explanation *string
		if rec.Explanation != "" {
			explanation = &rec.Explanation
		}
		return c.JSON(http.StatusOK, response{
			Deterministic: true,
			TopRelievers:  rec.Relievers,
			Explanation:   explanation,
			Context:       req,
			Notes:         rec.Notes,
		})
	}
}

func handlePostRefreshData(logger *log.Logger, refresher *statcast.Refresher, roster *bullpen.Roster) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(refresher)
	assert.AssertNotNil(roster)

	type request struct {
		StartDate  string   `json:"start_date"`
		EndDate    string   `json:"end_date"`
		MinInnings *float64 `json:"min_innings"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}

		opts := statcast.RefreshOptions{MinInnings: statcast.DefaultMinInnings}
		if req.MinInnings != nil {
			if *req.MinInnings < 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "min_innings cannot be negative")
			}
			opts.MinInnings = *req.MinInnings
		}

		var err error
		if req.StartDate != "" {
			opts.StartDate, err = time.Parse(time.DateOnly, req.StartDate)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			}
		}
		if req.EndDate != "" {
			opts.EndDate, err = time.Parse(time.DateOnly, req.EndDate)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			}
		}
		if !opts.StartDate.IsZero() && !opts.EndDate.IsZero() && opts.StartDate.After(opts.EndDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date cannot be after end_date")
		}

		result, err := refresher.Refresh(c.Request().Context(), opts)
		if err != nil {
			logger.Error("statcast refresh failed", "err", err)
			if errors.Is(err, statcast.ErrUpstream) {
				return echo.NewHTTPError(http.StatusBadGateway, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		if err := roster.Reload(); err != nil {
			logger.Error("roster reload after refresh failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, result)
	}
}

// cleanNames trims each name and drops blanks, mirroring what the
// ranking does so the echoed request context matches.
func cleanNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}
