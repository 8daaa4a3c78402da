package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/narrative"
)

func handlePostCommentary(logger *log.Logger, client *narrative.Client) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)

	type request struct {
		PlayDescription string          `json:"play_description"`
		GameState       json.RawMessage `json:"game_state"`
		Reliever        json.RawMessage `json:"reliever"`
	}
	type response struct {
		Commentary *string `json:"commentary"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		if !client.Enabled() {
			return c.JSON(http.StatusOK, response{})
		}

		commentary, err := client.Commentary(c.Request().Context(), req.PlayDescription, req.GameState, req.Reliever)
		if err != nil {
			logger.Error("commentary generation failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, response{Commentary: optional(commentary)})
	}
}

func handlePostStrategicAdvice(logger *log.Logger, client *narrative.Client) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)

	type request struct {
		GameState          json.RawMessage  `json:"game_state"`
		CurrentPitcher     json.RawMessage  `json:"current_pitcher"`
		AvailableRelievers []map[string]any `json:"available_relievers"`
		RecentPerformance  json.RawMessage  `json:"recent_performance"`
	}
	type response struct {
		Advice         *string `json:"advice"`
		Recommendation *string `json:"recommendation"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		if !client.Enabled() {
			return c.JSON(http.StatusOK, response{})
		}

		advice, err := client.StrategicAdvice(c.Request().Context(),
			req.GameState, req.CurrentPitcher, req.AvailableRelievers, req.RecentPerformance)
		if err != nil {
			logger.Error("strategic advice generation failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		recommendation := extractRecommendation(advice, req.AvailableRelievers)
		return c.JSON(http.StatusOK, response{
			Advice:         optional(advice),
			Recommendation: optional(recommendation),
		})
	}
}

func handlePostMatchupAnalysis(logger *log.Logger, client *narrative.Client) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)

	type request struct {
		BatterHandedness   string          `json:"batter_handedness"`
		CurrentPitcher     json.RawMessage `json:"current_pitcher"`
		AvailableRelievers json.RawMessage `json:"available_relievers"`
		GameState          json.RawMessage `json:"game_state"`
	}
	type response struct {
		Analysis *string `json:"analysis"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		if !client.Enabled() {
			return c.JSON(http.StatusOK, response{})
		}

		analysis, err := client.MatchupAnalysis(c.Request().Context(),
			req.BatterHandedness, req.CurrentPitcher, req.AvailableRelievers, req.GameState)
		if err != nil {
			logger.Error("matchup analysis generation failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, response{Analysis: optional(analysis)})
	}
}

func handlePostSituationalStrategy(logger *log.Logger, client *narrative.Client) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)

	type request struct {
		GameState          json.RawMessage `json:"game_state"`
		AvailableRelievers json.RawMessage `json:"available_relievers"`
	}
	type response struct {
		Strategy *string `json:"strategy"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		if !client.Enabled() {
			return c.JSON(http.StatusOK, response{})
		}

		strategy, err := client.SituationalStrategy(c.Request().Context(), req.GameState, req.AvailableRelievers)
		if err != nil {
			logger.Error("situational strategy generation failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, response{Strategy: optional(strategy)})
	}
}

func handlePostInjuryRisk(logger *log.Logger, client *narrative.Client) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(client)

	type request struct {
		CurrentPitcher    json.RawMessage `json:"current_pitcher"`
		RecentPerformance json.RawMessage `json:"recent_performance"`
		UsageHistory      json.RawMessage `json:"usage_history"`
	}
	type response struct {
		Assessment *string `json:"assessment"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		if !client.Enabled() {
			return c.JSON(http.StatusOK, response{})
		}

		assessment, err := client.InjuryRisk(c.Request().Context(),
			req.CurrentPitcher, req.RecentPerformance, req.UsageHistory)
		if err != nil {
			logger.Error("injury risk assessment failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, response{Assessment: optional(assessment)})
	}
}

// extractRecommendation mines the advice prose for a machine-readable
// action. A warm-up call only counts when the advice names one of the
// available relievers.
func extractRecommendation(advice string, availableRelievers []map[string]any) string {
	lowered := strings.ToLower(advice)
	switch {
	case strings.Contains(lowered, "warm up") || strings.Contains(lowered, "warm-up"):
		for _, reliever := range availableRelievers {
			name, _ := reliever["name"].(string)
			if name == "" || !strings.Contains(lowered, strings.ToLower(name)) {
				continue
			}
			return "warm_up_" + strings.ReplaceAll(name, " ", "_")
		}
	case strings.Contains(lowered, "pull") || strings.Contains(lowered, "remove") || strings.Contains(lowered, "replace"):
		return "consider_pulling_pitcher"
	case strings.Contains(lowered, "stick") || strings.Contains(lowered, "keep") || strings.Contains(lowered, "continue"):
		return "keep_current_pitcher"
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
