package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func handleGetHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleGetRoot() echo.HandlerFunc {
	type response struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, response{
			Message: "Dugout service is running.",
			Endpoints: map[string]string{
				"health":               "/healthz",
				"recommendations":      "/recommendations",
				"commentary":           "/commentary",
				"strategic_advice":     "/strategic-advice",
				"matchup_analysis":     "/matchup-analysis",
				"situational_strategy": "/situational-strategy",
				"injury_risk":          "/injury-risk",
				"refresh_data":         "/refresh-data",
				"simulation":           "/simulation",
				"simulation_feed":      "/simulation/feed",
			},
		})
	}
}
