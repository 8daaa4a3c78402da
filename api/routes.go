package api

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
)

func registerRoutes(e *echo.Echo, logger *log.Logger, config *viper.Viper, deps *ServerDependencies) {
	e.GET("/healthz", handleGetHealth())
	e.GET("/", handleGetRoot())

	e.POST("/recommendations", handlePostRecommendations(logger, deps.Recommender))
	e.POST("/refresh-data", handlePostRefreshData(logger, deps.Refresher, deps.Roster), requireAuthMiddleware(logger, config))

	e.POST("/commentary", handlePostCommentary(logger, deps.Narrative))
	e.POST("/strategic-advice", handlePostStrategicAdvice(logger, deps.Narrative))
	e.POST("/matchup-analysis", handlePostMatchupAnalysis(logger, deps.Narrative))
	e.POST("/situational-strategy", handlePostSituationalStrategy(logger, deps.Narrative))
	e.POST("/injury-risk", handlePostInjuryRisk(logger, deps.Narrative))

	e.GET("/simulation", handleGetSimulation(deps.Runner))
	e.POST("/simulation/load", handlePostSimulationLoad(logger, deps.Roster, deps.Runner))
	e.POST("/simulation/start", handlePostSimulationStart(logger, deps.Runner))
	e.POST("/simulation/stop", handlePostSimulationStop(deps.Runner))
	e.POST("/simulation/step", handlePostSimulationStep(deps.Runner))
	e.GET("/simulation/feed", handleSimulationFeed(logger, deps.Hub))

	e.GET("/auth/token", handleGetToken(logger, config))
	e.POST("/auth/verify", handlePostVerifyToken(logger, config))
}
