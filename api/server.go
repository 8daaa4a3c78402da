package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/tifye/dugout/bullpen"
	"github.com/tifye/dugout/bullpen/statcast"
	"github.com/tifye/dugout/feed"
	"github.com/tifye/dugout/narrative"
	"github.com/tifye/dugout/sim"
)

type ServerDependencies struct {
	Roster      *bullpen.Roster
	Recommender *bullpen.Recommender
	Refresher   *statcast.Refresher
	Narrative   *narrative.Client
	Runner      *sim.Runner
	Hub         *feed.Hub
}

func NewServer(logger *log.Logger, config *viper.Viper, deps *ServerDependencies) *http.Server {
	e := echo.New()
	server := &http.Server{
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       25 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          logger.StandardLog(),
		MaxHeaderBytes:    1024,
	}

	registerRoutes(e, logger, config, deps)

	return server
}
