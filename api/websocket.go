package api

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/feed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleSimulationFeed upgrades to a websocket and streams every hub
// broadcast to the client until it hangs up. Inbound messages are
// drained and ignored; the feed is one-way.
func handleSimulationFeed(logger *log.Logger, hub *feed.Hub) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(hub)

	return func(c echo.Context) error {
		logger.Debug("upgrading to websocket connection")

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error(err)
			return err
		}
		defer conn.Close()

		// broadcasts from an abandoned run can overlap the next run's;
		// the connection takes one writer at a time
		var writeMu sync.Mutex
		id := hub.Subscribe(func(data []byte) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return conn.WriteMessage(websocket.TextMessage, data)
		})
		defer hub.Unsubscribe(id)

		logger.Debug("feed subscriber connected", "id", id)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("ws read", "err", err, "id", id)
				break
			}
		}

		return c.NoContent(http.StatusOK)
	}
}
