package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/david50407/obs-studio/internal/events"
)

const (
	streamBuffer   = 64
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	readLimitBytes = 512
)

// EventsHandler exposes lifecycle events as a list and as a WebSocket stream
type EventsHandler struct {
	bus        *events.Bus
	wsUpgrader websocket.Upgrader
	logger     hclog.Logger
}

// NewEventsHandler creates a handler reading from bus
func NewEventsHandler(bus *events.Bus, logger hclog.Logger) *EventsHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &EventsHandler{
		bus: bus,
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the API binds to localhost by default
			},
		},
		logger: logger.Named("events-stream"),
	}
}

// filterFromQuery reads ?type= and ?module= as comma-separated lists
func filterFromQuery(c *gin.Context) events.EventFilter {
	var filter events.EventFilter
	for _, t := range splitList(c.Query("type")) {
		filter.Types = append(filter.Types, events.EventType(t))
	}
	filter.Modules = splitList(c.Query("module"))
	return filter
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEvents returns the recent events matching the query filter
func (h *EventsHandler) GetEvents(c *gin.Context) {
	recent := h.bus.Recent(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{
		"events": recent,
		"count":  len(recent),
	})
}

// Stream upgrades to a WebSocket and forwards matching events until the
// client disconnects. Slow clients drop events rather than block publishers.
func (h *EventsHandler) Stream(c *gin.Context) {
	filter := filterFromQuery(c)

	conn, err := h.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	queue := make(chan events.Event, streamBuffer)
	var dropped atomic.Int64
	_, cancel := h.bus.Subscribe(filter, func(e events.Event) {
		select {
		case queue <- e:
		default:
			dropped.Add(1)
		}
	})
	defer cancel()

	clientID := fmt.Sprintf("client_%d", time.Now().UnixNano())
	h.logger.Debug("event stream opened", "client", clientID)
	defer func() {
		if n := dropped.Load(); n > 0 {
			h.logger.Warn("event stream dropped events for slow client", "client", clientID, "dropped", n)
		}
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(readLimitBytes)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-queue:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				h.logger.Debug("event stream write failed", "client", clientID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug("event stream closed", "client", clientID)
			return
		}
	}
}
