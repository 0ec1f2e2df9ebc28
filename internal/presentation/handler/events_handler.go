package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mediavault/internal/infrastructure/hub"
	"mediavault/internal/presentation"
	"mediavault/pkg/logger"
)

// EventsHandler streams store events to UI surfaces over a websocket.
type EventsHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewEventsHandler(h *hub.Hub) *EventsHandler {
	return &EventsHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// surfaces run on extension origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleEvents handles GET /events requests. The surface name comes from
// the X-Surface header or the surface query parameter.
func (h *EventsHandler) HandleEvents(c echo.Context) error {
	surface := c.Request().Header.Get(presentation.SurfaceTag)
	if surface == "" {
		surface = c.QueryParam(presentation.SurfaceParam)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("can't upgrade events connection", "surface", surface, "err", err)

		return nil
	}

	h.hub.Register(surface, conn).ReadPump()

	return nil
}
