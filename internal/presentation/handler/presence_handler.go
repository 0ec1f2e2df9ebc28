package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mediavault/internal/domain/repository/presence"
	"mediavault/internal/presentation"
)

type PresenceHandler struct {
	tracker presence.Tracker
	window  time.Duration
}

func NewPresenceHandler(tracker presence.Tracker, window time.Duration) *PresenceHandler {
	return &PresenceHandler{
		tracker: tracker,
		window:  window,
	}
}

type presenceResponse struct {
	Surface string   `json:"surface,omitempty"`
	Busy    bool     `json:"busy"`
	Active  []string `json:"active,omitempty"`
}

// HandleTouch handles POST /presence/:surface requests.
func (h *PresenceHandler) HandleTouch(c echo.Context) error {
	surface := c.Param(presentation.SurfaceParam)
	if surface == "" {
		c.Response().Header().Set(presentation.ReasonTag, "missing surface")

		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.tracker.Touch(c.Request().Context(), surface); err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleBusy handles GET /presence/:surface requests.
func (h *PresenceHandler) HandleBusy(c echo.Context) error {
	surface := c.Param(presentation.SurfaceParam)

	window, err := h.windowOf(c)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusBadRequest)
	}

	busy, err := h.tracker.Busy(c.Request().Context(), surface, window)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, presenceResponse{Surface: surface, Busy: busy})
}

// HandleActive handles GET /presence requests.
func (h *PresenceHandler) HandleActive(c echo.Context) error {
	window, err := h.windowOf(c)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusBadRequest)
	}

	active, err := h.tracker.Active(c.Request().Context(), window)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, presenceResponse{Busy: len(active) > 0, Active: active})
}

func (h *PresenceHandler) windowOf(c echo.Context) (time.Duration, error) {
	s := c.QueryParam(presentation.WindowQuery)
	if s == "" {
		return h.window, nil
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return 0, errors.New("invalid 'window' value")
	}

	return time.Duration(ms) * time.Millisecond, nil
}
