package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mediavault/internal/application/usecase/abstraction"
	"mediavault/internal/presentation"
)

type DeleteHandler struct {
	deleter abstraction.Deleter
}

func NewDeleteHandler(deleter abstraction.Deleter) *DeleteHandler {
	return &DeleteHandler{
		deleter: deleter,
	}
}

// HandleDelete handles DELETE /media/:id requests.
func (h *DeleteHandler) HandleDelete(c echo.Context) error {
	id := c.Param(presentation.IDParam)
	if id == "" {
		c.Response().Header().Set(presentation.ReasonTag, "missing media id")

		return c.NoContent(http.StatusBadRequest)
	}

	status, err := h.deleter.DeleteMedia(c.Request().Context(), id)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(status)
	}

	return c.NoContent(http.StatusOK)
}
