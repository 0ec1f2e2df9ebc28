package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mediavault/internal/application/content"
	"mediavault/internal/application/usecase/abstraction"
	"mediavault/internal/presentation"
)

type GetHandler struct {
	getter abstraction.Getter
}

func NewGetHandler(getter abstraction.Getter) *GetHandler {
	return &GetHandler{
		getter: getter,
	}
}

// HandleGet handles GET /media/:id requests.
func (h *GetHandler) HandleGet(c echo.Context) error {
	id := c.Param(presentation.IDParam)
	if id == "" {
		c.Response().Header().Set(presentation.ReasonTag, "missing media id")

		return c.NoContent(http.StatusBadRequest)
	}

	media, status, err := h.getter.GetMedia(c.Request().Context(), id)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(status)
	}

	return c.JSON(http.StatusOK, media.Stripped())
}

// HandleContent handles GET /media/:id/content requests. Stored bytes are
// served directly; records without bytes redirect to their remote url.
func (h *GetHandler) HandleContent(c echo.Context) error {
	id := c.Param(presentation.IDParam)
	if id == "" {
		c.Response().Header().Set(presentation.ReasonTag, "missing media id")

		return c.NoContent(http.StatusBadRequest)
	}

	media, status, err := h.getter.GetMedia(c.Request().Context(), id)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(status)
	}

	if len(media.LocalData) > 0 {
		c.Response().Header().Set("Accept-Ranges", "bytes")
		c.Response().Header().Set("Content-Length", strconv.Itoa(len(media.LocalData)))

		return c.Blob(http.StatusOK, media.MimeType, media.LocalData)
	}

	for _, u := range []string{media.URL, media.OriginalRemoteURL} {
		if content.IsRemote(u) {
			return c.Redirect(http.StatusFound, u)
		}
	}

	c.Response().Header().Set(presentation.ReasonTag, "media has no content")

	return c.NoContent(http.StatusNotFound)
}
