package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mediavault/internal/application/usecase/abstraction"
	"mediavault/internal/domain/model"
	"mediavault/internal/presentation"
)

type ListHandler struct {
	lister abstraction.Lister
}

func NewListHandler(lister abstraction.Lister) *ListHandler {
	return &ListHandler{
		lister: lister,
	}
}

// HandleList handles GET /media requests.
func (h *ListHandler) HandleList(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusBadRequest)
	}

	media, status, err := h.lister.ListMedia(c.Request().Context(), filter)
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(status)
	}

	return c.JSON(http.StatusOK, media)
}

func parseFilter(c echo.Context) (model.MediaFilter, error) {
	filter := model.MediaFilter{Author: c.QueryParam(presentation.AuthorQuery)}

	switch t := model.MediaType(c.QueryParam(presentation.TypeQuery)); t {
	case "", model.TypeImage, model.TypeVideo:
		filter.Type = t
	default:
		return filter, fmt.Errorf("invalid '%s' value", presentation.TypeQuery)
	}

	if s := c.QueryParam(presentation.FavoriteQuery); s != "" {
		fav, err := strconv.ParseBool(s)
		if err != nil {
			return filter, fmt.Errorf("invalid '%s' value", presentation.FavoriteQuery)
		}
		filter.Favorite = &fav
	}

	if s := c.QueryParam(presentation.LimitQuery); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid '%s' value", presentation.LimitQuery)
		}
		filter.Limit = limit
	}

	return filter, nil
}
