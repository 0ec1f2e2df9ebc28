package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mediavault/internal/application/usecase/abstraction"
	"mediavault/internal/presentation"
)

type CollectionsHandler struct {
	collections abstraction.Collections
}

func NewCollectionsHandler(collections abstraction.Collections) *CollectionsHandler {
	return &CollectionsHandler{
		collections: collections,
	}
}

// HandleCollections handles GET /collections requests.
func (h *CollectionsHandler) HandleCollections(c echo.Context) error {
	all, err := h.collections.GetAll(c.Request().Context())
	if err != nil {
		c.Response().Header().Set(presentation.ReasonTag, err.Error())

		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, all)
}
