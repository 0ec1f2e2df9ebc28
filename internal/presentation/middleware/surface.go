package middleware

import (
	"github.com/labstack/echo/v4"

	"mediavault/internal/domain/repository/presence"
	"mediavault/internal/presentation"
	"mediavault/pkg/logger"
)

// SurfaceHeartbeat marks the surface named in the X-Surface header as active
// on every request it makes.
func SurfaceHeartbeat(tracker presence.Tracker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if surface := ctx.Request().Header.Get(presentation.SurfaceTag); surface != "" {
				if err := tracker.Touch(ctx.Request().Context(), surface); err != nil {
					logger.Warn("can't record surface activity", "surface", surface, "err", err)
				}
			}

			return next(ctx)
		}
	}
}
