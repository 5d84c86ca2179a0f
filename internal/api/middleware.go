package api

import (
	"github.com/labstack/echo/v4"
)

// Cross-origin isolation headers required by the browser client: the in-page
// inference worker uses SharedArrayBuffer, which browsers only enable in a
// cross-origin isolated context.
const (
	headerCOEP = "Cross-Origin-Embedder-Policy"
	headerCOOP = "Cross-Origin-Opener-Policy"

	coepRequireCorp = "require-corp"
	coopSameOrigin  = "same-origin"
)

// CrossOriginIsolation returns a middleware that adds the COEP and COOP
// headers to every outgoing response, process-wide.
func CrossOriginIsolation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			h := ctx.Response().Header()
			h.Set(headerCOEP, coepRequireCorp)
			h.Set(headerCOOP, coopSameOrigin)
			return next(ctx)
		}
	}
}
