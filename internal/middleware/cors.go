package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSPreflight short-circuits preflight OPTIONS requests with a 200 and the
// CORS grant headers. It runs ahead of the CORS middleware, which leaves the
// header handling of actual responses to it. An empty origin list grants "*".
func CORSPreflight(allowedOrigins []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodOptions {
				return next(c)
			}

			allowed := ""
			if len(allowedOrigins) == 0 {
				allowed = "*"
			} else {
				origin := req.Header.Get(echo.HeaderOrigin)
				for _, o := range allowedOrigins {
					if o == "*" || strings.EqualFold(o, origin) {
						allowed = o
						break
					}
				}
			}

			res := c.Response().Header()
			res.Add(echo.HeaderVary, echo.HeaderOrigin)
			if allowed != "" {
				res.Set(echo.HeaderAccessControlAllowOrigin, allowed)
				res.Set(echo.HeaderAccessControlAllowMethods, "GET,POST,PUT,DELETE,OPTIONS")
				if h := req.Header.Get(echo.HeaderAccessControlRequestHeaders); h != "" {
					res.Set(echo.HeaderAccessControlAllowHeaders, h)
				}
				res.Set(echo.HeaderAccessControlMaxAge, "86400")
			}
			return c.NoContent(http.StatusOK)
		}
	}
}
