package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Areas group API routes for the access log.
const (
	AreaPayables = "payables"
	AreaReports  = "reports"
	AreaExpenses = "expenses"
	AreaLedger   = "ledger"
	AreaAuth     = "auth"
	AreaSystem   = "system"
	AreaNone     = "unmatched"
)

// RouteArea maps a gin route pattern to the part of the API it belongs to.
func RouteArea(route string) string {
	switch {
	case route == "":
		return AreaNone
	case strings.HasPrefix(route, "/api/payables/reports"):
		return AreaReports
	case strings.HasPrefix(route, "/api/payables"):
		return AreaPayables
	case strings.HasPrefix(route, "/api/expenses"):
		return AreaExpenses
	case strings.HasPrefix(route, "/api/vendors"),
		strings.HasPrefix(route, "/api/projects"),
		strings.HasPrefix(route, "/api/cash-balances"):
		return AreaLedger
	case strings.HasPrefix(route, "/api/auth"):
		return AreaAuth
	default:
		return AreaSystem
	}
}

// RequestLogger writes one access line per request. Tenant and user are
// read from the gin context after the handler chain has run, so requests
// rejected before authentication are logged without them.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", GetRequestID(c)),
			slog.String("area", RouteArea(route)),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
		}
		if tenant := GetTenant(c); tenant != "" {
			attrs = append(attrs, slog.String("tenant", tenant), slog.String("username", GetUsername(c)))
		}
		if rawQuery != "" {
			attrs = append(attrs, slog.String("query", rawQuery))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		slog.Default().LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}
