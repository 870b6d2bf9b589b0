package middleware

import (
	"github.com/google/logger"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request. Query strings are left out since
// admin tokens may ride in them.
func RequestLogger() echo.MiddlewareFunc {
	return echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURIPath: true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Infof("%s %s %d %s", v.Method, v.URIPath, v.Status, v.Latency)
			return nil
		},
	})
}
