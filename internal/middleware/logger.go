package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger returns a middleware that logs HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		var event *zerolog.Event
		msg := "request processed"
		switch {
		case statusCode >= 500:
			event = log.Error()
			msg = "server error"
		case statusCode >= 400:
			event = log.Warn()
			msg = "client error"
		default:
			event = log.Info()
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg(msg)
	}
}
