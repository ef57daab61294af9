package middlewares

import (
	"time"

	config "github.com/coffeeshop/backend/server/config"
	otel "github.com/coffeeshop/backend/server/otel"
	gin "github.com/gin-gonic/gin"
	zap "go.uber.org/zap"
)

type Telemetry interface {
	Middleware() gin.HandlerFunc
}

type TelemetryImpl struct {
	cfg       config.Config
	telemetry otel.OpenTelemetry
	logger    *zap.Logger
}

func NewTelemetryMiddleware(cfg config.Config, telemetry otel.OpenTelemetry, logger *zap.Logger) (Telemetry, error) {
	return &TelemetryImpl{
		cfg:       cfg,
		telemetry: telemetry,
		logger:    logger,
	}, nil
}

func (t *TelemetryImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.cfg.TelemetryConfig.Enable || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		startTime := time.Now()

		t.telemetry.RecordRequestCount(c.Request.Context(), c.Request.Method, c.FullPath())

		c.Next()

		duration := time.Since(startTime)
		durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

		statusCode := c.Writer.Status()

		t.telemetry.RecordResponseStatus(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			statusCode,
		)

		t.telemetry.RecordRequestDuration(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			durationMs,
		)

		t.logger.Debug("request telemetry recorded",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", statusCode),
			zap.Float64("duration_ms", durationMs),
		)
	}
}
