package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"docmanager/internal/logger"
)

// Logger logs each HTTP request as one JSON line with request_id, method,
// path, status and latency in milliseconds. trace_id and owner_id are added
// when known. 5xx responses are logged at error level, 4xx at warn.
func Logger(log *logger.Logger) fiber.Handler {
	log = log.With("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := statusOf(c, err)
		fields := map[string]any{
			"request_id": RequestIDFrom(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		if owner, ok := OwnerID(c); ok {
			fields["owner_id"] = owner
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("http_request", err, fields)
		case status >= fiber.StatusBadRequest:
			log.Warn("http_request", fields)
		default:
			log.Info("http_request", fields)
		}

		return err
	}
}

// LoggerWithWriter is Logger over a fresh JSON logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.New(w, loc))
}

// statusOf is the status the client will see once the error handler has run.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
