package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type payloadContextKey struct{}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	}
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok {
		fields = append(fields, zap.Int("payload_bytes", len(payload)))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed",
			append(fields, zap.Error(err), zap.Duration("duration", time.Since(start)))...)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))...)
	return resp, nil
}

// WithRequestLogging logs method, redacted URL, payload size, status and latency at debug level.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
