package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	pkghttp "github.com/futig/fundfacts/pkg/http"
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"100ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
	}
}

// Do runs fn until it succeeds, the attempts are spent, ctx is done or the error is permanent.
func Do[T any](ctx context.Context, rc RetryConfig, fn func() (T, error), opts ...retry.Option) (T, error) {
	options := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetryable),
	)
	options = append(options, opts...)
	return retry.DoWithData(fn, options...)
}

// IsRetryable reports whether err is worth another attempt. Client errors are permanent,
// except request timeouts and rate limiting.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusRequestTimeout,
			httpErr.StatusCode == http.StatusTooManyRequests:
			return true
		case httpErr.StatusCode >= 400 && httpErr.StatusCode < 500:
			return false
		}
	}
	return true
}
