package common

import (
	"net/http"

	"github.com/futig/fundfacts/internal/config"
	pkgHTTP "github.com/futig/fundfacts/pkg/http"
	"go.uber.org/zap"
)

func clientOptions(cfg config.HTTPClientConfig, token string) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(token),
	}
}

// NewBaseConnector returns a JSON connector for services without an SDK.
func NewBaseConnector(cfg config.HTTPClientConfig, token string, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(connCfg, clientOptions(cfg, token)...)
}

// NewHTTPClient returns a client for SDKs that manage their own requests and auth.
func NewHTTPClient(cfg config.HTTPClientConfig, token string) *http.Client {
	return pkgHTTP.NewClient(clientOptions(cfg, token)...)
}
