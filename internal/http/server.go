package http

import (
	nethttp "net/http"

	"github.com/yungbote/superfunded-backend/internal/config"
)

// NewServer wraps the router in an http.Server. WriteTimeout stays zero so long streams are not cut.
func NewServer(cfg config.HTTPConfig, rc RouterConfig) *nethttp.Server {
	return &nethttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(rc),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
		WriteTimeout:      0,
	}
}
