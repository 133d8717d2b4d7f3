package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
)

// one transport shared by the oracle and Telegram clients so idle
// connections are reused across calls
var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient returns a client on the shared transport. A zero timeout
// leaves deadlines to the request context.
func GetPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
