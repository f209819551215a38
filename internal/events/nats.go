package events

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/lottolab/tombola-analytics/internal/config"
	"github.com/lottolab/tombola-analytics/pkg/common/logger"
	"github.com/lottolab/tombola-analytics/pkg/retry"
)

// Connect dials NATS with reconnect handlers wired into the logger. The
// initial dial is retried briefly so a NATS server starting alongside the
// analyzer does not fail the run.
func Connect(cfg config.NATSConfig) (*nats.Conn, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectHandler(func(nc *nats.Conn) {
			logger.Warn("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	var nc *nats.Conn
	err := retry.Constant(func() error {
		var dialErr error
		nc, dialErr = nats.Connect(url, opts...)
		return dialErr
	}, cfg.ConnectWait/retry.DefaultMaxAttempts, retry.DefaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	return nc, nil
}
