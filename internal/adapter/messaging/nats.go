// internal/adapter/messaging/nats.go

// Package messaging connects the service to the NATS event bus.
package messaging

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Config holds NATS connection settings
type Config struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Bus publishes and subscribes to subjects on one NATS connection
type Bus struct {
	conn *nats.Conn
}

// Connect dials NATS and logs connection state changes
func Connect(cfg Config, logger zerolog.Logger) (*Bus, error) {
	logger = logger.With().Str("component", "nats").Logger()

	options := []nats.Option{
		nats.Name("trendlab"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return &Bus{conn: nc}, nil
}

// Publish sends data on subject
func (b *Bus) Publish(subject string, data []byte) error {
	if err := b.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("error publishing to %s: %w", subject, err)
	}
	return nil
}

// Subscribe delivers every message on subject to handle until the returned
// function is called. Subjects may contain wildcards.
func (b *Bus) Subscribe(subject string, handle func(data []byte)) (func() error, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handle(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("error subscribing to %s: %w", subject, err)
	}
	return sub.Unsubscribe, nil
}

// Close drains pending messages and closes the connection
func (b *Bus) Close() error {
	return b.conn.Drain()
}
