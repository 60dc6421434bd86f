package gate

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type ClientConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string
	MaxReconnect  int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// Client owns the NATS connection and publishes into one JetStream stream.
type Client struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

func NewClient(ctx context.Context, cfg ClientConfig, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	opts := []nats.Option{
		nats.Name("speedrun-tournament"),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect to nats %s", cfg.URL)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, crerr.Wrap(err, "create jetstream context")
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	}); err != nil {
		nc.Close()
		return nil, crerr.Wrapf(err, "ensure stream %s", cfg.Stream)
	}

	logger.Info("nats connected", "url", nc.ConnectedUrl(), "stream", cfg.Stream)
	return &Client{conn: nc, js: js}, nil
}

func (c *Client) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := c.js.Publish(ctx, subject, data); err != nil {
		return crerr.Wrapf(err, "publish %s", subject)
	}
	return nil
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains pending publishes before closing the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
