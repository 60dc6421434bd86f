package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/speedrun-tournament/internal/config"
	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/gate"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

func noopClose() error { return nil }

// newChannelGate falls back to the log gate when no transport is enabled.
func newChannelGate(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.ChannelGate, func() error, error) {
	switch {
	case cfg.NATS.Enabled:
		client, err := gate.NewClient(ctx, gate.ClientConfig{
			URL:           cfg.NATS.URL,
			Stream:        cfg.NATS.Stream,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			MaxReconnect:  cfg.NATS.MaxReconnect,
			ReconnectWait: cfg.NATS.ReconnectWait,
			Timeout:       cfg.NATS.Timeout,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect nats gate: %w", err)
		}
		breaker := resilience.NewCircuitBreaker(cfg.NATS.Circuit)
		return gate.NewGate(client, cfg.NATS.SubjectPrefix, breaker, logger), client.Close, nil

	case cfg.QStash.Enabled:
		publisher, err := gate.NewQStashPublisher(gate.QStashPublisherConfig{
			BaseURL:       cfg.QStash.BaseURL,
			Token:         cfg.QStash.Token,
			TargetBaseURL: cfg.QStash.TargetBaseURL,
			Retries:       cfg.QStash.Retries,
			BridgeToken:   cfg.QStash.BridgeToken,
			Timeout:       cfg.QStash.Timeout,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build qstash gate: %w", err)
		}
		breaker := resilience.NewCircuitBreaker(cfg.QStash.Circuit)
		return gate.NewGate(publisher, cfg.QStash.SubjectPrefix, breaker, logger), noopClose, nil

	default:
		logger.Info("channel gate writes to the log only, no transport is enabled")
		return usecase.NewLogChannelGate(logger), noopClose, nil
	}
}
