package gate

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

const (
	KindUnlock       = "unlock"
	KindLock         = "lock"
	KindRoundOpen    = "round_open"
	KindRoundClose   = "round_close"
	KindAnnouncement = "announcement"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Message is the envelope every gate instruction is published in.
type Message struct {
	Kind         string                    `json:"kind"`
	Categories   []tournament.Category     `json:"categories,omitempty"`
	Round        any                       `json:"round,omitempty"`
	Rankings     []usecase.CategoryRanking `json:"rankings,omitempty"`
	Announcement *AnnouncementPayload      `json:"announcement,omitempty"`
	SentAt       time.Time                 `json:"sent_at"`
}

type AnnouncementPayload struct {
	ID       int64                 `json:"id,omitempty"`
	Title    string                `json:"title"`
	Body     string                `json:"body"`
	Mentions []tournament.Category `json:"mentions,omitempty"`
}

// Gate publishes channel instructions for the chat bridge to apply.
type Gate struct {
	publisher Publisher
	prefix    string
	breaker   *resilience.CircuitBreaker
	logger    *logging.Logger
	now       func() time.Time
}

var _ usecase.ChannelGate = (*Gate)(nil)

func NewGate(publisher Publisher, subjectPrefix string, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{
		publisher: publisher,
		prefix:    subjectPrefix,
		breaker:   breaker,
		logger:    logger,
		now:       time.Now,
	}
}

func (g *Gate) Unlock(ctx context.Context, categories []tournament.Category) error {
	return g.publish(ctx, "gate.unlock", Message{Kind: KindUnlock, Categories: categories})
}

func (g *Gate) Lock(ctx context.Context, categories []tournament.Category) error {
	return g.publish(ctx, "gate.lock", Message{Kind: KindLock, Categories: categories})
}

func (g *Gate) AnnounceRoundOpen(ctx context.Context, summary usecase.RoundOpenSummary) error {
	return g.publish(ctx, "announce.open", Message{
		Kind:       KindRoundOpen,
		Categories: summary.Categories,
		Round:      summary,
	})
}

func (g *Gate) AnnounceRoundClose(ctx context.Context, summary usecase.RoundCloseSummary) error {
	rankings := summary.Rankings
	summary.Rankings = nil
	return g.publish(ctx, "announce.close", Message{
		Kind:     KindRoundClose,
		Round:    summary,
		Rankings: rankings,
	})
}

func (g *Gate) Announce(ctx context.Context, item announcement.Announcement) error {
	return g.publish(ctx, "announce.general", Message{
		Kind: KindAnnouncement,
		Announcement: &AnnouncementPayload{
			ID:       item.ID,
			Title:    item.Title,
			Body:     item.Body,
			Mentions: item.Mentions,
		},
	})
}

func (g *Gate) publish(ctx context.Context, suffix string, msg Message) error {
	subject := g.prefix + "." + suffix
	msg.SentAt = g.now().UTC()

	data, err := sonic.Marshal(msg)
	if err != nil {
		return crerr.Wrapf(err, "marshal %s message", msg.Kind)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("gate.subject", subject),
			attribute.String("gate.kind", msg.Kind),
			attribute.Int("gate.payload_bytes", len(data)),
		)
	}

	err = g.breaker.Do(func() error {
		return g.publisher.Publish(ctx, subject, data)
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		g.logger.WarnContext(ctx, "gate circuit breaker rejected publish", "subject", subject, "state", g.breaker.State())
		return crerr.Wrapf(err, "publish %s", subject)
	}
	if err != nil {
		return crerr.Wrapf(err, "publish %s", subject)
	}

	g.logger.DebugContext(ctx, "gate message published", "subject", subject, "kind", msg.Kind)
	return nil
}
