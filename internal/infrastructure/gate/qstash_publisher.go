package gate

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type QStashPublisherConfig struct {
	BaseURL       string
	Token         string
	TargetBaseURL string
	Retries       int
	BridgeToken   string
	Timeout       time.Duration
}

// QStashPublisher hands gate messages to QStash, which delivers them to the chat bridge's
// webhook at <target>/<subject with dots as slashes> and retries on the bridge's behalf.
type QStashPublisher struct {
	client        *http.Client
	baseURL       string
	token         string
	targetBaseURL string
	retries       int
	bridgeToken   string
	logger        *logging.Logger
}

var _ Publisher = (*QStashPublisher)(nil)

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) (*QStashPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &QStashPublisher{
		client:        &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		token:         strings.TrimSpace(cfg.Token),
		targetBaseURL: targetBaseURL,
		retries:       cfg.Retries,
		bridgeToken:   strings.TrimSpace(cfg.BridgeToken),
		logger:        logger,
	}, nil
}

func (p *QStashPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	path := "/" + strings.ReplaceAll(strings.Trim(strings.TrimSpace(subject), "."), ".", "/")
	if path == "/" {
		return crerr.New("gate subject is required")
	}
	targetURL := p.targetBaseURL + path
	publishURL := p.baseURL + "/v2/publish/" + targetURL

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.request_curl_preview", p.curlPreview(publishURL, data)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(data))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if p.bridgeToken != "" {
		req.Header.Set("Upstash-Forward-X-Bridge-Token", p.bridgeToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return crerr.Wrapf(err, "publish qstash message target_url=%s", targetURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return crerr.Newf("publish qstash message status=%d target_url=%s body=%s",
			resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
	}

	p.logger.DebugContext(ctx, "qstash message published", "target_url", targetURL)
	return nil
}

// curlPreview renders a redacted curl equivalent of the publish request for traces.
func (p *QStashPublisher) curlPreview(publishURL string, body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(shellQuote(publishURL))
	_, _ = buf.WriteString(" -H 'Authorization: Bearer ***' -H 'Content-Type: application/json' -H 'Upstash-Method: POST'")
	if p.retries > 0 {
		_, _ = buf.WriteString(" -H " + shellQuote("Upstash-Retries: "+strconv.Itoa(p.retries)))
	}
	if p.bridgeToken != "" {
		_, _ = buf.WriteString(" -H 'Upstash-Forward-X-Bridge-Token: ***'")
	}
	_, _ = buf.WriteString(" -d ")
	_, _ = buf.WriteString(shellQuote(truncateForLog(string(body), 4096)))
	return buf.String()
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
