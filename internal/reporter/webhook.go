package reporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/nao1215/ucma/internal/report"
)

func init() {
	plugin.RegisterReporter("webhook.reporter", "New", NewWebhook)
}

// WebhookConfig configures the webhook reporter.
type WebhookConfig struct {
	// URL receives the POSTed JSON document.
	URL string `yaml:"url" validate:"required,http_url"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token"`

	// Proxy is an optional SOCKS5 proxy address (host:port).
	Proxy string `yaml:"proxy" validate:"omitempty,hostname_port"`

	// Timeout bounds the whole request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Headers are added to the request.
	Headers map[string]string `yaml:"headers"`
}

// WebhookReporter POSTs the report to an HTTP endpoint.
type WebhookReporter struct {
	cfg    WebhookConfig
	report *model.Report
}

// NewWebhook constructs a webhook reporter.
func NewWebhook(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	c := WebhookConfig{Timeout: 30 * time.Second}
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &WebhookReporter{cfg: c, report: model.NewReport(item, meta, metrics)}, nil
}

// Generate sends the report. Any non-2xx response is an error.
func (r *WebhookReporter) Generate(ctx context.Context) error {
	payload, err := report.MarshalDocument(r.report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	client, err := newHTTPClient(r.cfg.Proxy, r.cfg.Timeout, r.cfg.Headers)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ucma")
	req.Header.Set("X-Ucma-Ref", r.report.Ref)
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:errcheck // body is only used in the error message
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return nil
}
