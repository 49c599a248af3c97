package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/nao1215/ucma/internal/report"
)

func init() {
	plugin.RegisterReporter("amqp.reporter", "New", NewAMQP)
}

// AMQPConfig configures the AMQP reporter.
type AMQPConfig struct {
	// URL is the broker URL (amqp:// or amqps://).
	URL string `yaml:"url" validate:"required,url"`

	// Exchange to publish to. Empty uses the default exchange, where the
	// routing key names the queue.
	Exchange string `yaml:"exchange"`

	// RoutingKey for the message. Defaults to "ucma.report".
	RoutingKey string `yaml:"routing_key" validate:"required"`

	// Persistent marks messages as persistent.
	Persistent bool `yaml:"persistent"`

	// DialTimeout bounds connection setup. Defaults to 10s.
	DialTimeout time.Duration `yaml:"dial_timeout" validate:"gte=0"`
}

// publisher is the part of an AMQP channel the reporter uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpSession owns a connection and the channel opened on it.
type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (s *amqpSession) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return s.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *amqpSession) Close() error {
	_ = s.ch.Close() //nolint:errcheck // closing the connection reports the relevant error
	return s.conn.Close()
}

// dialAMQP connects and opens a channel.
func dialAMQP(url string, timeout time.Duration) (publisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("open AMQP channel: %w", err)
	}
	return &amqpSession{conn: conn, ch: ch}, nil
}

// AMQPReporter publishes the report to a RabbitMQ exchange.
type AMQPReporter struct {
	cfg    AMQPConfig
	report *model.Report
	dial   func(url string, timeout time.Duration) (publisher, error)
}

// NewAMQP constructs an AMQP reporter.
func NewAMQP(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	c := AMQPConfig{RoutingKey: "ucma.report", DialTimeout: 10 * time.Second}
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &AMQPReporter{cfg: c, report: model.NewReport(item, meta, metrics), dial: dialAMQP}, nil
}

// Generate publishes the report.
func (r *AMQPReporter) Generate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := report.MarshalDocument(r.report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	pub, err := r.dial(r.cfg.URL, r.cfg.DialTimeout)
	if err != nil {
		return err
	}
	defer pub.Close() //nolint:errcheck // publish result is what matters

	msg := amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Timestamp:   r.report.GeneratedAt,
		AppId:       "ucma",
		Type:        "ucma.report",
		Headers: amqp.Table{
			"ref":    r.report.Ref,
			"commit": r.report.Commit(),
		},
		Body: payload,
	}
	if r.cfg.Persistent {
		msg.DeliveryMode = amqp.Persistent
	}

	if err := pub.PublishWithContext(ctx, r.cfg.Exchange, r.cfg.RoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}
