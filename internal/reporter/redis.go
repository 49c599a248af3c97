package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/nao1215/ucma/internal/report"
)

func init() {
	plugin.RegisterReporter("redis.reporter", "New", NewRedis)
}

// RedisConfig configures the Redis reporter.
type RedisConfig struct {
	// Addr is the server address. Defaults to "localhost:6379".
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`

	// Prefix is prepended to the ref to form the key. Defaults to "ucma:report:".
	Prefix string `yaml:"prefix"`

	// TTL expires the key. Zero keeps it forever.
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`

	// List receives the key of every stored report. Empty disables it.
	List string `yaml:"list"`
}

// reportStore stores one encoded report.
type reportStore interface {
	Store(ctx context.Context, key string, payload []byte, ttl time.Duration, list string) error
	Close() error
}

// redisStore is the go-redis backed reportStore.
type redisStore struct {
	client *redis.Client
}

func newRedisStore(cfg RedisConfig) reportStore {
	return &redisStore{client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// Store sets the key and pushes it to the list in one transaction.
func (s *redisStore) Store(ctx context.Context, key string, payload []byte, ttl time.Duration, list string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, payload, ttl)
	if list != "" {
		pipe.LPush(ctx, list, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store report in redis: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

// RedisReporter stores the report in Redis.
type RedisReporter struct {
	cfg      RedisConfig
	report   *model.Report
	newStore func(RedisConfig) reportStore
}

// NewRedis constructs a Redis reporter.
func NewRedis(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	c := RedisConfig{Addr: "localhost:6379", Prefix: "ucma:report:", List: "ucma:reports"}
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &RedisReporter{cfg: c, report: model.NewReport(item, meta, metrics), newStore: newRedisStore}, nil
}

// Key returns the key the report is stored under.
func (r *RedisReporter) Key() string {
	return r.cfg.Prefix + r.report.Ref
}

// Generate stores the report.
func (r *RedisReporter) Generate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := report.MarshalDocument(r.report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	store := r.newStore(r.cfg)
	defer store.Close() //nolint:errcheck // store result is what matters

	return store.Store(ctx, r.Key(), payload, r.cfg.TTL, r.cfg.List)
}
