package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves a plugin name for a capability.
// *plugin.Registry implements it.
type Resolver interface {
	Resolve(c plugin.Capability, name string) (plugin.Implementation, error)
}

// StageSpec is the configured plugin name and configuration for one capability.
type StageSpec struct {
	Plugin string
	Config plugin.StageConfig
}

// Stages is the configured StageSpec for each capability.
type Stages struct {
	Extractor StageSpec
	Analyzer  StageSpec
	Reporter  StageSpec
}

// Observer is called once per finished item from the item's goroutine.
// index is the item's position in the input slice. A panic in an observer
// is recovered and logged.
type Observer func(index int, outcome model.Outcome)

// Orchestrator runs the pipeline for a batch of work items concurrently.
// It resolves the three configured plugins once and then builds a fresh
// Pipeline, with fresh stage instances, for every item.
//
// Design decision: resolution and execution are separate calls (Resolve and
// RunSet) so that a misconfigured plugin name fails the whole batch before
// any item starts, while failures after that point stay inside the item
// they happened in. Run combines the two for callers that do not need the
// resolved Set.
type Orchestrator struct {
	resolver    Resolver
	stages      Stages
	logger      *slog.Logger
	concurrency int
	observers   []Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for batch and per-item logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithConcurrency caps the number of items running at once.
// Zero or a negative value means one goroutine per item with no cap.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithObserver adds a callback invoked for every finished item.
// Observers run concurrently and must be safe for concurrent use.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(resolver Resolver, stages Stages, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		stages:   stages,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Resolve resolves the three configured plugin names.
func (o *Orchestrator) Resolve() (Set, error) {
	var set Set
	specs := []struct {
		capability plugin.Capability
		spec       StageSpec
		dst        *Stage
	}{
		{plugin.CapabilityExtractor, o.stages.Extractor, &set.Extractor},
		{plugin.CapabilityAnalyzer, o.stages.Analyzer, &set.Analyzer},
		{plugin.CapabilityReporter, o.stages.Reporter, &set.Reporter},
	}
	for _, s := range specs {
		impl, err := o.resolver.Resolve(s.capability, s.spec.Plugin)
		if err != nil {
			return Set{}, err
		}
		o.logger.Debug("resolved plugin",
			"capability", s.capability,
			"name", s.spec.Plugin,
			"descriptor", impl.Descriptor,
			"config", s.spec.Config,
		)
		*s.dst = Stage{Impl: impl, Config: s.spec.Config}
	}
	return set, nil
}

// Run resolves the configured plugins and runs every item. Resolution errors
// are returned before any item starts. With dryRun set, Run stops after
// resolution and returns nil outcomes without constructing any stage.
func (o *Orchestrator) Run(ctx context.Context, items []string, dryRun bool) ([]model.Outcome, error) {
	set, err := o.Resolve()
	if err != nil {
		return nil, err
	}
	if dryRun {
		o.logger.Info("dry run: plugins resolved, skipping execution",
			"extractor", set.Extractor.Impl.Descriptor,
			"analyzer", set.Analyzer.Impl.Descriptor,
			"reporter", set.Reporter.Impl.Descriptor,
			"items", len(items),
		)
		return nil, nil
	}
	return o.RunSet(ctx, set, items), nil
}

// RunSet runs the pipeline for every item with an already resolved set and
// waits for all of them. outcomes[i] belongs to items[i].
//
// Design decision: every item goroutine returns nil to the errgroup, so
// errgroup never cancels siblings. An item's error or panic is turned into
// its Outcome instead. SetLimit is only applied when WithConcurrency was
// given; by default each item gets its own goroutine.
//
// RunSet never returns early: cancelling ctx makes the remaining items fail
// at their next step, and their outcomes are still returned.
func (o *Orchestrator) RunSet(ctx context.Context, set Set, items []string) []model.Outcome {
	o.logger.Info("starting batch",
		"items", len(items),
		"concurrency", o.concurrency,
	)
	startTime := time.Now()

	outcomes := make([]model.Outcome, len(items))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, item := range items {
		g.Go(func() error {
			// Each goroutine writes only its own index.
			outcomes[i] = o.runItem(ctx, set, item)
			o.notify(i, outcomes[i])
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // item goroutines never return errors

	o.logger.Info("batch complete",
		"items", len(items),
		"failed", model.CountFailed(outcomes),
		"elapsed", time.Since(startTime),
	)
	return outcomes
}

// notify passes the outcome to every observer. A panicking observer is
// logged and skipped; the outcome and the other observers are unaffected.
func (o *Orchestrator) notify(index int, outcome model.Outcome) {
	for _, fn := range o.observers {
		o.observe(fn, index, outcome)
	}
}

func (o *Orchestrator) observe(fn Observer, index int, outcome model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("observer panicked",
				"item", outcome.Item,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn(index, outcome)
}

// runItem runs one item's pipeline and converts the result into an outcome.
func (o *Orchestrator) runItem(ctx context.Context, set Set, item string) model.Outcome {
	started := time.Now()
	logger := o.logger.With("item", item)

	err := New(logger, set.Steps()...).Execute(ctx, NewState(item))

	outcome := model.Outcome{
		Item:     item,
		Status:   model.StatusSucceeded,
		Started:  started,
		Duration: time.Since(started),
	}
	if err == nil {
		logger.Info("item succeeded", "duration", outcome.Duration)
		return outcome
	}

	outcome.Status = model.StatusFailed
	outcome.Err = err
	outcome.Error = err.Error()
	var se *StageError
	if errors.As(err, &se) {
		outcome.Stage = se.Stage.String()
		outcome.Error = se.Err.Error()
	}
	logger.Warn("item failed",
		"stage", outcome.Stage,
		"error", outcome.Error,
	)
	return outcome
}
