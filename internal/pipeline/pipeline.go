package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
)

// State carries one work item through the pipeline. Each step reads what
// earlier steps produced and records its own output.
type State struct {
	// Item is the work item.
	Item string

	// Metadata is set by the extract step when the extractor provides it.
	Metadata *model.ItemMetadata

	// Tree is set by the extract step.
	Tree *model.Tree

	// Metrics is set by the analyze step.
	Metrics *model.Metrics

	// Completed lists the names of steps that finished, in order.
	Completed []string
}

// NewState creates the state for one work item.
func NewState(item string) *State {
	return &State{
		Item:      item,
		Completed: make([]string, 0, 3),
	}
}

// Step is one stage of the per-item sequence.
//
// Design decision: steps share a *State rather than passing return values
// along, so a step only reads what earlier steps recorded and the pipeline
// does not need to know the data each stage produces.
type Step interface {
	// Do runs the step for the item in state.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging.
	Name() string

	// Stage returns the capability the step exercises.
	Stage() plugin.Capability
}

// Pipeline executes steps in order for a single work item.
//
// Design decision: a Pipeline always stops at the first failing step. The
// analyze step needs the extractor's tree and the report step needs the
// analyzer's metrics, so there is nothing useful to run after a failure.
// The failure is returned as a *StageError naming the step's capability.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// New creates a pipeline. A nil logger uses slog.Default().
func New(logger *slog.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		steps:  make([]Step, 0, len(steps)),
		logger: logger,
	}
	p.AddSteps(steps...)
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in order and stops at the first failure.
// Cancellation is checked before each step; a cancelled item fails at the step
// it was about to run. Any error or panic is returned as a *StageError.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"item", state.Item,
				"reason", err,
			)
			return &StageError{Stage: step.Stage(), Item: state.Item, Err: err}
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"item", state.Item,
		)

		if err := p.run(ctx, step, state); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"item", state.Item,
				"error", err,
			)
			return &StageError{Stage: step.Stage(), Item: state.Item, Err: err}
		}

		state.Completed = append(state.Completed, step.Name())
	}
	return nil
}

// run calls step.Do and turns a panic into an error.
func (p *Pipeline) run(ctx context.Context, step Step, state *State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("step panicked",
				"step", step.Name(),
				"item", state.Item,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Do(ctx, state)
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
