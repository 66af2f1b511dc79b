// Package experiment runs turnout scenarios and compares their estimated
// challenger win proportions.
//
// A Runner splits each scenario's trials across workers. Every worker owns an
// election.Engine on its own random stream derived from the run seed, the
// scenario index, and the worker index, so a (seed, workers) pair always
// reproduces the same Comparison.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/turnout/internal/core/election"
	"github.com/louisbranch/turnout/internal/core/proportion"
	"github.com/louisbranch/turnout/internal/experiment/metrics"
	"github.com/louisbranch/turnout/internal/random"
)

const tracerName = "github.com/louisbranch/turnout/internal/experiment"

// defaultBatch is the number of trials a worker runs between cancellation checks.
const defaultBatch = 256

// Options configures a Runner.
type Options struct {
	Seed    int64
	Workers int // goroutines per scenario (>=1)
	Batch   int // trials between cancellation checks; 0 uses a default
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
	Logger  *log.Logger
}

// Runner executes scenarios. It holds no per-run state and may be reused.
type Runner struct {
	seed    int64
	workers int
	batch   int
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *log.Logger
	clock   func() time.Time
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		seed:    opts.Seed,
		workers: opts.Workers,
		batch:   opts.Batch,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		logger:  opts.Logger,
		clock:   time.Now,
	}
	if r.workers < 1 {
		r.workers = 1
	}
	if r.batch < 1 {
		r.batch = defaultBatch
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard, "", 0)
	}
	return r
}

// Result is the outcome of one scenario run.
type Result struct {
	Scenario Scenario
	Estimate proportion.Estimate
	Interval proportion.Interval
	Elapsed  time.Duration
}

// Conclusion labels the verdict of a comparison.
type Conclusion string

const (
	ConclusionOverlap      Conclusion = "overlap"
	ConclusionSeparated    Conclusion = "separated"
	ConclusionInconclusive Conclusion = "inconclusive"
)

// Comparison pairs a baseline and a treatment run with the overlap verdict.
type Comparison struct {
	RunID     uuid.UUID
	Seed      int64
	Workers   int
	Baseline  Result
	Treatment Result
	Overlap   bool

	// Degenerate is set when either interval has zero width, i.e. a scenario
	// won every trial or none. Its conclusion is ConclusionInconclusive.
	Degenerate bool
}

// Conclusion returns the verdict of the overlap heuristic.
func (c Comparison) Conclusion() Conclusion {
	switch {
	case c.Degenerate:
		return ConclusionInconclusive
	case c.Overlap:
		return ConclusionOverlap
	default:
		return ConclusionSeparated
	}
}

// Significant reports whether the intervals are separated, which the
// overlap heuristic reads as evidence that the proportions differ.
// Degenerate comparisons are never significant.
func (c Comparison) Significant() bool {
	return c.Conclusion() == ConclusionSeparated
}

// Run executes a single scenario on stream 0.
func (r *Runner) Run(ctx context.Context, s Scenario) (Result, error) {
	return r.run(ctx, s, 0)
}

// Compare runs baseline and treatment on distinct streams and tests their
// intervals for overlap.
func (r *Runner) Compare(ctx context.Context, baseline, treatment Scenario) (Comparison, error) {
	ctx, span := r.tracer.Start(ctx, "experiment.compare")
	defer span.End()

	runID := uuid.New()
	span.SetAttributes(
		attribute.String("run.id", runID.String()),
		attribute.Int64("run.seed", r.seed),
		attribute.Int("run.workers", r.workers),
	)

	base, err := r.run(ctx, baseline, 0)
	if err != nil {
		return Comparison{}, spanError(span, err)
	}
	treat, err := r.run(ctx, treatment, 1)
	if err != nil {
		return Comparison{}, spanError(span, err)
	}

	c := Comparison{
		RunID:      runID,
		Seed:       r.seed,
		Workers:    r.workers,
		Baseline:   base,
		Treatment:  treat,
		Overlap:    proportion.Overlaps(base.Interval, treat.Interval),
		Degenerate: base.Interval.Width() == 0 || treat.Interval.Width() == 0,
	}
	conclusion := c.Conclusion()
	r.metrics.IncrementComparison(string(conclusion))
	span.SetAttributes(
		attribute.Bool("intervals.overlap", c.Overlap),
		attribute.String("comparison.conclusion", string(conclusion)),
	)
	r.logger.Printf("run %s: overlap=%t conclusion=%s", runID, c.Overlap, conclusion)

	return c, nil
}

func (r *Runner) run(ctx context.Context, s Scenario, index int) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := r.tracer.Start(ctx, "experiment.run", trace.WithAttributes(
		attribute.String("scenario", s.Name),
		attribute.Int("scenario.trials", s.Trials),
		attribute.Int("electorate.size", s.Election.Size),
		attribute.Float64("turnout.a", s.Election.TurnoutA),
		attribute.Float64("turnout.b", s.Election.TurnoutB),
	))
	defer span.End()

	start := r.clock()
	shares := split(s.Trials, r.workers)
	estimates := make([]proportion.Estimate, len(shares))

	g, gctx := errgroup.WithContext(ctx)
	for w, share := range shares {
		if share == 0 {
			continue
		}
		g.Go(func() error {
			engine := election.NewEngine(random.New(r.seed, random.Stream(index, w)))
			for done := 0; done < share; {
				if err := gctx.Err(); err != nil {
					return err
				}
				n := min(r.batch, share-done)
				est, err := proportion.EstimateProportion(engine, n, s.Election)
				if err != nil {
					return err
				}
				estimates[w] = estimates[w].Add(est)
				r.metrics.ObserveTrials(s.Name, est.Successes, est.Trials)
				done += n
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, spanError(span, fmt.Errorf("run scenario %q: %w", s.Name, err))
	}

	var total proportion.Estimate
	for _, est := range estimates {
		total = total.Add(est)
	}
	ci, err := total.Interval()
	if err != nil {
		return Result{}, spanError(span, fmt.Errorf("interval for scenario %q: %w", s.Name, err))
	}
	elapsed := r.clock().Sub(start)

	r.metrics.ObserveEstimate(s.Name, total.Proportion(), ci.Width(), elapsed)
	span.SetAttributes(
		attribute.Int("estimate.successes", total.Successes),
		attribute.Float64("estimate.proportion", total.Proportion()),
	)
	r.logger.Printf("scenario %q: p=%.4f ci=%s n=%d workers=%d elapsed=%s",
		s.Name, total.Proportion(), ci, total.Trials, r.workers, elapsed)

	return Result{
		Scenario: s,
		Estimate: total,
		Interval: ci,
		Elapsed:  elapsed,
	}, nil
}

// spanError marks span as failed with err and returns err.
func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// split divides trials across workers as evenly as possible; earlier workers
// take the remainder.
func split(trials, workers int) []int {
	shares := make([]int, workers)
	for i := range shares {
		shares[i] = trials / workers
		if i < trials%workers {
			shares[i]++
		}
	}
	return shares
}
