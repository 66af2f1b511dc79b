// Package turnout wires the turnout simulation command: configuration from
// the environment, the experiment runner, the report, and metrics export.
package turnout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/louisbranch/turnout/internal/experiment"
	"github.com/louisbranch/turnout/internal/experiment/metrics"
	"github.com/louisbranch/turnout/internal/platform/config"
	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
	"github.com/louisbranch/turnout/internal/platform/timeouts"
	"github.com/louisbranch/turnout/internal/random"
	"github.com/louisbranch/turnout/internal/report"
)

// pushJob is the Pushgateway job label for simulation runs.
const pushJob = "turnout"

// ErrInvalidWorkers indicates a non-positive worker count.
var ErrInvalidWorkers = apperrors.New(apperrors.CodeWorkerCountInvalid, "worker count must be positive")

// Config holds turnout command configuration.
type Config struct {
	ElectorateSize  int           `env:"TURNOUT_ELECTORATE_SIZE"  envDefault:"1001"`
	Trials          int           `env:"TURNOUT_TRIALS"           envDefault:"10000"`
	BaselineRate    float64       `env:"TURNOUT_BASELINE_RATE"    envDefault:"1"`
	AbstentionShare float64       `env:"TURNOUT_ABSTENTION_SHARE" envDefault:"0.05"`
	Seed            int64         `env:"TURNOUT_SEED"`
	Workers         int           `env:"TURNOUT_WORKERS"          envDefault:"1"`
	Format          string        `env:"TURNOUT_REPORT_FORMAT"    envDefault:"text"`
	Verbose         bool          `env:"TURNOUT_VERBOSE"`
	PushgatewayURL  string        `env:"TURNOUT_PUSHGATEWAY_URL"`
	PushTimeout     time.Duration `env:"TURNOUT_PUSH_TIMEOUT"     envDefault:"5s"`
}

// ParseConfig loads a Config from the process environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfigFrom loads a Config from environ.
func ParseConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvFrom(&cfg, environ); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the turnout comparison and writes the report to out.
// Diagnostics go to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Workers < 1 {
		return apperrors.Detail(ErrInvalidWorkers, map[string]string{
			"workers": strconv.Itoa(cfg.Workers),
		})
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	baseline, treatment, err := experiment.TurnoutScenarios(cfg.ElectorateSize, cfg.Trials, cfg.BaselineRate, cfg.AbstentionShare)
	if err != nil {
		return err
	}

	logger := log.New(errOut, "", 0)
	runLogger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		runLogger = logger
	}

	seed := cfg.Seed
	if seed == 0 {
		seed, err = random.NewSeed()
		if err != nil {
			return err
		}
	}
	runLogger.Printf("seed %d, %d workers", seed, cfg.Workers)

	reg := prometheus.NewRegistry()
	runner := experiment.NewRunner(experiment.Options{
		Seed:    seed,
		Workers: cfg.Workers,
		Metrics: metrics.New(reg),
		Logger:  runLogger,
	})

	cmp, err := runner.Compare(ctx, baseline, treatment)
	if err != nil {
		return err
	}
	if err := report.Write(out, format, cmp); err != nil {
		return err
	}

	if cfg.PushgatewayURL != "" {
		if err := pushMetrics(ctx, cfg, reg, cmp.RunID.String()); err != nil {
			logger.Printf("push metrics: %v", err)
		}
	}
	return nil
}

func pushMetrics(ctx context.Context, cfg Config, gatherer prometheus.Gatherer, runID string) error {
	timeout := cfg.PushTimeout
	if timeout <= 0 {
		timeout = timeouts.MetricsPush
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := push.New(cfg.PushgatewayURL, pushJob).
		Gatherer(gatherer).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push to %s: %w", cfg.PushgatewayURL, err)
	}
	return nil
}
