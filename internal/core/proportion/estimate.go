package proportion

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/turnout/internal/core/election"
	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// ErrInvalidTrialCount indicates a non-positive number of trials.
var ErrInvalidTrialCount = apperrors.New(apperrors.CodeTrialCountInvalid, "trial count must be positive")

// Trialer runs a single election. *election.Engine satisfies it; tests may
// substitute fakes.
type Trialer interface {
	RunTrial(cfg election.Config) (bool, error)
}

// Estimate is a sample proportion together with its sample size.
type Estimate struct {
	Successes int
	Trials    int
}

// Proportion returns Successes / Trials, or 0 for an empty estimate.
func (e Estimate) Proportion() float64 {
	if e.Trials == 0 {
		return 0
	}
	return float64(e.Successes) / float64(e.Trials)
}

// Add merges two independent samples of the same scenario.
func (e Estimate) Add(o Estimate) Estimate {
	return Estimate{
		Successes: e.Successes + o.Successes,
		Trials:    e.Trials + o.Trials,
	}
}

// Interval returns the 95% confidence interval for the estimate.
func (e Estimate) Interval() (Interval, error) {
	return ConfidenceInterval(e.Proportion(), e.Trials)
}

// EstimateProportion runs trials independent elections on engine and counts
// challenger wins. The first trial error aborts the run.
func EstimateProportion(engine Trialer, trials int, cfg election.Config) (Estimate, error) {
	if trials <= 0 {
		return Estimate{}, apperrors.Detail(ErrInvalidTrialCount, map[string]string{
			"trials": strconv.Itoa(trials),
		})
	}
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	est := Estimate{Trials: trials}
	for i := 0; i < trials; i++ {
		won, err := engine.RunTrial(cfg)
		if err != nil {
			return Estimate{}, fmt.Errorf("trial %d: %w", i, err)
		}
		if won {
			est.Successes++
		}
	}
	return est, nil
}
