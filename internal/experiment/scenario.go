package experiment

import (
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/turnout/internal/core/election"
	"github.com/louisbranch/turnout/internal/core/proportion"
	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// Defaults describe the reference study: a 1001-voter electorate, 10000
// elections per scenario, full turnout at baseline, and 5% of bloc A
// abstaining in protest.
const (
	DefaultElectorateSize  = 1001
	DefaultTrials          = 10000
	DefaultBaselineTurnout = 1.0
	DefaultAbstentionShare = 0.05
)

// Scenario names used by TurnoutScenarios.
const (
	NameEqualTurnout   = "equal turnout"
	NameReducedTurnout = "reduced turnout"
)

// ErrEmptyName indicates a scenario without a name.
var ErrEmptyName = apperrors.New(apperrors.CodeScenarioNameEmpty, "scenario name is required")

// ErrInvalidAbstention indicates an abstention share outside [0, 1].
var ErrInvalidAbstention = apperrors.New(apperrors.CodeAbstentionOutOfRange, "abstention share must be within [0, 1]")

// Scenario is one experiment: a fixed election configuration sampled Trials times.
type Scenario struct {
	Name     string
	Election election.Config
	Trials   int
}

// Validate reports the first precondition violated by s.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Trials <= 0 {
		return apperrors.Detail(proportion.ErrInvalidTrialCount, map[string]string{
			"scenario": s.Name,
			"trials":   strconv.Itoa(s.Trials),
		})
	}
	return s.Election.Validate()
}

// TurnoutScenarios builds the baseline and treatment pair. Both blocs turn
// out at baseRate in the baseline; in the treatment a share of bloc A stays
// home, lowering its rate to baseRate * (1 - abstentionShare).
func TurnoutScenarios(size, trials int, baseRate, abstentionShare float64) (baseline, treatment Scenario, err error) {
	if math.IsNaN(abstentionShare) || abstentionShare < 0 || abstentionShare > 1 {
		return Scenario{}, Scenario{}, apperrors.Detail(ErrInvalidAbstention, map[string]string{
			"share": strconv.FormatFloat(abstentionShare, 'g', -1, 64),
		})
	}

	baseline = Scenario{
		Name:     NameEqualTurnout,
		Election: election.Config{Size: size, TurnoutA: baseRate, TurnoutB: baseRate},
		Trials:   trials,
	}
	treatment = Scenario{
		Name:     NameReducedTurnout,
		Election: election.Config{Size: size, TurnoutA: baseRate * (1 - abstentionShare), TurnoutB: baseRate},
		Trials:   trials,
	}
	if err := baseline.Validate(); err != nil {
		return Scenario{}, Scenario{}, err
	}
	if err := treatment.Validate(); err != nil {
		return Scenario{}, Scenario{}, err
	}
	return baseline, treatment, nil
}
