package election

import (
	"math"
	"strconv"

	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// Bloc identifies a voting faction, or the abstention sentinel.
type Bloc int

const (
	// Abstained is recorded when an agent does not turn out.
	Abstained Bloc = iota
	BlocA
	BlocB
)

// Challenger is the bloc whose wins are counted by DecideOutcome.
const Challenger = BlocB

func (b Bloc) String() string {
	switch b {
	case Abstained:
		return "Abstained"
	case BlocA:
		return "A"
	case BlocB:
		return "B"
	default:
		return "Unknown"
	}
}

// ErrInvalidSize indicates a non-positive electorate size.
var ErrInvalidSize = apperrors.New(apperrors.CodeElectorateSizeInvalid, "electorate size must be positive")

// ErrInvalidTurnout indicates a turnout rate outside [0, 1].
var ErrInvalidTurnout = apperrors.New(apperrors.CodeTurnoutOutOfRange, "turnout must be within [0, 1]")

// Agent is a single voter. It is created per trial and never reused.
type Agent struct {
	Affiliation Bloc
	Turnout     float64
}

// Electorate is the set of agents voting in one trial. Order is irrelevant.
type Electorate []Agent

// Tally holds the vote counts of one election.
type Tally struct {
	A         int
	B         int
	Abstained int
}

// Margin returns the challenger's lead over bloc A.
// Positive values indicate a challenger win, zero a tie.
func (t Tally) Margin() int {
	return t.B - t.A
}

// Cast returns the number of ballots cast for either bloc.
func (t Tally) Cast() int {
	return t.A + t.B
}

// Total returns the number of agents counted, abstentions included.
func (t Tally) Total() int {
	return t.A + t.B + t.Abstained
}

// Winner returns the bloc with strictly more votes, or Abstained on a tie.
func (t Tally) Winner() Bloc {
	switch {
	case t.B > t.A:
		return BlocB
	case t.A > t.B:
		return BlocA
	default:
		return Abstained
	}
}

// Config holds the parameters of a single trial.
//
// Size should be odd so that exact ties between the blocs are unlikely; the
// engine itself breaks no ties and treats them as a challenger loss.
type Config struct {
	Size     int
	TurnoutA float64
	TurnoutB float64
}

// Validate reports the first precondition violated by c.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return apperrors.Detail(ErrInvalidSize, map[string]string{
			"size": strconv.Itoa(c.Size),
		})
	}
	if !validRate(c.TurnoutA) {
		return apperrors.Detail(ErrInvalidTurnout, map[string]string{
			"bloc":    BlocA.String(),
			"turnout": strconv.FormatFloat(c.TurnoutA, 'g', -1, 64),
		})
	}
	if !validRate(c.TurnoutB) {
		return apperrors.Detail(ErrInvalidTurnout, map[string]string{
			"bloc":    BlocB.String(),
			"turnout": strconv.FormatFloat(c.TurnoutB, 'g', -1, 64),
		})
	}
	return nil
}

// validRate rejects NaN along with values outside [0, 1].
func validRate(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
