// Package election simulates a single two-bloc election among a randomly
// generated electorate.
//
// # Model
//
// Each agent is affiliated with BlocA or BlocB with probability 0.5 and
// carries the turnout rate of its bloc. When an election is held every agent
// turns out independently with that probability; agents that stay home are
// tallied as Abstained. The challenger (BlocB) wins only with strictly more
// votes than BlocA.
//
// # Determinism
//
// All randomness comes from the Source handed to NewEngine. Given the same
// Source state and the same Config, RunTrial always produces the same outcome.
// Each trial consumes exactly 2*Size draws: one per agent for affiliation and
// one per agent for turnout.
package election

// Source supplies uniform draws in [0, 1). *rand.Rand from math/rand and
// math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

// Engine runs trials against a single random source. It is not safe for
// concurrent use; give each goroutine its own Engine.
type Engine struct {
	rng Source
}

// NewEngine creates an engine drawing from rng.
func NewEngine(rng Source) *Engine {
	return &Engine{rng: rng}
}

// GenerateElectorate creates cfg.Size agents with uniformly drawn affiliations.
func (e *Engine) GenerateElectorate(cfg Config) (Electorate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	electorate := make(Electorate, cfg.Size)
	for i := range electorate {
		if e.rng.Float64() < 0.5 {
			electorate[i] = Agent{Affiliation: BlocA, Turnout: cfg.TurnoutA}
		} else {
			electorate[i] = Agent{Affiliation: BlocB, Turnout: cfg.TurnoutB}
		}
	}
	return electorate, nil
}

// CastVote decides whether agent turns out. The draw is fresh on every call.
func (e *Engine) CastVote(agent Agent) Bloc {
	if e.rng.Float64() < agent.Turnout {
		return agent.Affiliation
	}
	return Abstained
}

// Tally casts one vote per agent and counts the results.
func (e *Engine) Tally(electorate Electorate) Tally {
	var t Tally
	for _, agent := range electorate {
		switch e.CastVote(agent) {
		case BlocA:
			t.A++
		case BlocB:
			t.B++
		default:
			t.Abstained++
		}
	}
	return t
}

// DecideOutcome reports whether the challenger won outright. Ties lose.
func DecideOutcome(t Tally) bool {
	return t.B > t.A
}

// Hold generates an electorate and tallies its votes.
func (e *Engine) Hold(cfg Config) (Tally, error) {
	electorate, err := e.GenerateElectorate(cfg)
	if err != nil {
		return Tally{}, err
	}
	return e.Tally(electorate), nil
}

// RunTrial simulates one election and reports whether the challenger won.
func (e *Engine) RunTrial(cfg Config) (bool, error) {
	t, err := e.Hold(cfg)
	if err != nil {
		return false, err
	}
	return DecideOutcome(t), nil
}
