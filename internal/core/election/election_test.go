package election

import (
	"errors"
	"math"
	"testing"

	"github.com/louisbranch/turnout/internal/random"
)

// scripted replays fixed draws and counts how many were taken.
type scripted struct {
	draws []float64
	n     int
}

func (s *scripted) Float64() float64 {
	v := s.draws[s.n%len(s.draws)]
	s.n++
	return v
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "valid", cfg: Config{Size: 1001, TurnoutA: 0.95, TurnoutB: 1}},
		{name: "bounds inclusive", cfg: Config{Size: 1, TurnoutA: 0, TurnoutB: 1}},
		{name: "zero size", cfg: Config{Size: 0, TurnoutA: 1, TurnoutB: 1}, wantErr: ErrInvalidSize},
		{name: "negative size", cfg: Config{Size: -5, TurnoutA: 1, TurnoutB: 1}, wantErr: ErrInvalidSize},
		{name: "turnout A negative", cfg: Config{Size: 3, TurnoutA: -0.1, TurnoutB: 1}, wantErr: ErrInvalidTurnout},
		{name: "turnout B above one", cfg: Config{Size: 3, TurnoutA: 1, TurnoutB: 1.1}, wantErr: ErrInvalidTurnout},
		{name: "turnout NaN", cfg: Config{Size: 3, TurnoutA: math.NaN(), TurnoutB: 1}, wantErr: ErrInvalidTurnout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateElectorate(t *testing.T) {
	src := &scripted{draws: []float64{0.1, 0.7, 0.49999, 0.5}}
	e := NewEngine(src)

	electorate, err := e.GenerateElectorate(Config{Size: 4, TurnoutA: 0.25, TurnoutB: 0.75})
	if err != nil {
		t.Fatalf("GenerateElectorate() error = %v", err)
	}

	want := Electorate{
		{Affiliation: BlocA, Turnout: 0.25},
		{Affiliation: BlocB, Turnout: 0.75},
		{Affiliation: BlocA, Turnout: 0.25},
		{Affiliation: BlocB, Turnout: 0.75},
	}
	if len(electorate) != len(want) {
		t.Fatalf("got %d agents, want %d", len(electorate), len(want))
	}
	for i := range want {
		if electorate[i] != want[i] {
			t.Errorf("agent[%d] = %+v, want %+v", i, electorate[i], want[i])
		}
	}
	if src.n != 4 {
		t.Fatalf("consumed %d draws, want 4", src.n)
	}
}

func TestGenerateElectorateRejectsInvalidConfig(t *testing.T) {
	e := NewEngine(&scripted{draws: []float64{0}})
	if _, err := e.GenerateElectorate(Config{Size: -1, TurnoutA: 1, TurnoutB: 1}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("error = %v, want ErrInvalidSize", err)
	}
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name  string
		agent Agent
		draw  float64
		want  Bloc
	}{
		{name: "draw below turnout votes", agent: Agent{Affiliation: BlocA, Turnout: 0.5}, draw: 0.49, want: BlocA},
		{name: "draw equal to turnout abstains", agent: Agent{Affiliation: BlocB, Turnout: 0.5}, draw: 0.5, want: Abstained},
		{name: "full turnout always votes", agent: Agent{Affiliation: BlocB, Turnout: 1}, draw: 0.999999, want: BlocB},
		{name: "zero turnout never votes", agent: Agent{Affiliation: BlocA, Turnout: 0}, draw: 0, want: Abstained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(&scripted{draws: []float64{tt.draw}})
			if got := e.CastVote(tt.agent); got != tt.want {
				t.Fatalf("CastVote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCastVoteRedrawsEachCall(t *testing.T) {
	src := &scripted{draws: []float64{0.1, 0.9}}
	e := NewEngine(src)
	agent := Agent{Affiliation: BlocA, Turnout: 0.5}

	if got := e.CastVote(agent); got != BlocA {
		t.Fatalf("first vote = %v, want A", got)
	}
	if got := e.CastVote(agent); got != Abstained {
		t.Fatalf("second vote = %v, want Abstained", got)
	}
}

func TestTally(t *testing.T) {
	electorate := Electorate{
		{Affiliation: BlocA, Turnout: 1},
		{Affiliation: BlocA, Turnout: 0},
		{Affiliation: BlocB, Turnout: 1},
		{Affiliation: BlocB, Turnout: 1},
		{Affiliation: BlocB, Turnout: 0},
	}
	src := &scripted{draws: []float64{0.5}}
	got := NewEngine(src).Tally(electorate)

	want := Tally{A: 1, B: 2, Abstained: 2}
	if got != want {
		t.Fatalf("Tally() = %+v, want %+v", got, want)
	}
	if got.Total() != len(electorate) {
		t.Fatalf("Total() = %d, want %d", got.Total(), len(electorate))
	}
	if got.Cast() != 3 {
		t.Fatalf("Cast() = %d, want 3", got.Cast())
	}
	if src.n != len(electorate) {
		t.Fatalf("consumed %d draws, want %d", src.n, len(electorate))
	}
}

func TestDecideOutcome(t *testing.T) {
	tests := []struct {
		name   string
		tally  Tally
		want   bool
		winner Bloc
		margin int
	}{
		{name: "challenger ahead", tally: Tally{A: 10, B: 11}, want: true, winner: BlocB, margin: 1},
		{name: "challenger behind", tally: Tally{A: 11, B: 10}, want: false, winner: BlocA, margin: -1},
		{name: "tie loses", tally: Tally{A: 7, B: 7, Abstained: 1}, want: false, winner: Abstained, margin: 0},
		{name: "nobody voted", tally: Tally{Abstained: 3}, want: false, winner: Abstained, margin: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideOutcome(tt.tally); got != tt.want {
				t.Errorf("DecideOutcome() = %v, want %v", got, tt.want)
			}
			if got := tt.tally.Winner(); got != tt.winner {
				t.Errorf("Winner() = %v, want %v", got, tt.winner)
			}
			if got := tt.tally.Margin(); got != tt.margin {
				t.Errorf("Margin() = %d, want %d", got, tt.margin)
			}
		})
	}
}

func TestRunTrialSingleAgentBoundary(t *testing.T) {
	// Bloc A always votes and bloc B never does, so the challenger can at
	// best tie at zero: the outcome is a loss whatever the affiliation.
	cfg := Config{Size: 1, TurnoutA: 1, TurnoutB: 0}
	for seed := int64(0); seed < 200; seed++ {
		e := NewEngine(random.New(seed, 0))
		won, err := e.RunTrial(cfg)
		if err != nil {
			t.Fatalf("seed %d: RunTrial() error = %v", seed, err)
		}
		if won {
			t.Fatalf("seed %d: expected challenger loss", seed)
		}
	}
}

func TestRunTrialSingleAgentFollowsAffiliation(t *testing.T) {
	cfg := Config{Size: 1, TurnoutA: 0, TurnoutB: 1}
	tests := []struct {
		name        string
		affiliation float64
		want        bool
	}{
		{name: "agent in A", affiliation: 0.2, want: false},
		{name: "agent in B", affiliation: 0.8, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scripted{draws: []float64{tt.affiliation, 0.3}}
			won, err := NewEngine(src).RunTrial(cfg)
			if err != nil {
				t.Fatalf("RunTrial() error = %v", err)
			}
			if won != tt.want {
				t.Fatalf("RunTrial() = %v, want %v", won, tt.want)
			}
			if src.n != 2 {
				t.Fatalf("consumed %d draws, want 2", src.n)
			}
		})
	}
}

func TestRunTrialDeterminism(t *testing.T) {
	cfg := Config{Size: 101, TurnoutA: 0.9, TurnoutB: 0.95}
	e1 := NewEngine(random.New(12345, 3))
	e2 := NewEngine(random.New(12345, 3))

	for i := 0; i < 50; i++ {
		w1, err := e1.RunTrial(cfg)
		if err != nil {
			t.Fatalf("RunTrial() error = %v", err)
		}
		w2, err := e2.RunTrial(cfg)
		if err != nil {
			t.Fatalf("RunTrial() error = %v", err)
		}
		if w1 != w2 {
			t.Fatalf("trial %d differs between identical seeds", i)
		}
	}
}

func TestHoldCountsEveryAgent(t *testing.T) {
	cfg := Config{Size: 1001, TurnoutA: 0.95, TurnoutB: 1}
	tally, err := NewEngine(random.New(7, 0)).Hold(cfg)
	if err != nil {
		t.Fatalf("Hold() error = %v", err)
	}
	if tally.Total() != cfg.Size {
		t.Fatalf("Total() = %d, want %d", tally.Total(), cfg.Size)
	}
}

func TestRunTrialRejectsInvalidTurnout(t *testing.T) {
	e := NewEngine(random.New(1, 0))
	_, err := e.RunTrial(Config{Size: 11, TurnoutA: 1, TurnoutB: 2})
	if !errors.Is(err, ErrInvalidTurnout) {
		t.Fatalf("RunTrial() error = %v, want ErrInvalidTurnout", err)
	}
}

func TestBlocString(t *testing.T) {
	for b, want := range map[Bloc]string{Abstained: "Abstained", BlocA: "A", BlocB: "B", Bloc(9): "Unknown"} {
		if got := b.String(); got != want {
			t.Errorf("Bloc(%d).String() = %q, want %q", int(b), got, want)
		}
	}
}
