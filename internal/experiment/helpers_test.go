package experiment

import (
	"math/rand/v2"

	"github.com/louisbranch/turnout/internal/random"
)

func newStream(seed int64, scenario, worker int) *rand.Rand {
	return random.New(seed, random.Stream(scenario, worker))
}
