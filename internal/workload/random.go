package workload

import "math/rand"

// NeuronsPerCore is the number of simulated spiking neurons mapped onto
// each core for the random workload, matching the source's neuron-to-
// core density used by random_firestorm.
const NeuronsPerCore = 256

// RandomGenerator models a spiking-neuron storm: every tick, every
// neuron on every core independently spikes with probability
// Probability, and each spike becomes one packet with a random
// dimension-order displacement whose per-axis magnitude averages
// Distance.
type RandomGenerator struct {
	Dimensions  int
	NumCores    int
	Probability float64
	Distance    int
	Rand        *rand.Rand
}

// NewRandomGenerator builds a firestorm generator. rng must be supplied
// by the caller (e.g. the simulator's single seeded source) so that the
// whole run replays deterministically for a given seed, per spec §9.
func NewRandomGenerator(dimensions, numCores int, probability float64, distance int, rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{
		Dimensions:  dimensions,
		NumCores:    numCores,
		Probability: probability,
		Distance:    distance,
		Rand:        rng,
	}
}

// Generate draws NeuronsPerCore independent Bernoulli trials per core
// and emits one Injection per spike, with a random signed per-axis
// displacement averaging Distance in magnitude.
func (g *RandomGenerator) Generate(tick int) []Injection {
	var out []Injection

	for core := 0; core < g.NumCores; core++ {
		for n := 0; n < NeuronsPerCore; n++ {
			if g.Rand.Float64() >= g.Probability {
				continue
			}

			dx := g.randomAxisDelta()
			dy := g.randomAxisDelta()
			dz := 0
			if g.Dimensions == 3 {
				dz = g.randomAxisDelta()
			}

			out = append(out, Injection{CoreIndex: core, Dx: dx, Dy: dy, Dz: dz})
		}
	}

	return out
}

// randomAxisDelta returns a signed magnitude uniformly drawn from
// [1, 2*Distance-1], averaging Distance in absolute value, with a
// random sign. Distance <= 0 collapses to 0 (no displacement on that
// axis).
func (g *RandomGenerator) randomAxisDelta() int {
	if g.Distance <= 0 {
		return 0
	}

	magnitude := 1 + g.Rand.Intn(2*g.Distance-1)
	if g.Rand.Intn(2) == 0 {
		return magnitude
	}
	return -magnitude
}
