package workload

// ScriptedInjection pairs an Injection with the tick it is born at.
type ScriptedInjection struct {
	Tick int
	Injection
}

// ToyGenerator replays a fixed, small script of packets -- the toy
// workload used for scenario and regression testing, where every
// injection's tick, source, and displacement is known up front rather
// than drawn at random.
type ToyGenerator struct {
	byTick map[int][]Injection
}

// NewToyGenerator builds a ToyGenerator from an explicit script.
func NewToyGenerator(script []ScriptedInjection) *ToyGenerator {
	g := &ToyGenerator{byTick: make(map[int][]Injection)}
	for _, s := range script {
		g.byTick[s.Tick] = append(g.byTick[s.Tick], s.Injection)
	}
	return g
}

// Generate returns every injection scripted for this tick.
func (g *ToyGenerator) Generate(tick int) []Injection {
	return g.byTick[tick]
}

// SingleHop returns a one-packet toy script: one packet born at tick 0
// from the given source core with the given residual displacement.
// Mirrors the source's toy_run single-packet smoke scenarios.
func SingleHop(coreIndex, dx, dy, dz int) *ToyGenerator {
	return NewToyGenerator([]ScriptedInjection{
		{Tick: 0, Injection: Injection{CoreIndex: coreIndex, Dx: dx, Dy: dy, Dz: dz}},
	})
}
