// Package simulator drives the tick-stepped event loop: it decrements
// wire delays, hops expired packets into downstream cores, routes and
// sends out every touched core in the order spec'd, and tracks the
// running population and delay statistics.
package simulator

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/sarchlab/ticksim/internal/packetarena"
	"github.com/sarchlab/ticksim/internal/topology"
	"github.com/sarchlab/ticksim/internal/wire"
	"github.com/sarchlab/ticksim/internal/workload"
)

// Simulator owns one mesh, one packet arena, one workload generator, and
// the single seeded random source used for per-tick shuffling and
// (indirectly, via the generator) random workload draws.
type Simulator struct {
	Mesh      *topology.Mesh
	Arena     *packetarena.Arena
	Generator workload.Generator
	Rand      *rand.Rand
	Logger    *slog.Logger
	Out       io.Writer

	Stats Stats

	tick int
	live map[uint64]*packetarena.Packet
}

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.Logger = l }
}

// WithOutput overrides the default os.Stdout destination for required
// console lines (tick markers, packet-loss notices).
func WithOutput(w io.Writer) Option {
	return func(s *Simulator) { s.Out = w }
}

// New builds a Simulator over the given mesh and workload generator,
// seeded with the given random source (construct it with rand.New for
// reproducible runs, per spec §9).
func New(mesh *topology.Mesh, gen workload.Generator, rng *rand.Rand, opts ...Option) *Simulator {
	s := &Simulator{
		Mesh:      mesh,
		Arena:     packetarena.NewArena(),
		Generator: gen,
		Rand:      rng,
		Logger:    slog.Default(),
		Out:       os.Stdout,
		live:      make(map[uint64]*packetarena.Packet),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.installHooks()
	return s
}

// Tick returns the current global tick counter: the index of the next
// tick to run, which equals the number of ticks run so far (after Run
// returns, one past the last tick run).
func (s *Simulator) Tick() int {
	return s.tick
}

// Run advances the simulator for up to maxTicks ticks, or until the live
// packet set is empty, whichever comes first.
func (s *Simulator) Run(maxTicks int) {
	for t := 0; t < maxTicks; t++ {
		s.Step()
		if len(s.live) == 0 {
			break
		}
	}
}

// Step advances the simulator by exactly one tick, implementing the
// seven-step algorithm of spec §4.6 in order.
func (s *Simulator) Step() {
	if s.tick%10 == 0 {
		fmt.Fprintln(s.Out, s.tick)
	}

	// Step 1: ask the workload generator for packets born this tick.
	s.injectBirths()

	// Step 2: decrement the routing delay of every wire-resident packet.
	for _, w := range s.Mesh.Wires {
		w.DecrementDelays()
	}

	// Step 3: build to_visit from live core work plus any wire packet
	// about to hop this tick.
	readyByWire := s.collectReadyWirePackets()
	toVisit := s.buildToVisit(readyByWire)

	// Step 4: hop every ready wire packet into its downstream core.
	s.hopReadyPackets(readyByWire)

	// Step 5: route every touched core, in list order.
	for _, id := range toVisit {
		s.Mesh.Cores[id].Route()
	}

	// Step 6: shuffle the visit order -- the simulator's sole source of
	// non-determinism.
	s.Rand.Shuffle(len(toVisit), func(i, j int) {
		toVisit[i], toVisit[j] = toVisit[j], toVisit[i]
	})

	// Step 7: send out every touched core, in the shuffled order.
	for _, id := range toVisit {
		s.Mesh.Cores[id].SendOut()
	}

	s.tick++
}

func (s *Simulator) injectBirths() {
	if s.Generator == nil {
		return
	}

	for _, inj := range s.Generator.Generate(s.tick) {
		p := s.Arena.NewPacket(inj.Dx, inj.Dy, inj.Dz, s.tick)
		s.Mesh.Cores[inj.CoreIndex].Inject(p)
		s.live[p.ID] = p

		s.Stats.Injected++
		s.Stats.TotalDistance += p.BirthDistance
	}
}

type readyWirePacket struct {
	wire      *wire.Wire
	channelIx int
}

func (s *Simulator) collectReadyWirePackets() []readyWirePacket {
	var ready []readyWirePacket
	for _, w := range s.Mesh.Wires {
		for _, ch := range w.ReadyPackets() {
			ready = append(ready, readyWirePacket{wire: w, channelIx: ch})
		}
	}
	return ready
}

func (s *Simulator) buildToVisit(ready []readyWirePacket) []int {
	visit := make([]bool, len(s.Mesh.Cores))
	for _, c := range s.Mesh.Cores {
		if c.HasLiveWork() {
			visit[c.ID] = true
		}
	}
	for _, r := range ready {
		visit[r.wire.DownstreamCoreID] = true
	}

	list := make([]int, 0, len(visit))
	for id, v := range visit {
		if v {
			list = append(list, id)
		}
	}
	return list
}

func (s *Simulator) hopReadyPackets(ready []readyWirePacket) {
	for _, r := range ready {
		p := r.wire.PacketAt(r.channelIx)
		if p == nil {
			continue
		}

		r.wire.Disassociate(p)
		s.advanceDisplacement(p, r.wire.Dir)
		p.Tag = packetarena.TagForDirection(r.wire.Dir)

		if r.wire.DownstreamCoreID < 0 {
			// Edge wire with no downstream core: drop per spec §4.6 step 4.
			delete(s.live, p.ID)
			s.Stats.DestroyedByEdge++
			continue
		}

		s.Mesh.Cores[r.wire.DownstreamCoreID].Inject(p)
	}
}

// advanceDisplacement decrements the residual displacement component
// that corresponds to the wire's direction of travel, moving it one
// step toward zero.
func (s *Simulator) advanceDisplacement(p *packetarena.Packet, dir packetarena.Direction) {
	switch dir {
	case packetarena.East:
		p.Dx--
	case packetarena.West:
		p.Dx++
	case packetarena.North:
		p.Dy--
	case packetarena.South:
		p.Dy++
	case packetarena.Up:
		p.Dz--
	case packetarena.Down:
		p.Dz++
	}
}
