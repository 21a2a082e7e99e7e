// Package topology assembles cores and wires into a 2D or 3D mesh.
package topology

import (
	"github.com/sarchlab/ticksim/internal/meshcore"
	"github.com/sarchlab/ticksim/internal/packetarena"
	"github.com/sarchlab/ticksim/internal/wire"
)

// Mesh is a flat, indexable grid of cores and the wires connecting them.
// A flat array beats per-cell pointer chasing for the kind of tight,
// repeated index arithmetic the simulator loop does every tick.
type Mesh struct {
	Cores      []*meshcore.Core
	Wires      []*wire.Wire
	Width      int
	Dimensions int
}

// CoreAt returns the core at grid coordinates (x, y, z). z is ignored
// (and must be 0) for a 2D mesh.
func (m *Mesh) CoreAt(x, y, z int) *meshcore.Core {
	return m.Cores[m.index(x, y, z)]
}

func (m *Mesh) index(x, y, z int) int {
	if m.Dimensions == 2 {
		return y*m.Width + x
	}
	return (z*m.Width+y)*m.Width + x
}

// Builder fluently configures and assembles a Mesh, mirroring the
// teacher lineage's device/core builder pattern.
type Builder struct {
	dimensions     int
	width          int
	channels       int
	transitLatency int
	entryDelay     int
	arbiterDelay   int
}

// NewBuilder returns a Builder preset to the spec's default constants:
// a 2D mesh, one channel per wire/out_slot, 1-tick transit latency,
// 2-tick entry delay, 6-tick arbiter delay.
func NewBuilder() *Builder {
	return &Builder{
		dimensions:     2,
		channels:       1,
		transitLatency: 1,
		entryDelay:     meshcore.DefaultEntryDelay,
		arbiterDelay:   meshcore.DefaultArbiterDelay,
	}
}

// WithDimensions sets the mesh to 2 or 3 dimensions.
func (b *Builder) WithDimensions(d int) *Builder {
	b.dimensions = d
	return b
}

// WithWidth sets the mesh's per-axis width W (W cores per row/column/
// layer).
func (b *Builder) WithWidth(w int) *Builder {
	b.width = w
	return b
}

// WithChannels sets N_CHANNELS for every wire and out_slot in the mesh.
func (b *Builder) WithChannels(n int) *Builder {
	b.channels = n
	return b
}

// WithTransitLatency sets the fixed wire transit latency.
func (b *Builder) WithTransitLatency(n int) *Builder {
	b.transitLatency = n
	return b
}

// WithEntryDelay sets the core entry delay applied on injection.
func (b *Builder) WithEntryDelay(n int) *Builder {
	b.entryDelay = n
	return b
}

// WithArbiterDelay sets the pipeline delay applied on winning a merge
// arbiter.
func (b *Builder) WithArbiterDelay(n int) *Builder {
	b.arbiterDelay = n
	return b
}

// Build assembles the mesh: cores first, in row-major (2D) or
// layer-major (3D, z=0 at the top) order, then wires. Each adjacent pair
// of cores along an axis shares one wire per direction of travel (so
// two wires per edge per axis: one each way) -- allocated exactly once,
// when the lower-indexed cell of the pair is visited, and assigned by
// matching direction index on both termini (spec §4.7, §3's Topology
// invariant).
func (b *Builder) Build() *Mesh {
	layers := 1
	if b.dimensions == 3 {
		layers = b.width
	}

	m := &Mesh{Width: b.width, Dimensions: b.dimensions}
	m.Cores = make([]*meshcore.Core, b.width*b.width*layers)

	for z := 0; z < layers; z++ {
		for y := 0; y < b.width; y++ {
			for x := 0; x < b.width; x++ {
				idx := m.index(x, y, z)
				m.Cores[idx] = meshcore.New(idx, x, y, z, b.channels, b.entryDelay, b.arbiterDelay)
			}
		}
	}

	nextWireID := 0
	newWire := func(fromID, toID int, dir packetarena.Direction) *wire.Wire {
		w := wire.New(nextWireID, b.channels, b.transitLatency, fromID, toID, dir)
		nextWireID++
		m.Wires = append(m.Wires, w)
		return w
	}

	for z := 0; z < layers; z++ {
		for y := 0; y < b.width; y++ {
			for x := 0; x < b.width; x++ {
				c := m.CoreAt(x, y, z)

				if x+1 < b.width {
					e := m.CoreAt(x+1, y, z)
					wOut := newWire(c.ID, e.ID, packetarena.East)
					c.OutWires[packetarena.East] = wOut
					e.InWires[packetarena.East] = wOut

					wBack := newWire(e.ID, c.ID, packetarena.West)
					e.OutWires[packetarena.West] = wBack
					c.InWires[packetarena.West] = wBack
				}

				if y+1 < b.width {
					s := m.CoreAt(x, y+1, z)
					wOut := newWire(c.ID, s.ID, packetarena.South)
					c.OutWires[packetarena.South] = wOut
					s.InWires[packetarena.South] = wOut

					wBack := newWire(s.ID, c.ID, packetarena.North)
					s.OutWires[packetarena.North] = wBack
					c.InWires[packetarena.North] = wBack
				}

				if b.dimensions == 3 && z+1 < layers {
					d := m.CoreAt(x, y, z+1)
					wOut := newWire(c.ID, d.ID, packetarena.Down)
					c.OutWires[packetarena.Down] = wOut
					d.InWires[packetarena.Down] = wOut

					wBack := newWire(d.ID, c.ID, packetarena.Up)
					d.OutWires[packetarena.Up] = wBack
					c.InWires[packetarena.Up] = wBack
				}
			}
		}
	}

	return m
}
