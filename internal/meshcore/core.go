// Package meshcore implements the routing node of the mesh: entry
// buffering, merge-block arbitration, directional forwarding, and the
// send queues that feed packets back out onto wires.
package meshcore

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ticksim/internal/packetarena"
	"github.com/sarchlab/ticksim/internal/wire"
)

// Hook positions external observers (reports, monitors, tests) can
// subscribe to without this package depending on them.
var (
	// HookPosPacketLost marks a packet destroyed because its required
	// outbound direction has no wire (edge loss).
	HookPosPacketLost = &sim.HookPos{Name: "Core Packet Lost"}
	// HookPosPacketArrived marks a packet destroyed at its destination.
	HookPosPacketArrived = &sim.HookPos{Name: "Core Packet Arrived"}
	// HookPosArbiterWon marks a packet winning a merge-block arbiter.
	HookPosArbiterWon = &sim.HookPos{Name: "Core Arbiter Won"}
	// HookPosDelayIncurred marks a lost arbiter contest, a forward from
	// the wait buffer that blocks, or a failed wire injection in
	// SendOut -- the events that increment the global delay counter. A
	// send-buffer packet whose retried forward blocks again does not
	// fire it.
	HookPosDelayIncurred = &sim.HookPos{Name: "Core Delay Incurred"}
)

// Default pipeline constants (spec §6's wire/core constants table).
const (
	DefaultEntryDelay   = 2
	DefaultArbiterDelay = 6
)

// Core is a routing node with up to six input wires and six output
// wires, a wait-buffer, a send-buffer, six merge-block arbiters, and six
// outbound staging slots.
type Core struct {
	*sim.HookableBase

	ID         int
	X, Y, Z    int
	EntryDelay int

	arbiterDelay int

	InWires  [6]*wire.Wire
	OutWires [6]*wire.Wire

	waitBuffer []*packetarena.Packet
	sendBuffer []*packetarena.Packet
	outSlots   [6]*outSlot
	arbiters   [6]*packetarena.Packet
}

// New creates a core at the given grid coordinates (z is 0 for a 2D
// mesh), with N_CHANNELS-capacity out_slots and the given entry/arbiter
// delays.
func New(id, x, y, z, outSlotChannels, entryDelay, arbiterDelay int) *Core {
	c := &Core{
		HookableBase: sim.NewHookableBase(),
		ID:           id,
		X:            x,
		Y:            y,
		Z:            z,
		EntryDelay:   entryDelay,
		arbiterDelay: arbiterDelay,
	}
	name := c.Name()
	for d := packetarena.North; d <= packetarena.Down; d++ {
		c.outSlots[d] = newOutSlot(outSlotName(name, d), outSlotChannels)
	}
	return c
}

// Name satisfies sim.Named.
func (c *Core) Name() string {
	return fmt.Sprintf("Core(%d,%d,%d)", c.X, c.Y, c.Z)
}

// HasLiveWork reports whether this core currently owns any packet (used
// by the simulator to decide whether a core belongs in to_visit).
func (c *Core) HasLiveWork() bool {
	if len(c.waitBuffer) > 0 || len(c.sendBuffer) > 0 {
		return true
	}
	for _, a := range c.arbiters {
		if a != nil {
			return true
		}
	}
	for _, s := range c.outSlots {
		if s.buf.Size() > 0 {
			return true
		}
	}
	return false
}

// Inject places a newly-arrived packet into the wait buffer with a fresh
// entry delay. Used both by workload generators (for packets born at
// this core) and by the simulator's wire-to-core hop step.
func (c *Core) Inject(p *packetarena.Packet) {
	p.Parent = packetarena.InCoreBuffer(c.ID, packetarena.BufferWait)
	p.RoutingDelay = c.EntryDelay
	c.waitBuffer = append(c.waitBuffer, p)
}

// Route advances this core's internal pipeline by exactly one tick:
// drain send_buffer into forward(), scan wait_buffer advancing each
// eligible packet through its merge arbiter, then clear all six merge
// arbiter slots.
func (c *Core) Route() {
	c.drainSendBuffer()
	c.scanWaitBuffer()
	c.clearArbiters()
}

func (c *Core) drainSendBuffer() {
	pending := c.sendBuffer
	c.sendBuffer = nil
	for _, p := range pending {
		if blocked := c.forward(p, false); blocked != nil {
			c.requeueToSend(blocked)
		}
	}
}

func (c *Core) scanWaitBuffer() {
	snapshot := c.waitBuffer
	c.waitBuffer = nil
	for _, p := range snapshot {
		if p.RoutingDelay > 0 {
			p.RoutingDelay--
			c.requeueToWait(p)
			continue
		}

		if c.advance(p) {
			if blocked := c.forward(p, true); blocked != nil {
				c.requeueToSend(blocked)
			}
		} else {
			c.requeueToWait(p)
		}
	}
}

func (c *Core) clearArbiters() {
	for i := range c.arbiters {
		c.arbiters[i] = nil
	}
}

func (c *Core) requeueToWait(p *packetarena.Packet) {
	p.Parent = packetarena.InCoreBuffer(c.ID, packetarena.BufferWait)
	c.waitBuffer = append(c.waitBuffer, p)
}

func (c *Core) requeueToSend(p *packetarena.Packet) {
	p.Parent = packetarena.InCoreBuffer(c.ID, packetarena.BufferSend)
	c.sendBuffer = append(c.sendBuffer, p)
}

// forward attempts to place p into the out_slot for its residual
// displacement's leading direction. Returns nil if the packet was
// destroyed (arrival or edge loss) or staged successfully; returns p
// unchanged if the attempt is blocked, in which case the caller must
// re-append it to the send buffer. countDelay gates whether a block
// here increments the global delay counter: the wait-buffer path counts
// it, the send-buffer re-drain does not (it's the same packet's block
// being retried, not a fresh stall).
func (c *Core) forward(p *packetarena.Packet, countDelay bool) *packetarena.Packet {
	if p.AtDestination() {
		p.Parent = packetarena.NoParent
		c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosPacketArrived, Item: p})
		return nil
	}

	dir := packetarena.OutDirection(p.Dx, p.Dy, p.Dz)
	outWire := c.OutWires[dir]
	if outWire == nil {
		p.Parent = packetarena.NoParent
		c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosPacketLost, Item: p})
		return nil
	}

	slot := c.outSlots[dir]
	if outWire.IsClear() && slot.IsClear() {
		slot.Add(p)
		p.Parent = packetarena.InCoreOutSlot(c.ID, dir)
		return nil
	}

	if countDelay {
		c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosDelayIncurred, Item: p})
	}
	return p
}

// SendOut flushes every out_slot into its outbound wire. Any packet
// whose wire injection fails (wire full) is re-staged in the slot and
// counted as a delay.
func (c *Core) SendOut() {
	for d := packetarena.North; d <= packetarena.Down; d++ {
		outWire := c.OutWires[d]
		if outWire == nil {
			continue
		}

		slot := c.outSlots[d]
		packets := slot.Flush()
		for _, p := range packets {
			if blocked := outWire.Inject(p); blocked != nil {
				slot.Add(blocked)
				blocked.Parent = packetarena.InCoreOutSlot(c.ID, d)
				c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosDelayIncurred, Item: blocked})
			}
		}
	}
}
