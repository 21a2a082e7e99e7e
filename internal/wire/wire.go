// Package wire implements the unidirectional, fixed-latency link between
// two neighboring cores.
package wire

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ticksim/internal/packetarena"
)

// HookPosPacketInjected marks a packet entering a wire channel.
var HookPosPacketInjected = &sim.HookPos{Name: "Wire Packet Injected"}

// HookPosPacketDisassociated marks a packet leaving a wire channel,
// either by hopping into a downstream core or by edge loss.
var HookPosPacketDisassociated = &sim.HookPos{Name: "Wire Packet Disassociated"}

// Wire is a unidirectional link carrying at most capacity packets at
// once, each independently counting down its own remaining transit
// latency. Channel index is tracked explicitly (rather than via an
// opaque FIFO) because a packet's Parent back-reference names the
// channel it occupies, and because Inject must mutate the backing slot
// by index -- a loop variable rebind here would silently drop the
// packet instead of storing it.
type Wire struct {
	*sim.HookableBase

	ID int

	TransitLatency int
	channels       []*packetarena.Packet

	UpstreamCoreID   int
	DownstreamCoreID int
	// Dir is the direction, from the upstream core's point of view, that
	// this wire points. An edge-facing Wire is represented by a nil
	// pointer at the topology level, not a zero-value Wire.
	Dir Direction
}

// Direction mirrors packetarena.Direction; re-exported so callers of this
// package don't need to import packetarena just to name a direction.
type Direction = packetarena.Direction

// New creates a wire with the given number of channels and fixed transit
// latency, linking the given upstream/downstream core IDs.
func New(id, channels, transitLatency, upstreamCoreID, downstreamCoreID int, dir Direction) *Wire {
	return &Wire{
		HookableBase:     sim.NewHookableBase(),
		ID:               id,
		TransitLatency:   transitLatency,
		channels:         make([]*packetarena.Packet, channels),
		UpstreamCoreID:   upstreamCoreID,
		DownstreamCoreID: downstreamCoreID,
		Dir:              dir,
	}
}

// Capacity returns N_CHANNELS for this wire.
func (w *Wire) Capacity() int {
	return len(w.channels)
}

// IsClear reports whether at least one channel is empty.
func (w *Wire) IsClear() bool {
	for _, p := range w.channels {
		if p == nil {
			return true
		}
	}
	return false
}

// Inject places the packet in the first empty channel, sets its parent to
// this wire and channel index, and sets its routing delay to the transit
// latency. Returns nil on success, or the unchanged packet if the wire is
// full.
func (w *Wire) Inject(p *packetarena.Packet) *packetarena.Packet {
	for i := range w.channels {
		if w.channels[i] == nil {
			w.channels[i] = p
			p.Parent = packetarena.OnWire(w.ID, i)
			p.RoutingDelay = w.TransitLatency

			w.InvokeHook(sim.HookCtx{Domain: w, Pos: HookPosPacketInjected, Item: p})
			return nil
		}
	}
	return p
}

// Disassociate removes a packet from its channel, freeing it for the
// next Inject. Safe to call even if the packet is not currently on this
// wire's channel list (a no-op in that case).
func (w *Wire) Disassociate(p *packetarena.Packet) {
	for i, ch := range w.channels {
		if ch == p {
			w.channels[i] = nil
			w.InvokeHook(sim.HookCtx{Domain: w, Pos: HookPosPacketDisassociated, Item: p})
			return
		}
	}
}

// DecrementDelays decrements the routing delay (floored at 0) of every
// packet currently resident on this wire. Called once per tick, for
// every wire, before any wire-to-core hops happen (spec step 2).
func (w *Wire) DecrementDelays() {
	for _, p := range w.channels {
		if p == nil {
			continue
		}
		if p.RoutingDelay > 0 {
			p.RoutingDelay--
		}
	}
}

// ReadyPackets returns the channel index of every channel-resident
// packet whose routing delay has reached zero -- i.e. every packet ready
// to hop into the downstream core this tick. Use PacketAt to fetch the
// packet itself.
func (w *Wire) ReadyPackets() []int {
	var ready []int
	for i, p := range w.channels {
		if p != nil && p.RoutingDelay == 0 {
			ready = append(ready, i)
		}
	}
	return ready
}

// PacketAt returns the packet occupying the given channel index, or nil.
func (w *Wire) PacketAt(channelIx int) *packetarena.Packet {
	return w.channels[channelIx]
}

// Name satisfies sim.Named for hook registration and logging.
func (w *Wire) Name() string {
	return fmt.Sprintf("Wire-%d", w.ID)
}
