package meshcore

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ticksim/internal/packetarena"
)

// advance runs one packet through the merge-arbiter dispatch table for
// its current directionality tag. Returns true iff the packet already
// carries an exit tag on entry (set by a win on some earlier tick, once
// its arbiter delay has elapsed), making it ready for an immediate
// forward() attempt this same tick; false means the packet stays in the
// wait buffer -- whether because it just won an arbiter (re-tagged,
// arbiter delay pipeline still running) or lost one (unchanged, retried
// next tick).
func (c *Core) advance(p *packetarena.Packet) (isOutbound bool) {
	if p.Tag.IsExit() {
		return true
	}

	switch p.Tag {
	case packetarena.TagEastbound:
		return c.tryArbiter(p, packetarena.East, func() {
			c.resolveAxisExit(p, packetarena.TagEastExit, p.Dx != 0)
		})

	case packetarena.TagWestbound:
		return c.tryArbiter(p, packetarena.West, func() {
			c.resolveAxisExit(p, packetarena.TagWestExit, p.Dx != 0)
		})

	case packetarena.TagSouthbound, packetarena.TagSouth:
		return c.tryArbiter(p, packetarena.South, func() {
			c.resolveOrthogonalExit(p, packetarena.TagSouthExit, p.Dy != 0)
		})

	case packetarena.TagNorthbound, packetarena.TagNorth:
		return c.tryArbiter(p, packetarena.North, func() {
			c.resolveOrthogonalExit(p, packetarena.TagNorthExit, p.Dy != 0)
		})

	case packetarena.TagUpbound, packetarena.TagUp:
		return c.tryArbiter(p, packetarena.Up, func() {
			p.Tag = packetarena.TagUpExit
			p.RoutingDelay = c.arbiterDelay
		})

	case packetarena.TagDownbound, packetarena.TagDown:
		return c.tryArbiter(p, packetarena.Down, func() {
			p.Tag = packetarena.TagDownExit
			p.RoutingDelay = c.arbiterDelay
		})
	}

	return false
}

// tryArbiter attempts to seize the single-slot merge arbiter for dir.
// On a win, onWin sets the packet's new tag and its delay to the
// arbiter's pipeline latency; the packet is never forwarded this same
// tick -- it waits out that delay in the wait buffer, and only the next
// visit's top-of-advance exit check (once the delay has elapsed) allows
// a forward attempt. On a loss, the packet's delay resets to zero for an
// immediate retry next tick and the global delay counter is incremented.
func (c *Core) tryArbiter(p *packetarena.Packet, dir packetarena.Direction, onWin func()) bool {
	if c.arbiters[dir] != nil {
		p.RoutingDelay = 0
		c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosDelayIncurred, Item: p})
		return false
	}

	c.arbiters[dir] = p
	onWin()
	c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosArbiterWon, Item: p})

	return false
}

// resolveAxisExit handles the east/west merge's win branch: if the
// packet still has residual displacement along the axis it just won
// (dxNonZero), it exits along that axis; otherwise it becomes a
// corner-turn intermediate tagged by the sign of dy. Every branch keeps
// the arbiter's pipeline delay -- a win never shortcuts the wait, corner
// turn or not.
func (c *Core) resolveAxisExit(p *packetarena.Packet, exitTag packetarena.Tag, dxNonZero bool) {
	p.RoutingDelay = c.arbiterDelay
	switch {
	case dxNonZero:
		p.Tag = exitTag
	case p.Dy > 0:
		p.Tag = packetarena.TagNorth
	default:
		p.Tag = packetarena.TagSouth
	}
}

// resolveOrthogonalExit handles the north/south merge's win branch: exit
// along y if residual dy remains, else turn onto the z axis by sign of
// dz, else the packet has reached its destination (self-exit). Every
// branch keeps the arbiter's pipeline delay.
func (c *Core) resolveOrthogonalExit(p *packetarena.Packet, exitTag packetarena.Tag, dyNonZero bool) {
	p.RoutingDelay = c.arbiterDelay
	switch {
	case dyNonZero:
		p.Tag = exitTag
	case p.Dz > 0:
		p.Tag = packetarena.TagUp
	case p.Dz < 0:
		p.Tag = packetarena.TagDown
	default:
		p.Tag = packetarena.TagSelfExit
	}
}
