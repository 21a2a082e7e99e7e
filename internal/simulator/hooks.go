package simulator

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ticksim/internal/meshcore"
	"github.com/sarchlab/ticksim/internal/packetarena"
)

// statsHook is installed on every core in the mesh and updates the
// simulator's running Stats and live-packet set from the hook positions
// meshcore fires during Route/SendOut, instead of threading accounting
// logic through the routing pipeline itself.
type statsHook struct {
	sim *Simulator
}

// Func implements sim.Hook.
func (h *statsHook) Func(ctx sim.HookCtx) {
	p, ok := ctx.Item.(*packetarena.Packet)
	if !ok {
		return
	}

	switch ctx.Pos {
	case meshcore.HookPosPacketArrived:
		h.sim.Stats.DestroyedByArrival++
		delete(h.sim.live, p.ID)
		h.sim.Logger.Debug("packet arrived", "packet", p.ID)

	case meshcore.HookPosPacketLost:
		h.sim.Stats.DestroyedByEdge++
		delete(h.sim.live, p.ID)
		fmt.Fprintf(h.sim.Out, "Packet %d was lost\n", p.ID)

	case meshcore.HookPosDelayIncurred:
		h.sim.Stats.TotalDelay++

	case meshcore.HookPosArbiterWon:
		h.sim.Stats.ArbiterWins++
		h.sim.Logger.Debug("arbiter won", "packet", p.ID, "tag", string(p.Tag))
	}
}

func (s *Simulator) installHooks() {
	hook := &statsHook{sim: s}
	for _, c := range s.Mesh.Cores {
		c.AcceptHook(hook)
	}
}
