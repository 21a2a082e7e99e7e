package meshcore

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ticksim/internal/packetarena"
)

// outSlot is one of a core's six outbound packet-out staging slots,
// each with N_CHANNELS capacity, backed by an akita sim.Buffer -- the
// same capacity-bounded container the teacher lineage uses for port
// send/receive queues.
type outSlot struct {
	buf sim.Buffer
}

func newOutSlot(name string, capacity int) *outSlot {
	return &outSlot{buf: sim.NewBuffer(name, capacity)}
}

// IsClear reports whether the slot has room for at least one more
// packet.
func (s *outSlot) IsClear() bool {
	return s.buf.CanPush()
}

// Add places a packet into the slot. Callers must check IsClear first;
// Add panics (via the underlying buffer) if the slot is full.
func (s *outSlot) Add(p *packetarena.Packet) {
	s.buf.Push(p)
}

// Flush removes and returns every packet currently staged in the slot,
// in FIFO order.
func (s *outSlot) Flush() []*packetarena.Packet {
	var out []*packetarena.Packet
	for {
		item := s.buf.Pop()
		if item == nil {
			break
		}
		out = append(out, item.(*packetarena.Packet))
	}
	return out
}

func outSlotName(coreName string, dir packetarena.Direction) string {
	return fmt.Sprintf("%s.OutSlot.%s", coreName, dir)
}
