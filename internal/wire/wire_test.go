package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ticksim/internal/packetarena"
	"github.com/sarchlab/ticksim/internal/wire"
)

var _ = Describe("Wire", func() {
	var (
		w     *wire.Wire
		arena *packetarena.Arena
	)

	BeforeEach(func() {
		arena = packetarena.NewArena()
		w = wire.New(0, 1, 3, 10, 20, packetarena.East)
	})

	It("is clear when empty", func() {
		Expect(w.IsClear()).To(BeTrue())
	})

	It("injects into the first empty channel and sets parent/delay", func() {
		p := arena.NewPacket(4, 0, 0, 0)
		blocked := w.Inject(p)

		Expect(blocked).To(BeNil())
		Expect(p.Parent.Kind).To(Equal(packetarena.ParentWire))
		Expect(p.Parent.WireID).To(Equal(0))
		Expect(p.RoutingDelay).To(Equal(3))
		Expect(w.IsClear()).To(BeFalse())
	})

	It("refuses injection once full and returns the packet unchanged", func() {
		p1 := arena.NewPacket(4, 0, 0, 0)
		p2 := arena.NewPacket(4, 0, 0, 0)

		Expect(w.Inject(p1)).To(BeNil())
		blocked := w.Inject(p2)
		Expect(blocked).To(Equal(p2))
	})

	It("disassociates a packet, freeing its channel", func() {
		p := arena.NewPacket(4, 0, 0, 0)
		w.Inject(p)
		w.Disassociate(p)

		Expect(w.IsClear()).To(BeTrue())
	})

	It("decrements delay floored at zero and reports ready packets", func() {
		p := arena.NewPacket(4, 0, 0, 0)
		w.Inject(p)

		w.DecrementDelays()
		w.DecrementDelays()
		Expect(w.ReadyPackets()).To(BeEmpty())

		w.DecrementDelays()
		Expect(w.ReadyPackets()).To(Equal([]int{0}))

		w.DecrementDelays()
		Expect(p.RoutingDelay).To(Equal(0))
	})

	It("never exceeds N_CHANNELS packets", func() {
		multi := wire.New(1, 2, 1, 0, 1, packetarena.East)
		p1 := arena.NewPacket(1, 0, 0, 0)
		p2 := arena.NewPacket(1, 0, 0, 0)
		p3 := arena.NewPacket(1, 0, 0, 0)

		Expect(multi.Inject(p1)).To(BeNil())
		Expect(multi.Inject(p2)).To(BeNil())
		Expect(multi.Inject(p3)).To(Equal(p3))
		Expect(multi.Capacity()).To(Equal(2))
	})
})
