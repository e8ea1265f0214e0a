package mmio

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TimerDevice", func() {
	var (
		space *AddressSpace
		timer *TimerDevice
		ticks *Register
		ctrl  *Register
	)

	BeforeEach(func() {
		space = NewAddressSpace()
		timer = NewTimerDevice()
		space.Map(TimerBase, TimerSize, timer)
		ticks = NewRegister(space, TimerBase+TimerRegTicks)
		ctrl = NewRegister(space, TimerBase+TimerRegCtrl)
	})

	It("should read the current tick count", func() {
		timer.Tick()
		timer.Tick()
		timer.Tick()

		v, err := ticks.Read()

		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(3)))
	})

	It("should reset the count on a control write", func() {
		timer.Tick()
		timer.Tick()

		Expect(ctrl.Write(1)).To(Succeed())

		v, err := ticks.Read()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0)))
	})

	It("should reject writes to the ticks register", func() {
		Expect(ticks.Write(42)).ToNot(Succeed())
	})

	It("should reject reads of the control register", func() {
		_, err := ctrl.Read()

		Expect(err).To(HaveOccurred())
	})
})
