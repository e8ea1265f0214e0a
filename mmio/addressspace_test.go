package mmio

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/Aahrav/osdev/hooking"
)

type capturingHook struct {
	ctxs []hooking.HookCtx
}

func (h *capturingHook) Func(ctx hooking.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("AddressSpace", func() {
	var (
		mockCtrl *gomock.Controller
		space    *AddressSpace
		dev      *MockDevice
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		dev = NewMockDevice(mockCtrl)
		space = NewAddressSpace()
		space.Map(0x1000, 0x100, dev)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should route reads to the mapped device with a relative offset",
		func() {
			dev.EXPECT().Name().Return("Dev").AnyTimes()
			dev.EXPECT().
				Read(uint64(0x40), uint64(4)).
				Return([]byte{0x0A, 0x00, 0x00, 0x00}, nil)

			v, err := space.Read32(0x1040)

			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint32(10)))
		})

	It("should route writes to the mapped device", func() {
		dev.EXPECT().Name().Return("Dev").AnyTimes()
		dev.EXPECT().
			Write(uint64(0x0), []byte{0x41, 0x0F}).
			Return(nil)

		err := space.Write16(0x1000, 0x0F41)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should fail with UnmappedError on an unmapped address", func() {
		_, err := space.Read32(0x9000)

		var unmapped *UnmappedError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &unmapped)).To(BeTrue())
		Expect(unmapped.Addr).To(Equal(uint64(0x9000)))
	})

	It("should fail when an access straddles the end of a mapping", func() {
		_, err := space.Read32(0x10FE)

		Expect(err).To(HaveOccurred())
	})

	It("should not treat an address that wraps around as mapped", func() {
		_, err := space.Read32(math.MaxUint64 - 1)

		var unmapped *UnmappedError
		Expect(errors.As(err, &unmapped)).To(BeTrue())
	})

	It("should panic when mappings overlap", func() {
		other := NewMockDevice(mockCtrl)
		dev.EXPECT().Name().Return("Dev").AnyTimes()
		other.EXPECT().Name().Return("Other").AnyTimes()

		Expect(func() {
			space.Map(0x10FF, 0x10, other)
		}).To(Panic())
	})

	It("should invoke hooks around accesses", func() {
		dev.EXPECT().Name().Return("Dev").AnyTimes()
		dev.EXPECT().
			Read(uint64(0x0), uint64(4)).
			Return([]byte{0x2A, 0x00, 0x00, 0x00}, nil)

		hook := &capturingHook{}
		space.AcceptHook(hook)

		_, err := space.Read32(0x1000)

		Expect(err).ToNot(HaveOccurred())
		Expect(hook.ctxs).To(HaveLen(2))
		Expect(hook.ctxs[0].Pos).To(Equal(HookPosBeforeAccess))
		Expect(hook.ctxs[1].Pos).To(Equal(HookPosAfterAccess))

		detail := hook.ctxs[1].Detail.(AccessDetail)
		Expect(detail.Kind).To(Equal("read"))
		Expect(detail.Addr).To(Equal(uint64(0x1000)))
		Expect(detail.Value).To(Equal(uint64(42)))
		Expect(detail.Device).To(Equal("Dev"))
	})
})
