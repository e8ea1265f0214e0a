package mmio

// A Register is a handle bound to one fixed absolute address in an address
// space. It exposes read and write only; there is no way to derive a handle
// at a neighboring address from it.
type Register struct {
	space *AddressSpace
	addr  uint64
}

// NewRegister binds a 32-bit register handle at addr.
func NewRegister(space *AddressSpace, addr uint64) *Register {
	return &Register{space: space, addr: addr}
}

// Addr returns the fixed address the register is bound to. Diagnostic only.
func (r *Register) Addr() uint64 {
	return r.addr
}

// Read returns the current 32-bit value of the register.
func (r *Register) Read() (uint32, error) {
	return r.space.Read32(r.addr)
}

// Write stores a 32-bit value into the register.
func (r *Register) Write(v uint32) error {
	return r.space.Write32(r.addr, v)
}

// A Register16 is a 16-bit register handle, used for VGA text cells.
type Register16 struct {
	space *AddressSpace
	addr  uint64
}

// NewRegister16 binds a 16-bit register handle at addr.
func NewRegister16(space *AddressSpace, addr uint64) *Register16 {
	return &Register16{space: space, addr: addr}
}

// Addr returns the fixed address the register is bound to.
func (r *Register16) Addr() uint64 {
	return r.addr
}

// Read returns the current 16-bit value of the register.
func (r *Register16) Read() (uint16, error) {
	return r.space.Read16(r.addr)
}

// Write stores a 16-bit value into the register.
func (r *Register16) Write(v uint16) error {
	return r.space.Write16(r.addr, v)
}
