// Package mmio models memory-mapped I/O the way a kernel sees it, minus the
// unsafety: devices are mapped into an address space at fixed ranges, and
// registers are handles bound to one fixed address that expose read and write
// only. No pointer arithmetic is possible on a register handle.
package mmio

// A Device is anything that can be mapped into an AddressSpace. Offsets are
// relative to the start of the device's mapping.
type Device interface {
	Name() string
	Read(offset, n uint64) ([]byte, error)
	Write(offset uint64, data []byte) error
}

// A Mapping binds a device to the address range [Start, Start+Length).
type Mapping struct {
	Start  uint64
	Length uint64
	Device Device
}

func (m Mapping) contains(addr, n uint64) bool {
	// Subtractions keep the comparison overflow-free for addresses near the
	// top of the address space.
	if addr < m.Start || n > m.Length {
		return false
	}

	return addr-m.Start <= m.Length-n
}

func (m Mapping) overlaps(other Mapping) bool {
	return m.Start < other.Start+other.Length &&
		other.Start < m.Start+m.Length
}
