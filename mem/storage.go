package mem

import "fmt"

// A Storage keeps the bytes of the simulated physical memory.
//
// Storage manages its bytes in fixed-size units. Units that are never touched
// by Read or Write are not allocated, so a large address space stays cheap as
// long as only a few ranges are populated.
type Storage struct {
	unitSize uint64
	capacity uint64
	units    map[uint64][]byte
}

// NewStorage creates a Storage with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4096,
		capacity: capacity,
		units:    make(map[uint64][]byte),
	}
}

// Capacity returns the total number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr
	return
}

func (s *Storage) unitFor(addr uint64) []byte {
	baseAddr, _ := s.parseAddress(addr)

	unit, ok := s.units[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.units[baseAddr] = unit
	}

	return unit
}

// Read returns n bytes starting at address. Reading beyond the capacity is an
// error.
func (s *Storage) Read(address, n uint64) ([]byte, error) {
	// address > capacity must be checked first so that address+n cannot
	// wrap around and sneak past the guard.
	if address > s.capacity || n > s.capacity-address {
		return nil, fmt.Errorf(
			"reading %d bytes at 0x%x beyond storage capacity 0x%x",
			n, address, s.capacity)
	}

	res := make([]byte, n)
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < n {
		unit := s.unitFor(currAddr)
		baseAddr, inUnitAddr := s.parseAddress(currAddr)

		lenToRead := baseAddr + s.unitSize - currAddr
		if n-dataOffset < lenToRead {
			lenToRead = n - dataOffset
		}

		copy(res[dataOffset:dataOffset+lenToRead],
			unit[inUnitAddr:inUnitAddr+lenToRead])

		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}

// Write stores data starting at address. Writing beyond the capacity is an
// error and no byte is modified.
func (s *Storage) Write(address uint64, data []byte) error {
	n := uint64(len(data))
	if address > s.capacity || n > s.capacity-address {
		return fmt.Errorf(
			"writing %d bytes at 0x%x beyond storage capacity 0x%x",
			n, address, s.capacity)
	}

	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < n {
		unit := s.unitFor(currAddr)
		baseAddr, inUnitAddr := s.parseAddress(currAddr)

		lenToWrite := baseAddr + s.unitSize - currAddr
		if n-dataOffset < lenToWrite {
			lenToWrite = n - dataOffset
		}

		copy(unit[inUnitAddr:inUnitAddr+lenToWrite],
			data[dataOffset:dataOffset+lenToWrite])

		dataOffset += lenToWrite
		currAddr += lenToWrite
	}

	return nil
}
