package mmio

import (
	"encoding/binary"
	"fmt"

	"github.com/Aahrav/osdev/hooking"
)

// HookPosBeforeAccess is triggered right before an address space access
// reaches a device.
var HookPosBeforeAccess = &hooking.HookPos{Name: "BeforeAccess"}

// HookPosAfterAccess is triggered right after an address space access
// completed.
var HookPosAfterAccess = &hooking.HookPos{Name: "AfterAccess"}

// An AccessDetail describes one device access. It is passed to hooks as the
// Detail of the HookCtx.
type AccessDetail struct {
	Kind   string // "read" or "write"
	Addr   uint64
	Width  uint64
	Value  uint64
	Device string
}

// An UnmappedError reports an access to an address that no device is mapped
// at.
type UnmappedError struct {
	Addr uint64
}

func (e *UnmappedError) Error() string {
	return fmt.Sprintf("no device mapped at address 0x%x", e.Addr)
}

// An AddressSpace routes absolute addresses to the devices mapped into it.
type AddressSpace struct {
	hooking.HookableBase

	mappings []Mapping
}

// NewAddressSpace creates an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{}
}

// Map binds dev to [start, start+length). Overlapping an existing mapping is
// a programmer error and panics.
func (as *AddressSpace) Map(start, length uint64, dev Device) {
	m := Mapping{Start: start, Length: length, Device: dev}

	for _, existing := range as.mappings {
		if m.overlaps(existing) {
			panic(fmt.Sprintf(
				"mapping [0x%x, 0x%x) for %s overlaps existing mapping of %s",
				start, start+length, dev.Name(), existing.Device.Name()))
		}
	}

	as.mappings = append(as.mappings, m)
}

// Mappings returns the current device mappings.
func (as *AddressSpace) Mappings() []Mapping {
	return as.mappings
}

func (as *AddressSpace) lookup(addr, n uint64) (Mapping, error) {
	for _, m := range as.mappings {
		if m.contains(addr, n) {
			return m, nil
		}
	}

	return Mapping{}, &UnmappedError{Addr: addr}
}

// Read16 reads a 16-bit value at an absolute address.
func (as *AddressSpace) Read16(addr uint64) (uint16, error) {
	data, err := as.read(addr, 2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(data), nil
}

// Read32 reads a 32-bit value at an absolute address.
func (as *AddressSpace) Read32(addr uint64) (uint32, error) {
	data, err := as.read(addr, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// Write16 writes a 16-bit value at an absolute address.
func (as *AddressSpace) Write16(addr uint64, v uint16) error {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)

	return as.write(addr, data, uint64(v))
}

// Write32 writes a 32-bit value at an absolute address.
func (as *AddressSpace) Write32(addr uint64, v uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, v)

	return as.write(addr, data, uint64(v))
}

func (as *AddressSpace) read(addr, n uint64) ([]byte, error) {
	m, err := as.lookup(addr, n)
	if err != nil {
		return nil, err
	}

	detail := AccessDetail{
		Kind:   "read",
		Addr:   addr,
		Width:  n,
		Device: m.Device.Name(),
	}
	as.InvokeHook(hooking.HookCtx{
		Domain: as,
		Pos:    HookPosBeforeAccess,
		Item:   as,
		Detail: detail,
	})

	data, err := m.Device.Read(addr-m.Start, n)
	if err != nil {
		return nil, err
	}

	switch n {
	case 2:
		detail.Value = uint64(binary.LittleEndian.Uint16(data))
	case 4:
		detail.Value = uint64(binary.LittleEndian.Uint32(data))
	}
	as.InvokeHook(hooking.HookCtx{
		Domain: as,
		Pos:    HookPosAfterAccess,
		Item:   as,
		Detail: detail,
	})

	return data, nil
}

func (as *AddressSpace) write(addr uint64, data []byte, value uint64) error {
	m, err := as.lookup(addr, uint64(len(data)))
	if err != nil {
		return err
	}

	detail := AccessDetail{
		Kind:   "write",
		Addr:   addr,
		Width:  uint64(len(data)),
		Value:  value,
		Device: m.Device.Name(),
	}
	as.InvokeHook(hooking.HookCtx{
		Domain: as,
		Pos:    HookPosBeforeAccess,
		Item:   as,
		Detail: detail,
	})

	if err := m.Device.Write(addr-m.Start, data); err != nil {
		return err
	}

	as.InvokeHook(hooking.HookCtx{
		Domain: as,
		Pos:    HookPosAfterAccess,
		Item:   as,
		Detail: detail,
	})

	return nil
}
