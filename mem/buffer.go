package mem

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Aahrav/osdev/hooking"
)

// Supported element widths in bytes.
const (
	Width8  = 1
	Width16 = 2
	Width32 = 4
	Width64 = 8
)

// HookPosBeforeAccess is triggered right before a buffer element is loaded or
// stored.
var HookPosBeforeAccess = &hooking.HookPos{Name: "BeforeAccess"}

// HookPosAfterAccess is triggered right after a buffer element is loaded or
// stored.
var HookPosAfterAccess = &hooking.HookPos{Name: "AfterAccess"}

// An AccessDetail describes one element access. It is passed to hooks as the
// Detail of the HookCtx.
type AccessDetail struct {
	Kind  string // "load" or "store"
	Addr  uint64
	Index int
	Width uint64
	Value int64
}

// An OutOfBoundsError reports an access to an element index outside the valid
// range of a buffer.
type OutOfBoundsError struct {
	Index  int
	Length int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds, buffer has %d elements",
		e.Index, e.Length)
}

// A Buffer is a fixed-length sequence of fixed-width signed integers placed
// at a base address inside a Storage. Elements are stored little-endian and
// sign-extended on load.
//
// A Buffer never grows or shrinks. All accesses are bounds-checked, so an
// index outside [0, Len()) fails with an OutOfBoundsError instead of touching
// adjacent memory.
type Buffer struct {
	hooking.HookableBase

	name     string
	storage  *Storage
	base     uint64
	elemSize uint64
	length   int
}

// NewBuffer places a buffer with the given element values at base inside
// storage. elemSize must be one of Width8, Width16, Width32, or Width64.
func NewBuffer(
	name string,
	storage *Storage,
	base uint64,
	elemSize uint64,
	values ...int64,
) (*Buffer, error) {
	switch elemSize {
	case Width8, Width16, Width32, Width64:
	default:
		panic(fmt.Sprintf("unsupported element width %d", elemSize))
	}

	// A buffer is created fully initialized; with no elements there is no
	// valid position for a cursor to ever hold.
	if len(values) == 0 {
		return nil, errors.New("buffer must contain at least one element")
	}

	b := &Buffer{
		name:     name,
		storage:  storage,
		base:     base,
		elemSize: elemSize,
		length:   len(values),
	}

	for i, v := range values {
		if err := b.put(i, v); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Name returns the name of the buffer.
func (b *Buffer) Name() string {
	return b.name
}

// Len returns the number of elements.
func (b *Buffer) Len() int {
	return b.length
}

// ElemSize returns the width of one element in bytes.
func (b *Buffer) ElemSize() uint64 {
	return b.elemSize
}

// Base returns the address of element 0.
func (b *Buffer) Base() uint64 {
	return b.base
}

// AddrOf returns the address of the element at index, which is always
// base + index*elemSize.
func (b *Buffer) AddrOf(index int) (uint64, error) {
	if index < 0 || index >= b.length {
		return 0, &OutOfBoundsError{Index: index, Length: b.length}
	}

	return b.base + uint64(index)*b.elemSize, nil
}

// Load returns the value of the element at index.
func (b *Buffer) Load(index int) (int64, error) {
	addr, err := b.AddrOf(index)
	if err != nil {
		return 0, err
	}

	detail := AccessDetail{
		Kind:  "load",
		Addr:  addr,
		Index: index,
		Width: b.elemSize,
	}
	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosBeforeAccess,
		Item:   b,
		Detail: detail,
	})

	data, err := b.storage.Read(addr, b.elemSize)
	if err != nil {
		return 0, err
	}

	v := decodeElem(data)

	detail.Value = v
	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosAfterAccess,
		Item:   b,
		Detail: detail,
	})

	return v, nil
}

// Store overwrites the element at index with v.
func (b *Buffer) Store(index int, v int64) error {
	addr, err := b.AddrOf(index)
	if err != nil {
		return err
	}

	detail := AccessDetail{
		Kind:  "store",
		Addr:  addr,
		Index: index,
		Width: b.elemSize,
		Value: v,
	}
	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosBeforeAccess,
		Item:   b,
		Detail: detail,
	})

	if err := b.put(index, v); err != nil {
		return err
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosAfterAccess,
		Item:   b,
		Detail: detail,
	})

	return nil
}

// Snapshot returns all element values without invoking hooks, so inspecting
// a buffer does not pollute its trace.
func (b *Buffer) Snapshot() []int64 {
	values := make([]int64, b.length)

	for i := range values {
		addr := b.base + uint64(i)*b.elemSize

		data, err := b.storage.Read(addr, b.elemSize)
		if err != nil {
			panic(err)
		}

		values[i] = decodeElem(data)
	}

	return values
}

// BufferState is the monitoring snapshot of a buffer.
type BufferState struct {
	Base     uint64
	ElemSize uint64
	Length   int
	Values   []int64
}

// State reports the buffer for monitoring.
func (b *Buffer) State() any {
	return BufferState{
		Base:     b.base,
		ElemSize: b.elemSize,
		Length:   b.length,
		Values:   b.Snapshot(),
	}
}

// put writes without invoking hooks. Initialization uses it so that tracers
// only see accesses made after construction.
func (b *Buffer) put(index int, v int64) error {
	addr := b.base + uint64(index)*b.elemSize

	data := make([]byte, b.elemSize)
	switch b.elemSize {
	case Width8:
		data[0] = byte(v)
	case Width16:
		binary.LittleEndian.PutUint16(data, uint16(v))
	case Width32:
		binary.LittleEndian.PutUint32(data, uint32(v))
	case Width64:
		binary.LittleEndian.PutUint64(data, uint64(v))
	}

	return b.storage.Write(addr, data)
}

func decodeElem(data []byte) int64 {
	switch len(data) {
	case Width8:
		return int64(int8(data[0]))
	case Width16:
		return int64(int16(binary.LittleEndian.Uint16(data)))
	case Width32:
		return int64(int32(binary.LittleEndian.Uint32(data)))
	case Width64:
		return int64(binary.LittleEndian.Uint64(data))
	default:
		panic(fmt.Sprintf("unsupported element width %d", len(data)))
	}
}
