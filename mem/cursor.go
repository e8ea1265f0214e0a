package mem

import "errors"

// A Cursor is a bounds-tracked position referencing exactly one element of a
// Buffer. It is the safe counterpart of a raw pointer: its address is always
// base + index*elemSize, and every move is expressed in element counts, never
// in raw bytes.
//
// A Cursor never owns the buffer it walks. Moves that would leave the valid
// index range fail with an OutOfBoundsError and leave the cursor where it
// was.
type Cursor struct {
	buf   *Buffer
	index int
}

// NewCursor returns a cursor positioned at element 0 of buf.
func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Index returns the element index the cursor currently references.
func (c *Cursor) Index() int {
	return c.index
}

// Addr returns the simulated address of the referenced element. The address
// is diagnostic only; it carries no ownership and cannot be dereferenced
// directly.
func (c *Cursor) Addr() uint64 {
	addr, err := c.buf.AddrOf(c.index)
	if err != nil {
		panic("cursor index out of bounds")
	}

	return addr
}

// Value returns the value of the referenced element. It has no side effects:
// repeated calls without an intervening Set or move return the same value.
func (c *Cursor) Value() (int64, error) {
	return c.buf.Load(c.index)
}

// Set overwrites the referenced element with v. The mutation is visible to
// every later Value call at this position.
func (c *Cursor) Set(v int64) error {
	return c.buf.Store(c.index, v)
}

// Advance moves the cursor to the next element. The address grows by exactly
// one element width. Advancing past the last valid element fails and the
// cursor does not move.
func (c *Cursor) Advance() error {
	return c.Seek(c.index + 1)
}

// Retreat moves the cursor to the previous element.
func (c *Cursor) Retreat() error {
	return c.Seek(c.index - 1)
}

// Seek moves the cursor to an absolute element index.
func (c *Cursor) Seek(index int) error {
	if index < 0 || index >= c.buf.Len() {
		return &OutOfBoundsError{Index: index, Length: c.buf.Len()}
	}

	c.index = index

	return nil
}

// Reset moves the cursor back to element 0.
func (c *Cursor) Reset() {
	c.index = 0
}

// Distance returns how many elements other is ahead of c. Like pointer
// difference in C, the result is an element count, not a byte count:
// cursors 0x1000 and 0x2000 apart over 4-byte elements are 0x400 elements
// apart. Cursors over different buffers do not compare.
func (c *Cursor) Distance(other *Cursor) (int, error) {
	if c.buf != other.buf {
		return 0, errors.New("cursors reference different buffers")
	}

	return other.index - c.index, nil
}
