// Package mem models raw-pointer semantics safely: a Storage simulates
// physical memory, a Buffer is a fixed-width integer sequence placed at an
// address inside it, and a Cursor is a bounds-checked pointer whose
// arithmetic is scaled by the element width.
package mem
