package mmio

import (
	"encoding/binary"
	"fmt"

	"github.com/Aahrav/osdev/mem"
)

// VGA text mode geometry and the conventional mapping address.
const (
	VGABase = 0xB8000
	VGACols = 80
	VGARows = 25
)

// VGASize is the byte length of the text buffer: one uint16 cell per
// character, attribute in the high byte.
const VGASize = VGARows * VGACols * 2

// A VGADevice models the VGA text buffer. Each cell is attribute<<8 | char,
// so writing 0x0F00|'A' shows a white-on-black 'A'.
type VGADevice struct {
	storage *mem.Storage
}

// NewVGADevice creates a VGA text buffer device with all cells blank.
func NewVGADevice() *VGADevice {
	return &VGADevice{storage: mem.NewStorage(VGASize)}
}

// Name returns the device name.
func (d *VGADevice) Name() string {
	return "VGA"
}

// State reports the text buffer for monitoring: geometry plus the visible
// characters of each non-blank row.
func (d *VGADevice) State() any {
	rows := make(map[int]string)

	for row := 0; row < VGARows; row++ {
		line := make([]byte, 0, VGACols)
		blank := true

		for col := 0; col < VGACols; col++ {
			char, _, err := d.CharAt(row, col)
			if err != nil {
				panic(err)
			}

			if char == 0 {
				char = ' '
			} else {
				blank = false
			}
			line = append(line, char)
		}

		if !blank {
			rows[row] = string(line)
		}
	}

	return struct {
		Rows int
		Cols int
		Text map[int]string
	}{Rows: VGARows, Cols: VGACols, Text: rows}
}

// Read returns n bytes of the text buffer starting at offset.
func (d *VGADevice) Read(offset, n uint64) ([]byte, error) {
	if offset > VGASize || n > VGASize-offset {
		return nil, fmt.Errorf(
			"VGA read at offset 0x%x beyond buffer size 0x%x", offset, VGASize)
	}

	return d.storage.Read(offset, n)
}

// Write stores data into the text buffer starting at offset.
func (d *VGADevice) Write(offset uint64, data []byte) error {
	n := uint64(len(data))
	if offset > VGASize || n > VGASize-offset {
		return fmt.Errorf(
			"VGA write at offset 0x%x beyond buffer size 0x%x", offset, VGASize)
	}

	return d.storage.Write(offset, data)
}

// PutChar writes char with the given attribute byte at a row/column cell.
func (d *VGADevice) PutChar(row, col int, char byte, attr byte) error {
	offset, err := cellOffset(row, col)
	if err != nil {
		return err
	}

	cell := make([]byte, 2)
	binary.LittleEndian.PutUint16(cell, uint16(attr)<<8|uint16(char))

	return d.storage.Write(offset, cell)
}

// CharAt returns the character and attribute at a row/column cell.
func (d *VGADevice) CharAt(row, col int) (char byte, attr byte, err error) {
	offset, err := cellOffset(row, col)
	if err != nil {
		return 0, 0, err
	}

	data, err := d.storage.Read(offset, 2)
	if err != nil {
		return 0, 0, err
	}

	cell := binary.LittleEndian.Uint16(data)

	return byte(cell), byte(cell >> 8), nil
}

func cellOffset(row, col int) (uint64, error) {
	if row < 0 || row >= VGARows || col < 0 || col >= VGACols {
		return 0, fmt.Errorf("cell (%d, %d) outside %dx%d text buffer",
			row, col, VGARows, VGACols)
	}

	return uint64(row*VGACols+col) * 2, nil
}
