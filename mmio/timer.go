package mmio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Timer register layout and the conventional mapping address.
const (
	TimerBase = 0xFFFF0000

	// TimerRegTicks is the read-only tick counter at offset 0.
	TimerRegTicks = 0x0

	// TimerRegCtrl is the write-only control register at offset 4. Any write
	// resets the counter.
	TimerRegCtrl = 0x4

	// TimerSize covers both registers.
	TimerSize = 8
)

// A TimerDevice models a free-running tick counter behind two registers: a
// read-only counter and a write-only reset control. Reading the counter or
// writing the control are the only legal accesses; the opposite directions
// fail the way real device registers do.
type TimerDevice struct {
	ticks uint32
}

// NewTimerDevice creates a timer with the counter at zero.
func NewTimerDevice() *TimerDevice {
	return &TimerDevice{}
}

// Name returns the device name.
func (d *TimerDevice) Name() string {
	return "Timer"
}

// Tick advances the counter by one.
func (d *TimerDevice) Tick() {
	d.ticks++
}

// Ticks returns the current counter value without going through the register
// file. Diagnostic only.
func (d *TimerDevice) Ticks() uint32 {
	return d.ticks
}

// State reports the timer for monitoring.
func (d *TimerDevice) State() any {
	return struct{ Ticks uint32 }{Ticks: d.ticks}
}

// Read returns the tick counter. Only a 4-byte read of the ticks register is
// legal; the control register is write-only.
func (d *TimerDevice) Read(offset, n uint64) ([]byte, error) {
	if offset == TimerRegCtrl {
		return nil, errors.New("timer control register is write-only")
	}

	if offset != TimerRegTicks || n != 4 {
		return nil, fmt.Errorf(
			"unsupported timer read at offset 0x%x, width %d", offset, n)
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, d.ticks)

	return data, nil
}

// Write resets the counter. Only a 4-byte write to the control register is
// legal; the ticks register is read-only.
func (d *TimerDevice) Write(offset uint64, data []byte) error {
	if offset == TimerRegTicks {
		return errors.New("timer ticks register is read-only")
	}

	if offset != TimerRegCtrl || len(data) != 4 {
		return fmt.Errorf(
			"unsupported timer write at offset 0x%x, width %d",
			offset, len(data))
	}

	d.ticks = 0

	return nil
}
