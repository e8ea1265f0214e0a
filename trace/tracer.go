// Package trace turns memory and device accesses into trace output. Tracers
// are hooks: attach one to a mem.Buffer or an mmio.AddressSpace and every
// access flows through it.
package trace

import (
	"log"

	"github.com/Aahrav/osdev/datarecording"
	"github.com/Aahrav/osdev/hooking"
	"github.com/Aahrav/osdev/mem"
	"github.com/Aahrav/osdev/mmio"
	"github.com/rs/xid"
)

// AccessTableName is the table DBTracer records into.
const AccessTableName = "access_trace"

// An AccessRow is one recorded access. Buffer accesses fill Index; device
// accesses fill Device.
type AccessRow struct {
	ID     string
	Kind   string
	Addr   uint64
	Index  int
	Width  uint64
	Value  int64
	Device string
}

// A LogTracer is a hook that prints each completed access to a logger.
type LogTracer struct {
	*log.Logger
}

// NewLogTracer returns a LogTracer that writes into the given logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{Logger: logger}
}

// Func writes the access information into the logger.
func (t *LogTracer) Func(ctx hooking.HookCtx) {
	switch detail := ctx.Detail.(type) {
	case mem.AccessDetail:
		if ctx.Pos != mem.HookPosAfterAccess {
			return
		}
		t.Printf("%s [%d] @0x%x = %d",
			detail.Kind, detail.Index, detail.Addr, detail.Value)
	case mmio.AccessDetail:
		if ctx.Pos != mmio.HookPosAfterAccess {
			return
		}
		t.Printf("%s %s @0x%x = 0x%x",
			detail.Kind, detail.Device, detail.Addr, detail.Value)
	}
}

// A DBTracer is a hook that records each completed access through a
// DataRecorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and its table in the recorder.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	recorder.CreateTable(AccessTableName, AccessRow{})

	return &DBTracer{recorder: recorder}
}

// Func records the access information.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	switch detail := ctx.Detail.(type) {
	case mem.AccessDetail:
		if ctx.Pos != mem.HookPosAfterAccess {
			return
		}
		t.recorder.InsertData(AccessTableName, AccessRow{
			ID:    xid.New().String(),
			Kind:  detail.Kind,
			Addr:  detail.Addr,
			Index: detail.Index,
			Width: detail.Width,
			Value: detail.Value,
		})
	case mmio.AccessDetail:
		if ctx.Pos != mmio.HookPosAfterAccess {
			return
		}
		t.recorder.InsertData(AccessTableName, AccessRow{
			ID:     xid.New().String(),
			Kind:   detail.Kind,
			Addr:   detail.Addr,
			Width:  detail.Width,
			Value:  int64(detail.Value),
			Device: detail.Device,
		})
	}
}
