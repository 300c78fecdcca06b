package emulator

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestDebuggerPoints(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	debugger := NewDebugger()

	// adding the same address twice keeps a single entry
	debugger.AddBreakpoint(0xbfc00004)
	debugger.AddBreakpoint(0xbfc00004)
	assert(len(debugger.Breakpoints) == 1)

	debugger.AddReadWatchpoint(0x40)
	debugger.AddWriteWatchpoint(0x44)
	assert(len(debugger.ReadWatchpoints) == 1)
	assert(len(debugger.WriteWatchpoints) == 1)

	debugger.DeleteBreakpoint(0xbfc00004)
	debugger.DeleteReadWatchpoint(0x40)
	debugger.DeleteWriteWatchpoint(0x44)
	assert(len(debugger.Breakpoints) == 0)
	assert(len(debugger.ReadWatchpoints) == 0)
	assert(len(debugger.WriteWatchpoints) == 0)

	// deleting an unknown address is a no-op
	debugger.DeleteBreakpoint(0x1234)
}

func TestDebuggerHooks(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := testCPU(
		itype(0b100011, 0, 2, 0x40), // lw v0, 0x40(r0)
		itype(0b101011, 0, 2, 0x44), // sw v0, 0x44(r0)
		opNOP,
	)
	cpu.Debugger = NewDebugger()
	cpu.Debugger.AddBreakpoint(RESET_VECTOR + 4)
	cpu.Debugger.AddReadWatchpoint(0x40)
	cpu.Debugger.AddWriteWatchpoint(0x44)

	// the hooks report through the logger
	var buf bytes.Buffer
	out := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(out)

	for i := 0; i < 3; i++ {
		cpu.Step()
	}

	logged := buf.String()
	assert(strings.Contains(logged, "reached breakpoint 0xbfc00004"))
	assert(strings.Contains(logged, "read watchpoint 0x00000040"))
	assert(strings.Contains(logged, "write watchpoint 0x00000044"))
}
