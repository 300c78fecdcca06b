package emulator

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// Builds a minimal PS-X EXE image with the given text words
func testExe(pc, gp, dest uint32, text ...uint32) []byte {
	data := make([]byte, EXE_HEADER_SIZE+len(text)*4)
	copy(data, "PS-X EXE")
	binary.LittleEndian.PutUint32(data[EXE_PC_OFFSET:], pc)
	binary.LittleEndian.PutUint32(data[EXE_GP_OFFSET:], gp)
	binary.LittleEndian.PutUint32(data[EXE_DEST_OFFSET:], dest)
	binary.LittleEndian.PutUint32(data[EXE_SIZE_OFFSET:], uint32(len(text)*4))
	for i, word := range text {
		binary.LittleEndian.PutUint32(data[EXE_HEADER_SIZE+i*4:], word)
	}
	return data
}

func TestLoadExe(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	exe, err := LoadExe(bytes.NewReader(testExe(0x80010000, 0x80020000, 0x80011000, 0x11111111, 0x22222222)))
	assert(err == nil)
	assert(exe.InitialPC == 0x80010000)
	assert(exe.InitialGP == 0x80020000)
	assert(exe.RamDest == 0x80011000)
	assert(exe.Size == 8)
	assert(len(exe.Text) == 8)
}

func TestLoadExeTruncated(t *testing.T) {
	_, err := LoadExe(bytes.NewReader(make([]byte, 0x100)))
	if err == nil {
		t.Error("expected an error for a file smaller than the header")
	}
}

func TestSideloadExe(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	image := testExe(0x80010000, 0x80020000, 0x80010000,
		itype(0b001101, 0, 8, 0x1234), // ori t0, r0, 0x1234
		opNOP,
	)
	exe, err := LoadExe(bytes.NewReader(image))
	assert(err == nil)

	cpu := testCPU()
	cpu.SideloadExe(exe)

	assert(cpu.PC == 0x80010000)
	assert(cpu.NextPC == 0x80010004)
	assert(cpu.Reg(28) == 0x80020000)
	assert(cpu.Inter.Load32(0x80010000) == itype(0b001101, 0, 8, 0x1234))

	// execution continues straight into the loaded program
	cpu.Step()
	assert(cpu.Reg(8) == 0x1234)
}
