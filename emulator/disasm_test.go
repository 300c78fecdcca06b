package emulator

import "testing"

func TestDisassemble(t *testing.T) {
	cases := []struct {
		word     uint32
		pc       uint32
		expected string
	}{
		{0, 0xbfc00000, "nop"},
		{itype(0b001101, 0, 8, 0x1234), 0xbfc00000, "ori t0, r0, 0x1234"},
		{itype(0b001111, 0, 8, 0x1f80), 0xbfc00000, "lui t0, 0x1f80"},
		{itype(0b100011, 29, 2, 0x10), 0xbfc00000, "lw v0, 0x10(sp)"},
		{itype(0b101011, 29, 31, 0x1c), 0xbfc00000, "sw ra, 0x1c(sp)"},
		{itype(0b000100, 0, 0, 2), 0xbfc00000, "beq r0, r0, 0xbfc0000c"},
		{itype(0b000001, 1, 0b10001, 1), 0xbfc00000, "bgezal at, 0xbfc00008"},
		{rtype(0b100001, 4, 5, 2, 0), 0, "addu v0, a0, a1"},
		{rtype(0b001000, 31, 0, 0, 0), 0, "jr ra"},
		{rtype(0b001100, 0, 0, 0, 0), 0, "syscall"},
		{0b010000<<OPCODE_SHIFT | 0b10000<<RS_SHIFT | 0b010000, 0, "rfe"},
	}

	for _, c := range cases {
		got := Disassemble(Instruction(c.word), c.pc)
		if got != c.expected {
			t.Errorf("0x%08x: got %q, want %q", c.word, got, c.expected)
		}
	}
}

func TestInstructionFields(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	// addiu t0, sp, -16
	i := Instruction(itype(0b001001, 29, 8, 0xfff0))
	assert(i.Function() == 0b001001)
	assert(i.S() == 29)
	assert(i.T() == 8)
	assert(i.Imm() == 0xfff0)
	assert(i.ImmSE() == 0xfffffff0)

	// sll t1, t2, 3
	i = Instruction(rtype(0b000000, 0, 10, 9, 3))
	assert(i.Subfunction() == 0b000000)
	assert(i.T() == 10)
	assert(i.D() == 9)
	assert(i.Shift() == 3)

	// j 0xbfc00100
	i = Instruction(0b000010<<OPCODE_SHIFT | (0xbfc00100>>2)&TARGET_MASK)
	assert(i.ImmJump() == (0xbfc00100>>2)&TARGET_MASK)
}
