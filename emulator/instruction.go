package emulator

type Instruction uint32

// Bit layout of an instruction word: op:6 rs:5 rt:5 rd:5 shamt:5 funct:6
const (
	OPCODE_SHIFT = 26
	RS_SHIFT     = 21
	RT_SHIFT     = 16
	RD_SHIFT     = 11
	SHAMT_SHIFT  = 6

	OPCODE_MASK = 0x3f
	REG_MASK    = 0x1f
	FUNCT_MASK  = 0x3f
	IMM_MASK    = 0xffff
	TARGET_MASK = 0x3ffffff
)

// Return bits [31:26] of the instruction
func (op Instruction) Function() uint32 {
	return (uint32(op) >> OPCODE_SHIFT) & OPCODE_MASK
}

// Return bits [5:0] of the instruction
func (op Instruction) Subfunction() uint32 {
	return uint32(op) & FUNCT_MASK
}

// Return register index in bits [25:21]
func (op Instruction) S() uint32 {
	return (uint32(op) >> RS_SHIFT) & REG_MASK
}

// Return register index in bits [20:16]
func (op Instruction) T() uint32 {
	return (uint32(op) >> RT_SHIFT) & REG_MASK
}

// Return register index in bits [15:11]
func (op Instruction) D() uint32 {
	return (uint32(op) >> RD_SHIFT) & REG_MASK
}

// Return immediate value in bits [16:0]
func (op Instruction) Imm() uint32 {
	return uint32(op) & IMM_MASK
}

// Return immediate value in bits [16:0] as a sign-extended 32 bit value
func (op Instruction) ImmSE() uint32 {
	v := int16(uint32(op) & IMM_MASK) // sign-extend v
	return uint32(v)
}

// Jump target stored in bits [25:0]
func (op Instruction) ImmJump() uint32 {
	return uint32(op) & TARGET_MASK
}

// Shift Immediate values are stored in bits [10:6]
func (op Instruction) Shift() uint32 {
	return (uint32(op) >> SHAMT_SHIFT) & REG_MASK
}
