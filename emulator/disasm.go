package emulator

import "fmt"

// Renders one instruction as MIPS assembly. `pc` is the address of the
// instruction, used to resolve branch targets
func Disassemble(instruction Instruction, pc uint32) string {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()

	rs := GetRegisterName(s)
	rt := GetRegisterName(t)
	rd := GetRegisterName(d)

	imm := instruction.Imm()
	branchTarget := pc + 4 + (instruction.ImmSE() << 2)
	jumpTarget := ((pc + 4) & 0xf0000000) | (instruction.ImmJump() << 2)

	switch instruction.Function() {
	case 0b000000:
		return disassembleSpecial(instruction, rs, rt, rd)
	case 0b000001:
		// the BCOND group: bit 16 selects the sign test, bit 20 the link
		op := "bltz"
		if t&1 != 0 {
			op = "bgez"
		}
		if t&0x10 != 0 {
			op += "al"
		}
		return fmt.Sprintf("%s %s, 0x%08x", op, rs, branchTarget)
	case 0b000010:
		return fmt.Sprintf("j 0x%08x", jumpTarget)
	case 0b000011:
		return fmt.Sprintf("jal 0x%08x", jumpTarget)
	case 0b000100:
		return fmt.Sprintf("beq %s, %s, 0x%08x", rs, rt, branchTarget)
	case 0b000101:
		return fmt.Sprintf("bne %s, %s, 0x%08x", rs, rt, branchTarget)
	case 0b000110:
		return fmt.Sprintf("blez %s, 0x%08x", rs, branchTarget)
	case 0b000111:
		return fmt.Sprintf("bgtz %s, 0x%08x", rs, branchTarget)
	case 0b001000:
		return fmt.Sprintf("addi %s, %s, 0x%x", rt, rs, imm)
	case 0b001001:
		return fmt.Sprintf("addiu %s, %s, 0x%x", rt, rs, imm)
	case 0b001010:
		return fmt.Sprintf("slti %s, %s, 0x%x", rt, rs, imm)
	case 0b001011:
		return fmt.Sprintf("sltiu %s, %s, 0x%x", rt, rs, imm)
	case 0b001100:
		return fmt.Sprintf("andi %s, %s, 0x%x", rt, rs, imm)
	case 0b001101:
		return fmt.Sprintf("ori %s, %s, 0x%x", rt, rs, imm)
	case 0b001110:
		return fmt.Sprintf("xori %s, %s, 0x%x", rt, rs, imm)
	case 0b001111:
		return fmt.Sprintf("lui %s, 0x%x", rt, imm)
	case 0b010000:
		switch s {
		case 0b00000:
			return fmt.Sprintf("mfc0 %s, $%d", rt, d)
		case 0b00100:
			return fmt.Sprintf("mtc0 %s, $%d", rt, d)
		case 0b10000:
			if instruction.Subfunction() == 0b010000 {
				return "rfe"
			}
		}
		return fmt.Sprintf("cop0 0x%08x", uint32(instruction))
	case 0b100000:
		return fmt.Sprintf("lb %s, 0x%x(%s)", rt, imm, rs)
	case 0b100001:
		return fmt.Sprintf("lh %s, 0x%x(%s)", rt, imm, rs)
	case 0b100010:
		return fmt.Sprintf("lwl %s, 0x%x(%s)", rt, imm, rs)
	case 0b100011:
		return fmt.Sprintf("lw %s, 0x%x(%s)", rt, imm, rs)
	case 0b100100:
		return fmt.Sprintf("lbu %s, 0x%x(%s)", rt, imm, rs)
	case 0b100101:
		return fmt.Sprintf("lhu %s, 0x%x(%s)", rt, imm, rs)
	case 0b100110:
		return fmt.Sprintf("lwr %s, 0x%x(%s)", rt, imm, rs)
	case 0b101000:
		return fmt.Sprintf("sb %s, 0x%x(%s)", rt, imm, rs)
	case 0b101001:
		return fmt.Sprintf("sh %s, 0x%x(%s)", rt, imm, rs)
	case 0b101010:
		return fmt.Sprintf("swl %s, 0x%x(%s)", rt, imm, rs)
	case 0b101011:
		return fmt.Sprintf("sw %s, 0x%x(%s)", rt, imm, rs)
	case 0b101110:
		return fmt.Sprintf("swr %s, 0x%x(%s)", rt, imm, rs)
	}
	return fmt.Sprintf("illegal 0x%08x", uint32(instruction))
}

func disassembleSpecial(instruction Instruction, rs, rt, rd string) string {
	shift := instruction.Shift()

	switch instruction.Subfunction() {
	case 0b000000:
		if uint32(instruction) == 0 {
			return "nop"
		}
		return fmt.Sprintf("sll %s, %s, %d", rd, rt, shift)
	case 0b000010:
		return fmt.Sprintf("srl %s, %s, %d", rd, rt, shift)
	case 0b000011:
		return fmt.Sprintf("sra %s, %s, %d", rd, rt, shift)
	case 0b000100:
		return fmt.Sprintf("sllv %s, %s, %s", rd, rt, rs)
	case 0b000110:
		return fmt.Sprintf("srlv %s, %s, %s", rd, rt, rs)
	case 0b000111:
		return fmt.Sprintf("srav %s, %s, %s", rd, rt, rs)
	case 0b001000:
		return fmt.Sprintf("jr %s", rs)
	case 0b001001:
		return fmt.Sprintf("jalr %s, %s", rd, rs)
	case 0b001100:
		return "syscall"
	case 0b001101:
		return "break"
	case 0b010000:
		return fmt.Sprintf("mfhi %s", rd)
	case 0b010001:
		return fmt.Sprintf("mthi %s", rs)
	case 0b010010:
		return fmt.Sprintf("mflo %s", rd)
	case 0b010011:
		return fmt.Sprintf("mtlo %s", rs)
	case 0b011000:
		return fmt.Sprintf("mult %s, %s", rs, rt)
	case 0b011001:
		return fmt.Sprintf("multu %s, %s", rs, rt)
	case 0b011010:
		return fmt.Sprintf("div %s, %s", rs, rt)
	case 0b011011:
		return fmt.Sprintf("divu %s, %s", rs, rt)
	case 0b100000:
		return fmt.Sprintf("add %s, %s, %s", rd, rs, rt)
	case 0b100001:
		return fmt.Sprintf("addu %s, %s, %s", rd, rs, rt)
	case 0b100010:
		return fmt.Sprintf("sub %s, %s, %s", rd, rs, rt)
	case 0b100011:
		return fmt.Sprintf("subu %s, %s, %s", rd, rs, rt)
	case 0b100100:
		return fmt.Sprintf("and %s, %s, %s", rd, rs, rt)
	case 0b100101:
		return fmt.Sprintf("or %s, %s, %s", rd, rs, rt)
	case 0b100110:
		return fmt.Sprintf("xor %s, %s, %s", rd, rs, rt)
	case 0b100111:
		return fmt.Sprintf("nor %s, %s, %s", rd, rs, rt)
	case 0b101010:
		return fmt.Sprintf("slt %s, %s, %s", rd, rs, rt)
	case 0b101011:
		return fmt.Sprintf("sltu %s, %s, %s", rd, rs, rt)
	}
	return fmt.Sprintf("illegal 0x%08x", uint32(instruction))
}

// Renders the instruction the CPU is about to execute, in trace log format
func (cpu *CPU) Disassemble() string {
	return fmt.Sprintf("0x%08x\t0x%08x\t%s",
		cpu.PC, uint32(cpu.CurrentInstruction),
		Disassemble(cpu.CurrentInstruction, cpu.PC))
}
