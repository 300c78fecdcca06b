package emulator

import (
	"encoding/binary"
	"log"
)

// The program counter used when a reset exception is triggered
const RESET_VECTOR = 0xbfc00000

// A memory load that has been issued but is not visible to the following
// instruction yet. The value lands in `Reg` once `Countdown` steps have
// elapsed
type LoadDelay struct {
	Active    bool   // A load is in flight
	Reg       uint32 // Target register
	Value     uint32 // Loaded value
	Countdown uint8  // Steps left before the value is committed
}

// CPU state
type CPU struct {
	PC        uint32     // The program counter register
	NextPC    uint32     // Next PC, used for emulating branch delay slots
	CurrentPC uint32     // Address of the instruction being executed, saved in EPC on exceptions
	Regs      [32]uint32 // General purpose registers. The first value must always be 0
	Hi        uint32     // Remainder of a division, or high 32 bits of a multiplication
	Lo        uint32     // Quotient of a division, or low 32 bits of a multiplication
	// The instruction at PC. Prefetched on reset and after every step so
	// the next fetch is observable without stepping
	CurrentInstruction Instruction
	PendingLoad        LoadDelay     // In-flight memory load
	Cop0               *Cop0         // Coprocessor 0: system control
	Inter              *Interconnect // Memory interface
	Branching          bool          // The executed instruction wrote NextPC
	DelaySlot          bool          // The executed instruction sits in a delay slot
	Debugger           *Debugger     // Optional debugger hooks
}

// Creates a new CPU state in the reset state
func NewCPU(inter *Interconnect) *CPU {
	cpu := &CPU{
		Cop0:  NewCop0(),
		Inter: inter,
	}
	cpu.Reset()
	return cpu
}

// Resets the CPU to the startup state. Officially, this is considered a
// reset exception
func (cpu *CPU) Reset() {
	for i := range cpu.Regs {
		cpu.Regs[i] = 0
	}
	cpu.Hi = 0
	cpu.Lo = 0
	cpu.Cop0.Reset()
	cpu.PendingLoad = LoadDelay{}
	cpu.Branching = false
	cpu.DelaySlot = false

	cpu.PC = RESET_VECTOR
	cpu.NextPC = cpu.PC + 4
	cpu.CurrentInstruction = Instruction(cpu.Inter.Load32(cpu.PC))
}

// Executes exactly one instruction
func (cpu *CPU) Step() {
	// commit or age the pending memory load. The value of a load becomes
	// visible one instruction after the load itself
	if cpu.PendingLoad.Active {
		if cpu.PendingLoad.Countdown == 0 {
			cpu.SetReg(cpu.PendingLoad.Reg, cpu.PendingLoad.Value)
			cpu.PendingLoad = LoadDelay{}
		} else {
			cpu.PendingLoad.Countdown--
		}
	}

	cpu.CurrentPC = cpu.PC
	if cpu.Debugger != nil {
		cpu.Debugger.changedPc(cpu.PC)
	}

	// an instruction following a branch or jump executes in its delay slot
	cpu.DelaySlot = cpu.Branching
	cpu.Branching = false

	if cpu.CurrentPC%4 != 0 {
		// PC is not correctly aligned, the fetch itself faults. PC now
		// points at the handler, keep the prefetch in sync with it
		cpu.exceptionBadVaddr(EXCEPTION_LOAD_ADDRESS_ERROR, cpu.CurrentPC)
		cpu.CurrentInstruction = Instruction(cpu.Inter.Load32(cpu.PC))
		return
	}

	instruction := Instruction(cpu.Inter.Load32(cpu.PC))
	cpu.CurrentInstruction = instruction

	cpu.PC = cpu.NextPC
	cpu.NextPC += 4

	cpu.DecodeAndExecute(instruction)

	// prefetch the instruction now at PC and enforce the zero register, a
	// decode path may have targeted it
	cpu.CurrentInstruction = Instruction(cpu.Inter.Load32(cpu.PC))
	cpu.Regs[0] = 0
}

// Unified exception entry: saves the restart address, pushes the mode stack
// and redirects execution to the exception handler
func (cpu *CPU) Exception(cause Exception) {
	handler := cpu.Cop0.EnterException(cause, cpu.CurrentPC, cpu.DelaySlot)
	cpu.PC = handler
	cpu.NextPC = handler + 4
}

// Address error exception, additionally records the faulting address
func (cpu *CPU) exceptionBadVaddr(cause Exception, vaddr uint32) {
	cpu.Cop0.BadVaddr = vaddr
	cpu.Exception(cause)
}

// Returns the register value at `index`. The first register is always zero
func (cpu *CPU) Reg(index uint32) uint32 {
	return cpu.Regs[index]
}

// Sets the value at the `index` register and sets the first register to zero
func (cpu *CPU) SetReg(index, val uint32) {
	cpu.Regs[index] = val
	// R0 should always remain 0, we can't change it
	cpu.Regs[0] = 0
}

// Schedules `val` to land in register `index` one instruction from now. An
// older in-flight load lands immediately before it is replaced
func (cpu *CPU) delayedLoad(index, val uint32) {
	if cpu.PendingLoad.Active {
		cpu.SetReg(cpu.PendingLoad.Reg, cpu.PendingLoad.Value)
	}
	cpu.PendingLoad = LoadDelay{
		Active:    true,
		Reg:       index,
		Value:     val,
		Countdown: 1,
	}
}

// Branches to the immediate offset. The offset is relative to the delay slot
// instruction, which PC already points at
func (cpu *CPU) Branch(offset uint32) {
	cpu.NextPC = cpu.PC + (offset << 2)
}

// Returns a 32 bit little endian value at `addr`
func (cpu *CPU) Load32(addr uint32) uint32 {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryRead(addr)
	}
	return cpu.Inter.Load32(addr)
}

// Returns a 16 bit little endian value at `addr`
func (cpu *CPU) Load16(addr uint32) uint16 {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryRead(addr)
	}
	return cpu.Inter.Load16(addr)
}

// Returns the byte at `addr`
func (cpu *CPU) Load8(addr uint32) byte {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryRead(addr)
	}
	return cpu.Inter.Load8(addr)
}

// Store a 32 bit little endian word `val` into `addr`
func (cpu *CPU) Store32(addr, val uint32) {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryWrite(addr)
	}
	cpu.Inter.Store32(addr, val)
}

// Store a 16 bit little endian value `val` into `addr`
func (cpu *CPU) Store16(addr uint32, val uint16) {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryWrite(addr)
	}
	cpu.Inter.Store16(addr, val)
}

// Sets the byte at `addr`
func (cpu *CPU) Store8(addr uint32, val byte) {
	if cpu.Debugger != nil {
		cpu.Debugger.memoryWrite(addr)
	}
	cpu.Inter.Store8(addr, val)
}

// Decodes and executes an instruction
func (cpu *CPU) DecodeAndExecute(instruction Instruction) {
	// http://problemkaputt.de/psx-spx.htm#cpuopcodeencoding
	switch instruction.Function() {
	case 0b000000:
		cpu.executeSpecial(instruction)
	case 0b000001:
		cpu.OpBcond(instruction)
	case 0b000010: // Jump
		cpu.OpJ(instruction)
	case 0b000011: // Jump And Link
		cpu.OpJAL(instruction)
	case 0b000100: // Branch If Equal
		cpu.OpBEQ(instruction)
	case 0b000101: // Branch If Not Equal
		cpu.OpBNE(instruction)
	case 0b000110: // Branch If Less Than Or Equal To Zero
		cpu.OpBLEZ(instruction)
	case 0b000111: // Branch If Greater Than Zero
		cpu.OpBGTZ(instruction)
	case 0b001000: // Add Immediate
		cpu.OpADDI(instruction)
	case 0b001001: // Add Immediate Unsigned
		cpu.OpADDIU(instruction)
	case 0b001010: // Set If Less Than Immediate
		cpu.OpSLTI(instruction)
	case 0b001011: // Set If Less Than Immediate Unsigned
		cpu.OpSLTIU(instruction)
	case 0b001100: // Bitwise And Immediate
		cpu.OpANDI(instruction)
	case 0b001101: // Bitwise Or Immediate
		cpu.OpORI(instruction)
	case 0b001110: // Bitwise Exclusive Or Immediate
		cpu.OpXORI(instruction)
	case 0b001111: // Load Upper Immediate
		cpu.OpLUI(instruction)
	case 0b010000: // Coprocessor 0 operation
		cpu.OpCop0(instruction)
	case 0b100000: // Load Byte
		cpu.OpLB(instruction)
	case 0b100001: // Load Halfword
		cpu.OpLH(instruction)
	case 0b100010: // Load Word Left
		cpu.OpLWL(instruction)
	case 0b100011: // Load Word
		cpu.OpLW(instruction)
	case 0b100100: // Load Byte Unsigned
		cpu.OpLBU(instruction)
	case 0b100101: // Load Halfword Unsigned
		cpu.OpLHU(instruction)
	case 0b100110: // Load Word Right
		cpu.OpLWR(instruction)
	case 0b101000: // Store Byte
		cpu.OpSB(instruction)
	case 0b101001: // Store Halfword
		cpu.OpSH(instruction)
	case 0b101010: // Store Word Left
		cpu.OpSWL(instruction)
	case 0b101011: // Store Word
		cpu.OpSW(instruction)
	case 0b101110: // Store Word Right
		cpu.OpSWR(instruction)
	default:
		// real software probing undiscovered opcodes must not halt
		// emulation
		log.Printf("cpu: unhandled instruction 0x%08x at 0x%08x, ignoring",
			uint32(instruction), cpu.CurrentPC)
	}
}

// Executes an instruction of the SPECIAL group (opcode 0)
func (cpu *CPU) executeSpecial(instruction Instruction) {
	switch instruction.Subfunction() {
	case 0b000000: // Shift Left Logical
		cpu.OpSLL(instruction)
	case 0b000010: // Shift Right Logical
		cpu.OpSRL(instruction)
	case 0b000011: // Shift Right Arithmetic
		cpu.OpSRA(instruction)
	case 0b000100: // Shift Left Logical Variable
		cpu.OpSLLV(instruction)
	case 0b000110: // Shift Right Logical Variable
		cpu.OpSRLV(instruction)
	case 0b000111: // Shift Right Arithmetic Variable
		cpu.OpSRAV(instruction)
	case 0b001000: // Jump Register
		cpu.OpJR(instruction)
	case 0b001001: // Jump And Link Register
		cpu.OpJALR(instruction)
	case 0b001100: // System Call
		cpu.OpSYSCALL(instruction)
	case 0b001101: // Break
		cpu.OpBREAK(instruction)
	case 0b010000: // Move From HI
		cpu.OpMFHI(instruction)
	case 0b010001: // Move To HI
		cpu.OpMTHI(instruction)
	case 0b010010: // Move From LO
		cpu.OpMFLO(instruction)
	case 0b010011: // Move To LO
		cpu.OpMTLO(instruction)
	case 0b011000: // Multiply
		cpu.OpMULT(instruction)
	case 0b011001: // Multiply Unsigned
		cpu.OpMULTU(instruction)
	case 0b011010: // Divide
		cpu.OpDIV(instruction)
	case 0b011011: // Divide Unsigned
		cpu.OpDIVU(instruction)
	case 0b100000: // Add
		cpu.OpADD(instruction)
	case 0b100001: // Add Unsigned
		cpu.OpADDU(instruction)
	case 0b100010: // Subtract
		cpu.OpSUB(instruction)
	case 0b100011: // Subtract Unsigned
		cpu.OpSUBU(instruction)
	case 0b100100: // Bitwise And
		cpu.OpAND(instruction)
	case 0b100101: // Bitwise Or
		cpu.OpOR(instruction)
	case 0b100110: // Bitwise Exclusive Or
		cpu.OpXOR(instruction)
	case 0b100111: // Bitwise Not Or
		cpu.OpNOR(instruction)
	case 0b101010: // Set If Less Than
		cpu.OpSLT(instruction)
	case 0b101011: // Set If Less Than Unsigned
		cpu.OpSLTU(instruction)
	default:
		log.Printf("cpu: unhandled SPECIAL instruction 0x%08x at 0x%08x, ignoring",
			uint32(instruction), cpu.CurrentPC)
	}
}

// Shift Left Logical
func (cpu *CPU) OpSLL(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(t)<<i)
}

// Shift Right Logical
func (cpu *CPU) OpSRL(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(t)>>i)
}

// Shift Right Arithmetic
func (cpu *CPU) OpSRA(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, uint32(int32(cpu.Reg(t))>>i))
}

// Shift Left Logical Variable
func (cpu *CPU) OpSLLV(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	// the shift amount is truncated to 5 bits
	cpu.SetReg(d, cpu.Reg(t)<<(cpu.Reg(s)&0x1f))
}

// Shift Right Logical Variable
func (cpu *CPU) OpSRLV(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(t)>>(cpu.Reg(s)&0x1f))
}

// Shift Right Arithmetic Variable
func (cpu *CPU) OpSRAV(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, uint32(int32(cpu.Reg(t))>>(cpu.Reg(s)&0x1f)))
}

// Jump Register
func (cpu *CPU) OpJR(instruction Instruction) {
	cpu.Branching = true
	cpu.NextPC = cpu.Reg(instruction.S())
}

// Jump And Link Register
func (cpu *CPU) OpJALR(instruction Instruction) {
	cpu.Branching = true
	target := cpu.Reg(instruction.S())
	// store the return address (the instruction after the delay slot)
	cpu.SetReg(instruction.D(), cpu.NextPC)
	cpu.NextPC = target
}

// System Call
func (cpu *CPU) OpSYSCALL(instruction Instruction) {
	cpu.Exception(EXCEPTION_SYSCALL)
}

// Break
func (cpu *CPU) OpBREAK(instruction Instruction) {
	cpu.Exception(EXCEPTION_BREAK)
}

// Move From HI
func (cpu *CPU) OpMFHI(instruction Instruction) {
	cpu.SetReg(instruction.D(), cpu.Hi)
}

// Move To HI
func (cpu *CPU) OpMTHI(instruction Instruction) {
	cpu.Hi = cpu.Reg(instruction.S())
}

// Move From LO
func (cpu *CPU) OpMFLO(instruction Instruction) {
	cpu.SetReg(instruction.D(), cpu.Lo)
}

// Move To LO
func (cpu *CPU) OpMTLO(instruction Instruction) {
	cpu.Lo = cpu.Reg(instruction.S())
}

// Multiply (signed)
func (cpu *CPU) OpMULT(instruction Instruction) {
	a := int64(int32(cpu.Reg(instruction.S())))
	b := int64(int32(cpu.Reg(instruction.T())))
	v := uint64(a * b)

	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// Multiply Unsigned
func (cpu *CPU) OpMULTU(instruction Instruction) {
	a := uint64(cpu.Reg(instruction.S()))
	b := uint64(cpu.Reg(instruction.T()))
	v := a * b

	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// Divide (signed)
func (cpu *CPU) OpDIV(instruction Instruction) {
	n := int32(cpu.Reg(instruction.S()))
	d := int32(cpu.Reg(instruction.T()))

	switch {
	case d == 0:
		// division by zero, results are bogus but deterministic
		cpu.Hi = uint32(n)
		if n >= 0 {
			cpu.Lo = 0xffffffff
		} else {
			cpu.Lo = 1
		}
	case uint32(n) == 0x80000000 && d == -1:
		// result is not representable in 32 bits
		cpu.Hi = 0
		cpu.Lo = 0x80000000
	default:
		cpu.Hi = uint32(n % d)
		cpu.Lo = uint32(n / d)
	}
}

// Divide Unsigned
func (cpu *CPU) OpDIVU(instruction Instruction) {
	n := cpu.Reg(instruction.S())
	d := cpu.Reg(instruction.T())

	if d == 0 {
		// division by zero, results are bogus but deterministic
		cpu.Hi = n
		cpu.Lo = 0xffffffff
	} else {
		cpu.Hi = n % d
		cpu.Lo = n / d
	}
}

// Add (generates an exception on signed overflow)
func (cpu *CPU) OpADD(instruction Instruction) {
	s := int32(cpu.Reg(instruction.S()))
	t := int32(cpu.Reg(instruction.T()))

	v, err := add32Overflow(s, t)
	if err != nil {
		// the destination register is left unmodified
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(instruction.D(), uint32(v))
}

// Add Unsigned
func (cpu *CPU) OpADDU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(s)+cpu.Reg(t))
}

// Subtract (generates an exception on signed overflow)
func (cpu *CPU) OpSUB(instruction Instruction) {
	s := int32(cpu.Reg(instruction.S()))
	t := int32(cpu.Reg(instruction.T()))

	v, err := sub32Overflow(s, t)
	if err != nil {
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(instruction.D(), uint32(v))
}

// Subtract Unsigned
func (cpu *CPU) OpSUBU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(s)-cpu.Reg(t))
}

// Bitwise And
func (cpu *CPU) OpAND(instruction Instruction) {
	cpu.SetReg(instruction.D(), cpu.Reg(instruction.S())&cpu.Reg(instruction.T()))
}

// Bitwise Or
func (cpu *CPU) OpOR(instruction Instruction) {
	cpu.SetReg(instruction.D(), cpu.Reg(instruction.S())|cpu.Reg(instruction.T()))
}

// Bitwise Exclusive Or
func (cpu *CPU) OpXOR(instruction Instruction) {
	cpu.SetReg(instruction.D(), cpu.Reg(instruction.S())^cpu.Reg(instruction.T()))
}

// Bitwise Not Or
func (cpu *CPU) OpNOR(instruction Instruction) {
	cpu.SetReg(instruction.D(), ^(cpu.Reg(instruction.S()) | cpu.Reg(instruction.T())))
}

// Set If Less Than (signed)
func (cpu *CPU) OpSLT(instruction Instruction) {
	s := int32(cpu.Reg(instruction.S()))
	t := int32(cpu.Reg(instruction.T()))
	cpu.SetReg(instruction.D(), oneIfTrue(s < t))
}

// Set If Less Than Unsigned
func (cpu *CPU) OpSLTU(instruction Instruction) {
	v := cpu.Reg(instruction.S()) < cpu.Reg(instruction.T())
	cpu.SetReg(instruction.D(), oneIfTrue(v))
}

// The BCOND group (BLTZ, BGEZ, BLTZAL, BGEZAL and friends).
//
// On this CPU every possible encoding of the rt field is a valid BCOND
// instruction, there is no illegal sub-opcode: bit 16 inverts the sign test
// and bit 20 requests a link. The link happens whether or not the branch is
// taken
func (cpu *CPU) OpBcond(instruction Instruction) {
	cpu.Branching = true

	rt := instruction.T()
	val := cpu.Reg(instruction.S())

	takeBranch := int32(val^(rt<<31)) < 0

	if rt&0x10 != 0 {
		// store the return address even if the branch is not taken
		cpu.SetReg(31, cpu.NextPC)
	}
	if takeBranch {
		cpu.Branch(instruction.ImmSE())
	}
}

// Jump
func (cpu *CPU) OpJ(instruction Instruction) {
	cpu.Branching = true
	cpu.NextPC = (cpu.PC & 0xf0000000) | (instruction.ImmJump() << 2)
}

// Jump And Link
func (cpu *CPU) OpJAL(instruction Instruction) {
	cpu.Branching = true
	// store the return address in the link register
	cpu.SetReg(31, cpu.NextPC)
	cpu.NextPC = (cpu.PC & 0xf0000000) | (instruction.ImmJump() << 2)
}

// Branch If Equal
func (cpu *CPU) OpBEQ(instruction Instruction) {
	cpu.Branching = true
	if cpu.Reg(instruction.S()) == cpu.Reg(instruction.T()) {
		cpu.Branch(instruction.ImmSE())
	}
}

// Branch If Not Equal
func (cpu *CPU) OpBNE(instruction Instruction) {
	cpu.Branching = true
	if cpu.Reg(instruction.S()) != cpu.Reg(instruction.T()) {
		cpu.Branch(instruction.ImmSE())
	}
}

// Branch If Less Than Or Equal To Zero
func (cpu *CPU) OpBLEZ(instruction Instruction) {
	cpu.Branching = true
	if int32(cpu.Reg(instruction.S())) <= 0 {
		cpu.Branch(instruction.ImmSE())
	}
}

// Branch If Greater Than Zero
func (cpu *CPU) OpBGTZ(instruction Instruction) {
	cpu.Branching = true
	if int32(cpu.Reg(instruction.S())) > 0 {
		cpu.Branch(instruction.ImmSE())
	}
}

// Add Immediate (generates an exception on signed overflow)
func (cpu *CPU) OpADDI(instruction Instruction) {
	s := int32(cpu.Reg(instruction.S()))
	i := int32(instruction.ImmSE())

	v, err := add32Overflow(s, i)
	if err != nil {
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(instruction.T(), uint32(v))
}

// Add Immediate Unsigned
func (cpu *CPU) OpADDIU(instruction Instruction) {
	cpu.SetReg(instruction.T(), cpu.Reg(instruction.S())+instruction.ImmSE())
}

// Set If Less Than Immediate (signed)
func (cpu *CPU) OpSLTI(instruction Instruction) {
	s := int32(cpu.Reg(instruction.S()))
	i := int32(instruction.ImmSE())
	cpu.SetReg(instruction.T(), oneIfTrue(s < i))
}

// Set If Less Than Immediate Unsigned
func (cpu *CPU) OpSLTIU(instruction Instruction) {
	v := cpu.Reg(instruction.S()) < instruction.ImmSE()
	cpu.SetReg(instruction.T(), oneIfTrue(v))
}

// Bitwise And Immediate
func (cpu *CPU) OpANDI(instruction Instruction) {
	cpu.SetReg(instruction.T(), cpu.Reg(instruction.S())&instruction.Imm())
}

// Bitwise Or Immediate
func (cpu *CPU) OpORI(instruction Instruction) {
	cpu.SetReg(instruction.T(), cpu.Reg(instruction.S())|instruction.Imm())
}

// Bitwise Exclusive Or Immediate
func (cpu *CPU) OpXORI(instruction Instruction) {
	cpu.SetReg(instruction.T(), cpu.Reg(instruction.S())^instruction.Imm())
}

// Load Upper Immediate
func (cpu *CPU) OpLUI(instruction Instruction) {
	// low 16 bits are set to 0
	cpu.SetReg(instruction.T(), instruction.Imm()<<16)
}

// Coprocessor 0 operation (MFC0, MTC0, RFE)
func (cpu *CPU) OpCop0(instruction Instruction) {
	switch instruction.S() {
	case 0b00000: // Move From Coprocessor 0
		cpu.SetReg(instruction.T(), cpu.Cop0.Reg(instruction.D()))
	case 0b00100: // Move To Coprocessor 0
		cpu.Cop0.SetReg(instruction.D(), cpu.Reg(instruction.T()))
	case 0b10000: // RFE
		// there are other "virtual memory" instructions with this
		// encoding group but the PlayStation only has RFE
		if instruction.Subfunction() == 0b010000 {
			cpu.Cop0.ReturnFromException()
		} else {
			log.Printf("cpu: unhandled cop0 instruction 0x%08x, ignoring",
				uint32(instruction))
		}
	default:
		log.Printf("cpu: unhandled cop0 instruction 0x%08x, ignoring",
			uint32(instruction))
	}
}

// Load Byte (signed)
func (cpu *CPU) OpLB(instruction Instruction) {
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	v := int8(cpu.Load8(addr))
	cpu.delayedLoad(instruction.T(), uint32(v))
}

// Load Byte Unsigned
func (cpu *CPU) OpLBU(instruction Instruction) {
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	cpu.delayedLoad(instruction.T(), uint32(cpu.Load8(addr)))
}

// Load Halfword (signed)
func (cpu *CPU) OpLH(instruction Instruction) {
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	if addr%2 != 0 {
		cpu.exceptionBadVaddr(EXCEPTION_LOAD_ADDRESS_ERROR, addr)
		return
	}
	v := int16(cpu.Load16(addr))
	cpu.delayedLoad(instruction.T(), uint32(v))
}

// Load Halfword Unsigned
func (cpu *CPU) OpLHU(instruction Instruction) {
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	if addr%2 != 0 {
		cpu.exceptionBadVaddr(EXCEPTION_LOAD_ADDRESS_ERROR, addr)
		return
	}
	cpu.delayedLoad(instruction.T(), uint32(cpu.Load16(addr)))
}

// Load Word
func (cpu *CPU) OpLW(instruction Instruction) {
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	if addr%4 != 0 {
		cpu.exceptionBadVaddr(EXCEPTION_LOAD_ADDRESS_ERROR, addr)
		return
	}
	cpu.delayedLoad(instruction.T(), cpu.Load32(addr))
}

// Load Word Left, merges the 1 to 4 most significant bytes of an unaligned
// word into the target register
func (cpu *CPU) OpLWL(instruction Instruction) {
	t := instruction.T()
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()

	// bypass the load delay so that LWL/LWR pairs targeting the same
	// register chain without an intervening instruction
	cur := cpu.Reg(t)
	if cpu.PendingLoad.Active && cpu.PendingLoad.Reg == t {
		cur = cpu.PendingLoad.Value
	}

	// load the aligned word containing the first addressed byte
	aligned := cpu.Load32(addr &^ 3)

	var v uint32
	switch addr & 3 {
	case 0:
		v = (cur & 0x00ffffff) | (aligned << 24)
	case 1:
		v = (cur & 0x0000ffff) | (aligned << 16)
	case 2:
		v = (cur & 0x000000ff) | (aligned << 8)
	case 3:
		v = aligned
	}
	cpu.delayedLoad(t, v)
}

// Load Word Right, the mirror of LWL for the least significant bytes
func (cpu *CPU) OpLWR(instruction Instruction) {
	t := instruction.T()
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()

	cur := cpu.Reg(t)
	if cpu.PendingLoad.Active && cpu.PendingLoad.Reg == t {
		cur = cpu.PendingLoad.Value
	}

	aligned := cpu.Load32(addr &^ 3)

	var v uint32
	switch addr & 3 {
	case 0:
		v = aligned
	case 1:
		v = (cur & 0xff000000) | (aligned >> 8)
	case 2:
		v = (cur & 0xffff0000) | (aligned >> 16)
	case 3:
		v = (cur & 0xffffff00) | (aligned >> 24)
	}
	cpu.delayedLoad(t, v)
}

// Store Byte
func (cpu *CPU) OpSB(instruction Instruction) {
	if cpu.Cop0.CacheIsolated() {
		// the write targets the isolated cache, not memory
		return
	}
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	cpu.Store8(addr, byte(cpu.Reg(instruction.T())))
}

// Store Halfword
func (cpu *CPU) OpSH(instruction Instruction) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	if addr%2 != 0 {
		cpu.exceptionBadVaddr(EXCEPTION_STORE_ADDRESS_ERROR, addr)
		return
	}
	cpu.Store16(addr, uint16(cpu.Reg(instruction.T())))
}

// Store Word
func (cpu *CPU) OpSW(instruction Instruction) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	if addr%4 != 0 {
		cpu.exceptionBadVaddr(EXCEPTION_STORE_ADDRESS_ERROR, addr)
		return
	}
	cpu.Store32(addr, cpu.Reg(instruction.T()))
}

// Store Word Left, merges the most significant bytes of the register into
// an unaligned word in memory
func (cpu *CPU) OpSWL(instruction Instruction) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	v := cpu.Reg(instruction.T())

	alignedAddr := addr &^ 3
	cur := cpu.Load32(alignedAddr)

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = (cur & 0xffffff00) | (v >> 24)
	case 1:
		mem = (cur & 0xffff0000) | (v >> 16)
	case 2:
		mem = (cur & 0xff000000) | (v >> 8)
	case 3:
		mem = v
	}
	cpu.Store32(alignedAddr, mem)
}

// Store Word Right, the mirror of SWL for the least significant bytes
func (cpu *CPU) OpSWR(instruction Instruction) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	addr := cpu.Reg(instruction.S()) + instruction.ImmSE()
	v := cpu.Reg(instruction.T())

	alignedAddr := addr &^ 3
	cur := cpu.Load32(alignedAddr)

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = v
	case 1:
		mem = (cur & 0x000000ff) | (v << 8)
	case 2:
		mem = (cur & 0x0000ffff) | (v << 16)
	case 3:
		mem = (cur & 0x00ffffff) | (v << 24)
	}
	cpu.Store32(alignedAddr, mem)
}

// Copies a decoded PS-X EXE into RAM and redirects execution to its entry
// point, the way the BIOS shell would after loading an executable
func (cpu *CPU) SideloadExe(exe *Exe) {
	for i := uint32(0); i+4 <= exe.Size && int(i+4) <= len(exe.Text); i += 4 {
		word := binary.LittleEndian.Uint32(exe.Text[i:])
		cpu.Inter.Store32(exe.RamDest+i, word)
	}

	cpu.SetReg(28, exe.InitialGP)
	cpu.PendingLoad = LoadDelay{}
	cpu.Branching = false
	cpu.DelaySlot = false

	cpu.PC = exe.InitialPC
	cpu.NextPC = cpu.PC + 4
	cpu.CurrentInstruction = Instruction(cpu.Inter.Load32(cpu.PC))
}
