package emulator

import "log"

// Coprocessor 0: System Control
type Cop0 struct {
	SR       uint32 // Register 12: status register
	Cause    uint32 // Register 13: cause register
	Epc      uint32 // Register 14: exception PC
	BadVaddr uint32 // Register 8: bad virtual address
}

// Cop0 register indices used by MTC0/MFC0
const (
	COP0_REG_BADVADDR = 8
	COP0_REG_SR       = 12
	COP0_REG_CAUSE    = 13
	COP0_REG_EPC      = 14
)

// Creates a new Cop0 instance
func NewCop0() *Cop0 {
	return &Cop0{}
}

// Zeroes the coprocessor registers
func (cop *Cop0) Reset() {
	cop.SR = 0
	cop.Cause = 0
	cop.Epc = 0
	cop.BadVaddr = 0
}

// Returns the register at `index`. Only used at the MFC0 boundary, the
// named fields are the primary representation
func (cop *Cop0) Reg(index uint32) uint32 {
	switch index {
	case COP0_REG_BADVADDR:
		return cop.BadVaddr
	case COP0_REG_SR:
		return cop.SR
	case COP0_REG_CAUSE:
		return cop.Cause
	case COP0_REG_EPC:
		return cop.Epc
	default:
		log.Printf("cop0: read from unhandled register %d, returning 0", index)
		return 0
	}
}

// Sets the register at `index`. Only used at the MTC0 boundary
func (cop *Cop0) SetReg(index, val uint32) {
	switch index {
	case COP0_REG_SR:
		cop.SR = val
	case COP0_REG_CAUSE:
		// bits [9:8] are the software interrupt requests, the rest is
		// read only
		cop.Cause = (cop.Cause &^ 0x300) | (val & 0x300)
	default:
		// breakpoint registers (BPC, BDA, DCIC, ...) and the read only
		// registers are ignored
		if val != 0 {
			log.Printf("cop0: write to unhandled register %d <- 0x%x", index, val)
		}
	}
}

// Returns true if the cache is isolated
func (cop *Cop0) CacheIsolated() bool {
	return cop.SR&0x10000 != 0
}

// Enters an exception and returns the address of the exception handler
func (cop *Cop0) EnterException(cause Exception, pc uint32, inDelaySlot bool) uint32 {
	// Shift bits [5:0] of the SR two places to the left.
	// Those bits are three pairs of Interrupt Enable/User Mode
	// bits behaving like a stack of 3 entries deep. Entering an
	// exception pushes a pair of zeroes by left shifting the stack
	// which disables interrupts and puts the CPU in kernel mode.
	// The original third entry is discarded (it's up to the kernel
	// to handle more than two recursive exception levels)
	mode := cop.SR & 0x3f
	cop.SR &^= 0x3f
	cop.SR |= (mode << 2) & 0x3f

	// update `CAUSE` register with exception code (bits [6:2])
	cop.Cause &^= 0x7c
	cop.Cause |= uint32(cause) << 2

	if inDelaySlot {
		// when the exception occurs in a branch delay slot, EPC points
		// to the branch instruction and bit 31 of CAUSE is set
		cop.Epc = pc - 4
		cop.Cause |= 1 << 31
	} else {
		cop.Epc = pc
		cop.Cause &^= 1 << 31
	}

	// return exception handler
	if cop.SR&(1<<22) != 0 {
		return 0xbfc00180
	}
	return 0x80000080
}

// Pops the Interrupt Enable/User Mode stack, restoring the state that was
// active before the exception was entered
func (cop *Cop0) ReturnFromException() {
	mode := cop.SR & 0x3f
	cop.SR &^= 0xf
	cop.SR |= mode >> 2
}
