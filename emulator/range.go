package emulator

var (
	// Main RAM
	RAM_RANGE = NewRange(0x00000000, RAM_ALLOC_SIZE)
	// Scratchpad (D-Cache used as fast RAM)
	SCRATCHPAD_RANGE = NewRange(0x1f800000, SCRATCH_PAD_SIZE)
	// GPU register window: GP0/GPUREAD at +0, GP1/GPUSTAT at +4
	GPU_RANGE = NewRange(0x1f801810, 8)
	// The range of the BIOS in the system memory
	BIOS_RANGE = NewRange(0x1fc00000, BIOS_SIZE)
)

type Range struct {
	Start  uint32 // Start address
	Length uint32 // Length of the mapping
}

func NewRange(start uint32, length uint32) Range {
	return Range{Start: start, Length: length}
}

// Returns whether `addr` is located inside this range
func (r *Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.Start+r.Length
}

// Returns the offset between `addr` and the `Start` of the range.
// Does not check if the range contains the address, so if `addr`
// is smaller than `Start`, there will be an overflow
func (r *Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}
