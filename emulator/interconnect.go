package emulator

import "log"

// Offsets of the GPU registers inside GPU_RANGE
const (
	GPU_REG_GP0 = 0 // 0x1f801810: GP0 (W) / GPUREAD (R)
	GPU_REG_GP1 = 4 // 0x1f801814: GP1 (W) / GPUSTAT (R)
)

// Global interconnect. It stores all of the peripherals
type Interconnect struct {
	Bios       *BIOS       // Basic input/output memory
	Ram        *RAM        // Main RAM
	ScratchPad *ScratchPad // Fast RAM
	Gpu        *GPU        // Graphics processing unit
}

// Creates a new interconnect instance
func NewInterconnect(bios *BIOS, ram *RAM, gpu *GPU) *Interconnect {
	inter := &Interconnect{
		Bios:       bios,
		Ram:        ram,
		ScratchPad: NewScratchPad(),
		Gpu:        gpu,
	}
	return inter
}

// Resets the interconnect to the startup state. The BIOS image is kept
func (inter *Interconnect) Reset() {
	inter.Ram.Reset()
	inter.ScratchPad.Reset()
	inter.Gpu.Reset()
}

// Masks a CPU address to a physical address. The top 3 bits only select the
// cache behavior of the segment, the physical map is the same
func MaskRegion(addr uint32) uint32 {
	return addr & 0x1fffffff
}

// Loads a value at `addr`. Unmapped reads are logged and return 0
func (inter *Interconnect) Load(addr uint32, size AccessSize) interface{} {
	paddr := MaskRegion(addr)

	switch {
	case RAM_RANGE.Contains(paddr):
		return inter.Ram.Load(RAM_RANGE.Offset(paddr), size)
	case SCRATCHPAD_RANGE.Contains(paddr):
		return inter.ScratchPad.Load(SCRATCHPAD_RANGE.Offset(paddr), size)
	case GPU_RANGE.Contains(paddr):
		switch GPU_RANGE.Offset(paddr) {
		case GPU_REG_GP0:
			return accessSizeU32(size, inter.Gpu.Read())
		case GPU_REG_GP1:
			return accessSizeU32(size, inter.Gpu.Status())
		}
		return accessSizeU32(size, 0)
	case BIOS_RANGE.Contains(paddr):
		return inter.Bios.Load(BIOS_RANGE.Offset(paddr), size)
	}

	log.Printf("bus: unknown memory read at 0x%08x, returning 0", paddr)
	return accessSizeU32(size, 0)
}

// Stores `val` into `addr`. Unmapped writes are logged and discarded
func (inter *Interconnect) Store(addr uint32, size AccessSize, val interface{}) {
	paddr := MaskRegion(addr)

	switch {
	case RAM_RANGE.Contains(paddr):
		inter.Ram.Store(RAM_RANGE.Offset(paddr), size, val)
		return
	case SCRATCHPAD_RANGE.Contains(paddr):
		inter.ScratchPad.Store(SCRATCHPAD_RANGE.Offset(paddr), size, val)
		return
	case GPU_RANGE.Contains(paddr):
		switch GPU_RANGE.Offset(paddr) {
		case GPU_REG_GP0:
			inter.Gpu.GP0(accessSizeToU32(size, val))
		case GPU_REG_GP1:
			inter.Gpu.GP1(accessSizeToU32(size, val))
		}
		return
	case BIOS_RANGE.Contains(paddr):
		// the BIOS is read only
		log.Printf("bus: ignoring write to BIOS ROM at 0x%08x", paddr)
		return
	}

	log.Printf("bus: unknown memory write at 0x%08x <- 0x%x",
		paddr, accessSizeToU32(size, val))
}

// Returns a 32 bit little endian value at `addr`
func (inter *Interconnect) Load32(addr uint32) uint32 {
	return inter.Load(addr, ACCESS_WORD).(uint32)
}

// Returns a 16 bit little endian value at `addr`
func (inter *Interconnect) Load16(addr uint32) uint16 {
	return inter.Load(addr, ACCESS_HALFWORD).(uint16)
}

// Returns the byte at `addr`
func (inter *Interconnect) Load8(addr uint32) byte {
	return inter.Load(addr, ACCESS_BYTE).(byte)
}

// Store a 32 bit little endian word `val` into `addr`
func (inter *Interconnect) Store32(addr, val uint32) {
	inter.Store(addr, ACCESS_WORD, val)
}

// Store a 16 bit little endian value `val` into `addr`
func (inter *Interconnect) Store16(addr uint32, val uint16) {
	inter.Store(addr, ACCESS_HALFWORD, val)
}

// Sets the byte at `addr`
func (inter *Interconnect) Store8(addr uint32, val byte) {
	inter.Store(addr, ACCESS_BYTE, val)
}
