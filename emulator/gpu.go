package emulator

import "log"

const (
	VRAM_WIDTH       = 1024                    // VRAM width in pixels
	VRAM_HEIGHT      = 512                     // VRAM height in pixels
	VRAM_SIZE_PIXELS = VRAM_WIDTH * VRAM_HEIGHT // 1MB of 16 bit pixels
)

// State of the GP0 command port
type GP0State uint8

const (
	// The GP0 port is awaiting a command to process. This is the normal
	// operation
	GP0_STATE_AWAITING_COMMAND GP0State = iota
	// The GP0 port has received a command and is collecting the parameters
	// to the command
	GP0_STATE_RECEIVING_PARAMETERS
	// The GP0 port is receiving raw data for the command to use
	GP0_STATE_RECEIVING_DATA
	// The GP0 port is transferring data to GPUREAD
	GP0_STATE_TRANSFERRING_DATA
)

// The kind of the GP0 command currently being assembled
type GP0CommandKind uint8

const (
	GP0_COMMAND_NONE        GP0CommandKind = iota
	GP0_COMMAND_DRAW_DOT                   // GP0(0x68): Monochrome Rectangle (1x1) (Dot) (opaque)
	GP0_COMMAND_IMAGE_LOAD                 // GP0(0xA0): Copy Rectangle (CPU to VRAM)
	GP0_COMMAND_IMAGE_STORE                // GP0(0xC0): Copy Rectangle (VRAM to CPU)
)

// In-flight GP0 command. All of the cursor state lives here so that two GPU
// instances never share it
type GP0Command struct {
	Kind           GP0CommandKind
	Params         CommandBuffer // Parameters to the command
	RemainingWords uint32        // Words still missing (parameters or raw data)
	X              uint16        // Current X position of the transfer cursor
	Y              uint16        // Current Y position of the transfer cursor
	XStart         uint16        // Starting column, restored on every row wrap
	XEnd           uint16        // Column the cursor wraps at (XStart + width)
}

// GPUSTAT value reported while the protocol state machine stands in for a
// real status register: ready to receive a command, ready to send VRAM to
// CPU, ready to receive a DMA block
const GPUSTAT_READY = 0x1ff00000

type GPU struct {
	Vram     [VRAM_SIZE_PIXELS]uint16 // Video memory, one 15 bit pixel per entry
	Gpuread  uint32                   // Response register for GP0(0xC0) transfers
	GP0State GP0State                 // Current GP0 port state
	GP0Cmd   GP0Command               // Current GP0 command data
}

func NewGPU() *GPU {
	gpu := &GPU{}
	gpu.Reset()
	return gpu
}

// Resets the GPU to the startup state
func (gpu *GPU) Reset() {
	gpu.resetGP0()
	gpu.Gpuread = 0
	for i := range gpu.Vram {
		gpu.Vram[i] = 0
	}
}

// Resets the GP0 port to accept commands
func (gpu *GPU) resetGP0() {
	gpu.GP0State = GP0_STATE_AWAITING_COMMAND
	gpu.GP0Cmd = GP0Command{}
	gpu.GP0Cmd.Params.Clear()
}

// Handle writes to the GP0 command register (rendering and VRAM access)
func (gpu *GPU) GP0(val uint32) {
	switch gpu.GP0State {
	case GP0_STATE_AWAITING_COMMAND:
		gpu.gp0StartCommand(val)
	case GP0_STATE_RECEIVING_PARAMETERS:
		gpu.GP0Cmd.Params.PushWord(val)
		gpu.GP0Cmd.RemainingWords--

		if gpu.GP0Cmd.RemainingWords == 0 {
			gpu.gp0RunCommand()
		}
	case GP0_STATE_RECEIVING_DATA:
		gpu.gp0ImageLoadWord(val)
	case GP0_STATE_TRANSFERRING_DATA:
		// the written word is only a pump trigger, its value is ignored
		gpu.gp0ImageStoreWord()
	}
}

// Decodes the first word of a GP0 command and declares how many parameter
// words must follow
func (gpu *GPU) gp0StartCommand(val uint32) {
	opcode := val >> 24

	switch opcode {
	case 0x68:
		// the color is packed in the command word itself
		gpu.GP0Cmd.Params.PushWord(val & 0xffffff)
		gpu.GP0Cmd.Kind = GP0_COMMAND_DRAW_DOT
		gpu.GP0Cmd.RemainingWords = 1
		gpu.GP0State = GP0_STATE_RECEIVING_PARAMETERS
	case 0xa0:
		gpu.GP0Cmd.Kind = GP0_COMMAND_IMAGE_LOAD
		gpu.GP0Cmd.RemainingWords = 2
		gpu.GP0State = GP0_STATE_RECEIVING_PARAMETERS
	case 0xc0:
		gpu.GP0Cmd.Kind = GP0_COMMAND_IMAGE_STORE
		gpu.GP0Cmd.RemainingWords = 2
		gpu.GP0State = GP0_STATE_RECEIVING_PARAMETERS
	default:
		log.Printf("gpu: unhandled GP0 command 0x%08x, ignoring", val)
	}
}

// Runs the current command once all of its parameters have been received
func (gpu *GPU) gp0RunCommand() {
	switch gpu.GP0Cmd.Kind {
	case GP0_COMMAND_DRAW_DOT:
		gpu.gp0DrawDot()
		gpu.resetGP0()
	case GP0_COMMAND_IMAGE_LOAD:
		gpu.gp0BeginTransfer(GP0_STATE_RECEIVING_DATA)
	case GP0_COMMAND_IMAGE_STORE:
		gpu.gp0BeginTransfer(GP0_STATE_TRANSFERRING_DATA)
	default:
		panicFmt("gpu: no command to run (kind %d)", gpu.GP0Cmd.Kind)
	}
}

// GP0(0x68): draw a single opaque pixel
func (gpu *GPU) gp0DrawDot() {
	cmd := &gpu.GP0Cmd

	color := cmd.Params.Get(0)
	x := int16(cmd.Params.Get(1))
	y := int16(cmd.Params.Get(1) >> 16)

	// 24 bit BGR color to 15 bit VRAM pixel
	r := (color & 0xff) >> 3
	g := ((color >> 8) & 0xff) >> 3
	b := ((color >> 16) & 0xff) >> 3
	pixel := uint16(r | (g << 5) | (b << 10))

	gpu.Vram[vramIndex(uint16(x), uint16(y))] = pixel
}

// Computes the transfer rectangle from the two parameter words and locks the
// GP0 port into the data phase of a copy command
func (gpu *GPU) gp0BeginTransfer(state GP0State) {
	cmd := &gpu.GP0Cmd

	// width is masked to 1..1024 and height to 1..512
	width := (((cmd.Params.Get(1) & 0xffff) - 1) & 0x3ff) + 1
	height := (((cmd.Params.Get(1) >> 16) - 1) & 0x1ff) + 1

	cmd.X = uint16(cmd.Params.Get(0) & 0x3ff)
	cmd.Y = uint16((cmd.Params.Get(0) >> 16) & 0x1ff)
	cmd.XStart = cmd.X
	cmd.XEnd = cmd.X + uint16(width)

	// two pixels are packed per word
	cmd.RemainingWords = (width * height) / 2
	gpu.GP0State = state
}

// Writes two pixels from one raw data word into VRAM during a CPU to VRAM
// copy, returning to normal operation when the transfer is complete
func (gpu *GPU) gp0ImageLoadWord(val uint32) {
	cmd := &gpu.GP0Cmd

	if cmd.RemainingWords != 0 {
		gpu.gp0PushPixel(uint16(val))
		gpu.gp0PushPixel(uint16(val >> 16))
		cmd.RemainingWords--
	}
	if cmd.RemainingWords == 0 {
		// all of the expected data has been received
		gpu.resetGP0()
	}
}

// Reads two pixels out of VRAM into GPUREAD during a VRAM to CPU copy
func (gpu *GPU) gp0ImageStoreWord() {
	cmd := &gpu.GP0Cmd

	if cmd.RemainingWords != 0 {
		pixel0 := uint32(gpu.gp0PopPixel())
		pixel1 := uint32(gpu.gp0PopPixel())

		gpu.Gpuread = (pixel1 << 16) | pixel0
		cmd.RemainingWords--
	}
	if cmd.RemainingWords == 0 {
		// all of the expected data has been sent
		gpu.resetGP0()
	}
}

// Stores one pixel at the transfer cursor and advances it, wrapping back to
// the starting column at the end of each row
func (gpu *GPU) gp0PushPixel(pixel uint16) {
	cmd := &gpu.GP0Cmd

	gpu.Vram[vramIndex(cmd.X, cmd.Y)] = pixel
	cmd.X++
	if cmd.X >= cmd.XEnd {
		cmd.X = cmd.XStart
		cmd.Y++
	}
}

// Reads one pixel at the transfer cursor and advances it identically to
// gp0PushPixel
func (gpu *GPU) gp0PopPixel() uint16 {
	cmd := &gpu.GP0Cmd

	pixel := gpu.Vram[vramIndex(cmd.X, cmd.Y)]
	cmd.X++
	if cmd.X >= cmd.XEnd {
		cmd.X = cmd.XStart
		cmd.Y++
	}
	return pixel
}

// Returns the VRAM index for `x`,`y`. Coordinates wrap within VRAM
func vramIndex(x, y uint16) uint32 {
	return uint32(x&(VRAM_WIDTH-1)) + VRAM_WIDTH*uint32(y&(VRAM_HEIGHT-1))
}

// Handle writes to the GP1 command register (display control). This port is
// part of the public contract but display control is not emulated yet
func (gpu *GPU) GP1(val uint32) {
	log.Printf("gpu: ignoring GP1 command 0x%08x", val)
}

// Return value of the status register
func (gpu *GPU) Status() uint32 {
	return GPUSTAT_READY
}

// Return value of the GPUREAD register
func (gpu *GPU) Read() uint32 {
	return gpu.Gpuread
}
