package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sorcen/gostation/emulator"
)

// Instructions executed per video frame. The core has no timing model, this
// is simply a batch size that keeps the window responsive
const STEPS_PER_FRAME = 500000

// The BIOS shell entry point. Once the boot code reaches it the kernel is
// initialized and an EXE can be side-loaded safely
const SHELL_ENTRY_PC = 0x80030000

type Game struct {
	Cpu   *emulator.CPU
	Gpu   *emulator.GPU
	Exe   *emulator.Exe // EXE waiting to be side-loaded, nil when done
	Trace *bufio.Writer // Trace log destination, nil when not tracing
	frame *ebiten.Image
}

func (g *Game) Update() error {
	for i := 0; i < STEPS_PER_FRAME; i++ {
		g.stepOnce()
	}
	return nil
}

// Runs one CPU step with the host side hooks applied
func (g *Game) stepOnce() {
	stepOnce(g.Cpu, &g.Exe, g.Trace)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(emulator.VRAM_WIDTH, emulator.VRAM_HEIGHT)
	}
	// the GP0 data phase only advances inside Update, so between frames the
	// VRAM is a stable snapshot
	g.frame.WritePixels(g.Gpu.VramImage().Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return emulator.VRAM_WIDTH, emulator.VRAM_HEIGHT
}

func main() {
	biosPath := flag.String("bios", "SCPH1001.BIN", "path to the BIOS file")
	exePath := flag.String("exe", "", "path to a PS-X EXE to side-load after boot")
	tracePath := flag.String("trace", "", "write an execution trace to this file")
	headless := flag.Bool("headless", false, "run without a display window")
	breakpoint := flag.String("breakpoint", "", "log when execution reaches this address")
	watchRead := flag.String("watch-read", "", "log reads of this memory address")
	watchWrite := flag.String("watch-write", "", "log writes to this memory address")
	flag.Parse()

	bios := loadBios(*biosPath)
	ram := emulator.NewRAM()
	gpu := emulator.NewGPU()
	inter := emulator.NewInterconnect(bios, ram, gpu)
	cpu := emulator.NewCPU(inter)

	if *breakpoint != "" || *watchRead != "" || *watchWrite != "" {
		debugger := emulator.NewDebugger()
		if *breakpoint != "" {
			debugger.AddBreakpoint(parseAddr(*breakpoint))
		}
		if *watchRead != "" {
			debugger.AddReadWatchpoint(parseAddr(*watchRead))
		}
		if *watchWrite != "" {
			debugger.AddWriteWatchpoint(parseAddr(*watchWrite))
		}
		cpu.Debugger = debugger
	}

	var exe *emulator.Exe
	if *exePath != "" {
		exe = loadExe(*exePath)
	}

	var trace *bufio.Writer
	if *tracePath != "" {
		file, err := os.Create(*tracePath)
		if err != nil {
			panic(err)
		}
		defer file.Close()
		trace = bufio.NewWriter(file)
		defer trace.Flush()
	}

	if *headless {
		for {
			stepOnce(cpu, &exe, trace)
		}
	}

	ebiten.SetWindowSize(emulator.VRAM_WIDTH, emulator.VRAM_HEIGHT)
	ebiten.SetWindowTitle("gostation")

	game := &Game{Cpu: cpu, Gpu: gpu, Exe: exe, Trace: trace}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// Runs one CPU step, watching for the side-load point, the BIOS TTY output
// functions and writing the trace log
func stepOnce(cpu *emulator.CPU, exe **emulator.Exe, trace *bufio.Writer) {
	if *exe != nil && cpu.PC == SHELL_ENTRY_PC {
		log.Printf("side-loading EXE at 0x%08x, entry point 0x%08x",
			(*exe).RamDest, (*exe).InitialPC)
		cpu.SideloadExe(*exe)
		*exe = nil
	}

	// the A0h/B0h kernel function dispatchers, r9 selects the function:
	// A0h/0x3C and B0h/0x3D are putchar
	if cpu.PC == 0xa0 && cpu.Reg(9) == 0x3c {
		fmt.Printf("%c", rune(cpu.Reg(4)))
	}
	if cpu.PC == 0xb0 && cpu.Reg(9) == 0x3d {
		fmt.Printf("%c", rune(cpu.Reg(4)))
	}

	if trace != nil {
		fmt.Fprintln(trace, cpu.Disassemble())
	}
	cpu.Step()
}

// Parses a debugger address argument ("0xbfc00000" or decimal)
func parseAddr(s string) uint32 {
	addr, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		panic(err)
	}
	return uint32(addr)
}

func loadBios(path string) *emulator.BIOS {
	log.Printf("loading bios \"%s\"", path)
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	bios, err := emulator.LoadBIOS(file)
	if err != nil {
		panic(err)
	}

	log.Printf("loaded bios in %s", time.Since(start))
	return bios
}

func loadExe(path string) *emulator.Exe {
	log.Printf("loading exe \"%s\"", path)

	file, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	exe, err := emulator.LoadExe(file)
	if err != nil {
		panic(err)
	}
	return exe
}
