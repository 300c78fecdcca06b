package emulator

import (
	"image"
	"image/color"
)

// Returns the RGBA color of the VRAM pixel at `x`,`y`. The 5 bit channels
// are expanded to 8 bits
func (gpu *GPU) VramColorAt(x, y int) color.RGBA {
	val := gpu.Vram[vramIndex(uint16(x), uint16(y))]

	r := uint8(((val & 0x1f) << 3) | ((val & 0x1f) >> 2))
	g := uint8((((val >> 5) & 0x1f) << 3) | (((val >> 5) & 0x1f) >> 2))
	b := uint8((((val >> 10) & 0x1f) << 3) | (((val >> 10) & 0x1f) >> 2))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Converts the VRAM contents to an image.RGBA snapshot. The caller must not
// invoke it while a GPU transfer command is mid-stream, the core exposes no
// internal synchronization
func (gpu *GPU) VramImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, VRAM_WIDTH, VRAM_HEIGHT))

	for y := 0; y < VRAM_HEIGHT; y++ {
		for x := 0; x < VRAM_WIDTH; x++ {
			img.SetRGBA(x, y, gpu.VramColorAt(x, y))
		}
	}
	return img
}
