package emulator

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PS-X EXE header layout. The header occupies the first 0x800 bytes of the
// file, the program text follows
const (
	EXE_HEADER_SIZE = 0x800
	EXE_PC_OFFSET   = 0x10 // Initial program counter
	EXE_GP_OFFSET   = 0x14 // Initial global pointer (r28)
	EXE_DEST_OFFSET = 0x18 // Destination address in RAM
	EXE_SIZE_OFFSET = 0x1c // Program text size in bytes
)

// A decoded PS-X EXE ready to be side-loaded into RAM
type Exe struct {
	InitialPC uint32 // Entry point
	InitialGP uint32 // Initial value of the global pointer register
	RamDest   uint32 // Address the text is copied to
	Size      uint32 // Declared text size in bytes
	Text      []byte // Program text (everything after the header)
}

// Decodes a PS-X EXE from a reader. Only the size of the header is checked,
// the field values are trusted as-is
func LoadExe(r io.Reader) (*Exe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < EXE_HEADER_SIZE {
		return nil, fmt.Errorf("invalid EXE: %d bytes is smaller than the %d byte header",
			len(data), EXE_HEADER_SIZE)
	}

	exe := &Exe{
		InitialPC: binary.LittleEndian.Uint32(data[EXE_PC_OFFSET:]),
		InitialGP: binary.LittleEndian.Uint32(data[EXE_GP_OFFSET:]),
		RamDest:   binary.LittleEndian.Uint32(data[EXE_DEST_OFFSET:]),
		Size:      binary.LittleEndian.Uint32(data[EXE_SIZE_OFFSET:]),
		Text:      data[EXE_HEADER_SIZE:],
	}
	return exe, nil
}
