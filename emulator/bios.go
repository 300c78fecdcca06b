package emulator

import (
	"fmt"
	"io"
)

const BIOS_SIZE uint32 = 512 * 1024 // BIOS images are always 512KB in length

// This stores the raw BIOS data
type BIOS struct {
	Data []byte // Raw BIOS data
}

// Loads a BIOS from a reader. Note that the BIOS must be 512 * 1024
// bytes in size
func LoadBIOS(r io.Reader) (*BIOS, error) {
	data := make([]byte, BIOS_SIZE)
	n, err := io.ReadFull(r, data)
	if err != nil {
		return nil, err
	}
	if n != int(BIOS_SIZE) {
		return nil, fmt.Errorf("invalid BIOS size (expected %d, got %d (bytes))", BIOS_SIZE, n)
	}
	// success
	return &BIOS{Data: data}, nil
}

// Wraps an in-memory BIOS image. The data is not validated, a short image
// produces undefined fetch results
func BIOSFromData(data []byte) *BIOS {
	return &BIOS{Data: data}
}

// Loads a value at `offset`. Note that `offset` is not the absolute address
// used by the CPU, instead it is an offset in the BIOS memory range
func (bios *BIOS) Load(offset uint32, size AccessSize) interface{} {
	var v uint32 = 0
	sizeI := uint32(size)

	for i := uint32(0); i < sizeI; i++ {
		v |= uint32(bios.Data[offset+i]) << (i * 8)
	}
	return accessSizeU32(size, v)
}
