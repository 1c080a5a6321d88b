// Package image reads and decodes the binary EPROM dump into an in-memory
// MemoryImage: a flat array of words indexed directly by EPROM address.
package image

import (
	"errors"
	"fmt"
	"os"

	"github.com/clintkolodziej/repal/pkg/profile"
)

// ErrSizeMismatch is returned when the dump file's length does not equal
// the profile's expected 2^A * ceil(D/8) bytes.
var ErrSizeMismatch = errors.New("image: size mismatch")

// MemoryImage is the decoded dump: Words[addr] is the data word observed at
// EPROM address addr, each in [0, 2^D).
type MemoryImage struct {
	Words []uint32
}

// Len returns the number of addresses in the image (2^A).
func (m *MemoryImage) Len() int { return len(m.Words) }

// At returns the word at addr. The dependency analyzer indexes Words
// directly in its inner loop (spec §4.2); the minterm builder reads the
// image through this accessor.
func (m *MemoryImage) At(addr int) uint32 { return m.Words[addr] }

// Load reads a raw dump file from path and decodes it according to p's
// address width, data width, and endianness.
func Load(path string, p *profile.DeviceProfile) (*MemoryImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: read %s: %w", path, err)
	}
	return Decode(data, p)
}

// Decode validates raw's length against the profile and unpacks it into a
// MemoryImage.
func Decode(raw []byte, p *profile.DeviceProfile) (*MemoryImage, error) {
	expected := p.ExpectedImageBytes()
	if int64(len(raw)) != expected {
		return nil, fmt.Errorf("%w: got %d bytes, profile %q expects %d", ErrSizeMismatch, len(raw), p.Name, expected)
	}

	wordBytes := (p.DataWidth + 7) / 8
	count := 1 << uint(p.AddressWidth)
	words := make([]uint32, count)

	for addr := 0; addr < count; addr++ {
		off := addr * wordBytes
		words[addr] = decodeWord(raw[off:off+wordBytes], p.Endianness)
	}

	return &MemoryImage{Words: words}, nil
}

func decodeWord(b []byte, e profile.Endianness) uint32 {
	var v uint32
	if e == profile.BigEndian {
		for _, c := range b {
			v = (v << 8) | uint32(c)
		}
		return v
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = (v << 8) | uint32(b[i])
	}
	return v
}
