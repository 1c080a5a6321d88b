// Package profile loads PAL device profiles from a declarative config file
// and exposes the DeviceProfile shared data model consumed by every
// downstream stage of the logic extraction engine.
package profile

import (
	"fmt"
)

// Endianness selects how words are decoded from the memory image.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// DeviceProfile is the immutable, declarative description of one PAL
// family, as read from a "profile NAME { ... }" block. See spec §3.
type DeviceProfile struct {
	Name       string // profile block name, used for --device-type matching
	Device     string // PAL part number printed in the equations header; falls back to Name
	Endianness Endianness

	AddressWidth int // A: number of EPROM address lines
	DataWidth    int // D: number of EPROM data lines

	// AddressPins[bitPos] and DataPins[bitPos] give the PAL pin number
	// wired to that EPROM address/data bit. Both are fully populated
	// (length AddressWidth / DataWidth) after a successful parse.
	AddressPins []int
	DataPins    []int

	// PinNames maps a PAL pin number to its symbolic name.
	PinNames map[int]string

	OutputPinCount int // O: number of output pins, O <= DataWidth
	HiZProbePins   int // H: number of high-address hi-z probe bits, H <= AddressWidth

	// hiZBit, keyed by output PAL pin number, records an explicitly
	// declared hi-z probe address bit ("hiz=N" pin attribute). When a
	// probing adapter line is a physically distinct PAL pin from the
	// output it probes (see DESIGN.md, open question "hiz probe
	// identity"), this is how the association is expressed; when absent,
	// the pin model builder falls back to spec §4.1's rule of looking up
	// the output's own pin number inside AddressPins.
	hiZBit map[int]int
}

// ExpectedImageBytes returns the exact byte length a memory image dump
// must have to match this profile: 2^A words of ceil(D/8) bytes each.
func (p *DeviceProfile) ExpectedImageBytes() int64 {
	wordBytes := (p.DataWidth + 7) / 8
	return (int64(1) << uint(p.AddressWidth)) * int64(wordBytes)
}

// HiZBit returns the explicitly declared hi-z probe address bit for the
// given output PAL pin number, if the profile declared one.
func (p *DeviceProfile) HiZBit(palPin int) (int, bool) {
	bit, ok := p.hiZBit[palPin]
	return bit, ok
}

// validate checks the structural invariants from spec §3: widths consistent
// with the pin tables, H <= A, O <= D.
func (p *DeviceProfile) validate() error {
	if p.AddressWidth <= 0 {
		return fmt.Errorf("%w: profile %q: address_width must be positive", ErrProfileParse, p.Name)
	}
	if p.DataWidth <= 0 {
		return fmt.Errorf("%w: profile %q: data_width must be positive", ErrProfileParse, p.Name)
	}
	if len(p.AddressPins) != p.AddressWidth {
		return fmt.Errorf("%w: profile %q: declared address_width %d but %d address pins assigned",
			ErrProfileParse, p.Name, p.AddressWidth, len(p.AddressPins))
	}
	if len(p.DataPins) != p.DataWidth {
		return fmt.Errorf("%w: profile %q: declared data_width %d but %d data pins assigned",
			ErrProfileParse, p.Name, p.DataWidth, len(p.DataPins))
	}
	if p.HiZProbePins > p.AddressWidth {
		return fmt.Errorf("%w: profile %q: hiz_probes %d exceeds address_width %d",
			ErrProfileParse, p.Name, p.HiZProbePins, p.AddressWidth)
	}
	if p.OutputPinCount > p.DataWidth {
		return fmt.Errorf("%w: profile %q: output_count %d exceeds data_width %d",
			ErrProfileParse, p.Name, p.OutputPinCount, p.DataWidth)
	}
	for bit, pin := range p.AddressPins {
		if _, ok := p.PinNames[pin]; !ok {
			return fmt.Errorf("%w: profile %q: address bit %d references unnamed pin %d",
				ErrProfileParse, p.Name, bit, pin)
		}
	}
	for bit, pin := range p.DataPins {
		if _, ok := p.PinNames[pin]; !ok {
			return fmt.Errorf("%w: profile %q: data bit %d references unnamed pin %d",
				ErrProfileParse, p.Name, bit, pin)
		}
	}
	return nil
}

// Select returns the named profile, or ErrProfileNotFound.
func Select(profiles map[string]*DeviceProfile, name string) (*DeviceProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}

// AutoSelect picks the profile whose ExpectedImageBytes matches fileSize
// exactly. It fails if zero or more than one profile matches, since
// auto-detection must be unambiguous.
func AutoSelect(profiles map[string]*DeviceProfile, fileSize int64) (*DeviceProfile, error) {
	var match *DeviceProfile
	for _, p := range profiles {
		if p.ExpectedImageBytes() == fileSize {
			if match != nil {
				return nil, fmt.Errorf("%w: file size %d bytes matches multiple profiles (%q and %q); specify --device-type",
					ErrProfileNotFound, fileSize, match.Name, p.Name)
			}
			match = p
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: no profile matches file size %d bytes", ErrProfileNotFound, fileSize)
	}
	return match, nil
}
