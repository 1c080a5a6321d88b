package pinmodel

import (
	"fmt"

	"github.com/clintkolodziej/repal/pkg/profile"
)

// Model holds the candidate input and output pins built from a device
// profile, ready for the dependency analyzer.
type Model struct {
	Inputs  []*Pin
	Outputs []*Pin
}

// Build constructs exactly A input-pin records and O output-pin records
// from p, per spec §4.1. It fails if any referenced PAL pin has no name in
// the profile.
func Build(p *profile.DeviceProfile) (*Model, error) {
	m := &Model{
		Inputs:  make([]*Pin, 0, p.AddressWidth),
		Outputs: make([]*Pin, 0, p.OutputPinCount),
	}

	for bit := 0; bit < p.AddressWidth; bit++ {
		pinNumber := p.AddressPins[bit]
		name, ok := p.PinNames[pinNumber]
		if !ok {
			return nil, fmt.Errorf("pinmodel: address bit %d references pin %d with no name", bit, pinNumber)
		}
		m.Inputs = append(m.Inputs, newPin(name, pinNumber, bit, false))
	}

	for bit := 0; bit < p.OutputPinCount; bit++ {
		pinNumber := p.DataPins[bit]
		name, ok := p.PinNames[pinNumber]
		if !ok {
			return nil, fmt.Errorf("pinmodel: data bit %d references pin %d with no name", bit, pinNumber)
		}
		out := newPin(name, pinNumber, bit, true)
		if probeBit, ok := resolveHiZProbe(p, pinNumber); ok {
			out.HiZProbeBitPosition = probeBit
			out.HiZProbeBitMask = 1 << uint(probeBit)
		}
		m.Outputs = append(m.Outputs, out)
	}

	return m, nil
}

// resolveHiZProbe finds the address bit that externally forces outputPin
// to hi-z. It first honors an explicit "hiz=N" pin attribute in the
// profile (the common case: the probe line is a dedicated adapter signal
// with its own pin number and name, distinct from the output it probes —
// see DESIGN.md's note on scenario S5). Failing that, it falls back to
// spec §4.1's literal rule: the output's own pin number also appears
// somewhere in the address table, because the same physical bidirectional
// pin is wired to both an address line (for external override) and a data
// line (for reading back the driven value).
func resolveHiZProbe(p *profile.DeviceProfile, outputPin int) (int, bool) {
	if bit, ok := p.HiZBit(outputPin); ok {
		return bit, true
	}
	for bit, pin := range p.AddressPins {
		if pin == outputPin {
			return bit, true
		}
	}
	return 0, false
}
