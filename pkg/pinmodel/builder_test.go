package pinmodel

import (
	"testing"

	"github.com/clintkolodziej/repal/pkg/profile"
)

func identityProfile() *profile.DeviceProfile {
	p := &profile.DeviceProfile{
		Name:           "identity",
		AddressWidth:   1,
		DataWidth:      1,
		OutputPinCount: 1,
		AddressPins:    []int{2},
		DataPins:       []int{12},
		PinNames:       map[int]string{2: "I", 12: "O"},
	}
	return p
}

func TestBuildBasic(t *testing.T) {
	m, err := Build(identityProfile())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Inputs) != 1 || len(m.Outputs) != 1 {
		t.Fatalf("expected 1 input and 1 output, got %d/%d", len(m.Inputs), len(m.Outputs))
	}
	if m.Inputs[0].Name != "I" || m.Inputs[0].BitMask != 1 {
		t.Fatalf("unexpected input pin: %+v", m.Inputs[0])
	}
	if m.Outputs[0].Name != "O" || m.Outputs[0].HiZProbeBitPosition != -1 {
		t.Fatalf("unexpected output pin: %+v", m.Outputs[0])
	}
}

func TestBuildMissingName(t *testing.T) {
	p := identityProfile()
	delete(p.PinNames, 12)
	if _, err := Build(p); err == nil {
		t.Fatalf("expected error for unnamed output pin")
	}
}

func TestBuildHiZProbeFallback(t *testing.T) {
	// Pin 12 appears in both the address and data tables: a genuinely
	// bidirectional pin probed via spec §4.1's literal rule.
	p := &profile.DeviceProfile{
		Name:           "bidi",
		AddressWidth:   1,
		DataWidth:      1,
		OutputPinCount: 1,
		AddressPins:    []int{12},
		DataPins:       []int{12},
		PinNames:       map[int]string{12: "IO"},
	}
	m, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Outputs[0].HiZProbeBitPosition != 0 {
		t.Fatalf("expected hiz probe bit 0 via fallback rule, got %d", m.Outputs[0].HiZProbeBitPosition)
	}
}
