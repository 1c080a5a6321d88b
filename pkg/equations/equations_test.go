package equations

import (
	"strings"
	"testing"

	"github.com/clintkolodziej/repal/pkg/pinmodel"
	"github.com/clintkolodziej/repal/pkg/profile"
)

func andPin() *pinmodel.Pin {
	op := &pinmodel.Pin{
		Name: "O", PinNumber: 19, BitMask: 1,
		Depends:       pinmodel.NewPinDependencies(),
		OEDepends:     pinmodel.NewPinDependencies(),
		PositiveTerms: make(pinmodel.MintermSet), NegativeTerms: make(pinmodel.MintermSet),
		DontCareTerms: make(pinmodel.MintermSet), Conditions: make(map[int]string),
	}
	op.Depends.Add(1, "I0")
	op.Depends.Add(2, "I1")
	op.Depends.Finalize()
	op.OEDepends.Finalize()
	op.SeenHigh, op.SeenLow = true, true
	op.PositiveTerms.Add(3)
	op.NegativeTerms.Add(0)
	op.NegativeTerms.Add(1)
	op.NegativeTerms.Add(2)
	op.Conditions[0] = "!I0&!I1"
	op.Conditions[1] = "I0&!I1"
	op.Conditions[2] = "!I0&I1"
	op.Conditions[3] = "I0&I1"
	return op
}

// S4: O = I0&I1. Auto polarity should favor the single-product positive
// form over the two-product negative form.
func TestRenderOutputEquationAutoPicksCheaperPolarity(t *testing.T) {
	op := andPin()
	eq, err := renderOutputEquation(op, Auto)
	if err != nil {
		t.Fatalf("renderOutputEquation: %v", err)
	}
	if eq != "O = I0&I1;" {
		t.Fatalf("unexpected equation: %q", eq)
	}
}

func TestRenderOutputEquationBothPolarities(t *testing.T) {
	op := andPin()
	eq, err := renderOutputEquation(op, Both)
	if err != nil {
		t.Fatalf("renderOutputEquation: %v", err)
	}
	if !strings.Contains(eq, "O = I0&I1;") || !strings.Contains(eq, "!O = ") {
		t.Fatalf("expected both polarities, got %q", eq)
	}
}

func constantPin(seenHigh bool) *pinmodel.Pin {
	op := &pinmodel.Pin{
		Name: "O", PinNumber: 19,
		Depends:   pinmodel.NewPinDependencies(),
		OEDepends: pinmodel.NewPinDependencies(),
	}
	op.Depends.Finalize()
	op.OEDepends.Finalize()
	op.SeenHigh = seenHigh
	op.SeenLow = !seenHigh
	return op
}

func TestRenderOutputEquationConstant(t *testing.T) {
	eq, err := renderOutputEquation(constantPin(true), Auto)
	if err != nil {
		t.Fatalf("renderOutputEquation: %v", err)
	}
	if eq != "O = 'b'1;" {
		t.Fatalf("unexpected constant equation: %q", eq)
	}

	eq, err = renderOutputEquation(constantPin(false), Auto)
	if err != nil {
		t.Fatalf("renderOutputEquation: %v", err)
	}
	if eq != "O = 'b'0;" {
		t.Fatalf("unexpected constant equation: %q", eq)
	}
}

func TestRenderFull(t *testing.T) {
	p := &profile.DeviceProfile{
		Name: "test", Device: "P16L8",
		AddressWidth: 2, DataWidth: 1,
		AddressPins: []int{1, 2},
		DataPins:    []int{19},
		PinNames:    map[int]string{1: "I0", 2: "I1", 19: "O"},
	}
	model := &pinmodel.Model{
		Inputs:  []*pinmodel.Pin{{Name: "I0", PinNumber: 1, BitMask: 1}, {Name: "I1", PinNumber: 2, BitMask: 2}},
		Outputs: []*pinmodel.Pin{andPin()},
	}

	out, err := Render(model, p, Header{Name: "test", Device: "P16L8"}, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"Name", "test", "P16L8", "pin 1", "pin 2", "pin 19", "Dedicated input", "Combinatorial output", "Output equations", "Output enable equations", "O = I0&I1;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderTruthTable(t *testing.T) {
	model := &pinmodel.Model{Outputs: []*pinmodel.Pin{andPin()}}
	tt := RenderTruthTable(model)
	if !strings.Contains(tt, "O = I0&I1;") {
		t.Fatalf("expected positive truth line, got:\n%s", tt)
	}
	if !strings.Contains(tt, "!O = !I0&!I1 # I0&!I1 # !I0&I1;") {
		t.Fatalf("expected negative truth line, got:\n%s", tt)
	}
}
