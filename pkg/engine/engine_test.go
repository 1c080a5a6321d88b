package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/clintkolodziej/repal/pkg/equations"
	"github.com/clintkolodziej/repal/pkg/image"
	"github.com/clintkolodziej/repal/pkg/profile"
)

func andProfile() *profile.DeviceProfile {
	return &profile.DeviceProfile{
		Name: "test", Device: "P16L8",
		AddressWidth: 2, DataWidth: 1, OutputPinCount: 1,
		AddressPins: []int{1, 2},
		DataPins:    []int{19},
		PinNames:    map[int]string{1: "I0", 2: "I1", 19: "O"},
	}
}

// S4 end to end: O = I0&I1 through the full pipeline.
func TestRunEndToEnd(t *testing.T) {
	p := andProfile()
	img := &image.MemoryImage{Words: []uint32{0, 0, 0, 1}}

	res, err := Run(context.Background(), p, img, Options{
		Header:     equations.Header{Name: "t", Device: p.Device},
		Polarity:   equations.Auto,
		OEPolarity: equations.Auto,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(res.Equations, "O = I0&I1;") {
		t.Fatalf("expected O = I0&I1; in equations, got:\n%s", res.Equations)
	}
	if res.TruthTable != "" {
		t.Fatalf("expected no truth table unless requested, got %q", res.TruthTable)
	}
}

func TestRunWithTruthTableAndParallel(t *testing.T) {
	p := andProfile()
	img := &image.MemoryImage{Words: []uint32{0, 0, 0, 1}}

	res, err := Run(context.Background(), p, img, Options{
		Header:     equations.Header{Name: "t", Device: p.Device},
		Polarity:   equations.Auto,
		OEPolarity: equations.Auto,
		Parallel:   true,
		TruthTable: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(res.TruthTable, "O = I0&I1;") {
		t.Fatalf("expected truth table line, got:\n%s", res.TruthTable)
	}
}

// Progress must report from every phase without deadlocking, draining
// concurrently with Run as the pipeline produces updates.
func TestRunProgressReporting(t *testing.T) {
	p := andProfile()
	img := &image.MemoryImage{Words: []uint32{0, 0, 0, 1}}

	progress := make(chan Progress)
	var seenPhases []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for pr := range progress {
			seenPhases = append(seenPhases, pr.Phase)
		}
	}()

	_, err := Run(context.Background(), p, img, Options{
		Header:   equations.Header{Name: "t", Device: p.Device},
		Progress: progress,
	})
	close(progress)
	<-done
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]bool{PhaseModel: false, PhaseDepend: false, PhaseMinterm: false, PhaseEmit: false}
	for _, ph := range seenPhases {
		want[ph] = true
	}
	for ph, seen := range want {
		if !seen {
			t.Fatalf("expected to observe phase %q, saw %v", ph, seenPhases)
		}
	}
}

func TestRunBadProfileFailsFast(t *testing.T) {
	p := &profile.DeviceProfile{AddressWidth: 2, DataWidth: 1, OutputPinCount: 1, AddressPins: []int{1, 2}, DataPins: []int{99}, PinNames: map[int]string{1: "I0", 2: "I1"}}
	img := &image.MemoryImage{Words: []uint32{0, 0, 0, 0}}

	if _, err := Run(context.Background(), p, img, Options{}); err == nil {
		t.Fatalf("expected error for unnamed data pin")
	}
}
