package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.config")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileBasic(t *testing.T) {
	path := writeConfig(t, `
# identity buffer profile
profile "test1" {
    address_width = 1
    data_width    = 1
    endianness    = little
    output_count  = 1
    hiz_probes    = 0
    pin 2  = I addr=0
    pin 12 = O  data=0
}
`)

	profiles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	p, ok := profiles["test1"]
	if !ok {
		t.Fatalf("profile test1 not found, got %v", profiles)
	}
	if p.AddressWidth != 1 || p.DataWidth != 1 {
		t.Fatalf("unexpected widths: A=%d D=%d", p.AddressWidth, p.DataWidth)
	}
	if p.AddressPins[0] != 2 || p.DataPins[0] != 12 {
		t.Fatalf("unexpected pin tables: addr=%v data=%v", p.AddressPins, p.DataPins)
	}
	if p.PinNames[2] != "I" || p.PinNames[12] != "O" {
		t.Fatalf("unexpected pin names: %v", p.PinNames)
	}
	if p.ExpectedImageBytes() != 2 {
		t.Fatalf("expected 2 image bytes, got %d", p.ExpectedImageBytes())
	}
}

func TestLoadFileHiZAttribute(t *testing.T) {
	path := writeConfig(t, `
profile "test5" {
    address_width = 2
    data_width    = 1
    output_count  = 1
    hiz_probes    = 1
    pin 2  = I0 addr=0
    pin 3  = I1 addr=1
    pin 12 = O  data=0 hiz=0
}
`)

	profiles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	p := profiles["test5"]
	bit, ok := p.HiZBit(12)
	if !ok || bit != 0 {
		t.Fatalf("expected explicit hiz bit 0 for pin 12, got %d,%v", bit, ok)
	}
}

func TestLoadFileMissingPin(t *testing.T) {
	path := writeConfig(t, `
profile "broken" {
    address_width = 2
    data_width    = 1
    pin 2 = I addr=0
    pin 12 = O data=0
}
`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for incomplete address table")
	} else if !errors.Is(err, ErrProfileParse) {
		t.Fatalf("expected ErrProfileParse, got %v", err)
	}
}

func TestSelectAndAutoSelect(t *testing.T) {
	path := writeConfig(t, `
profile "small" {
    address_width = 1
    data_width    = 1
    pin 2 = I addr=0
    pin 12 = O data=0
}
profile "big" {
    address_width = 2
    data_width    = 1
    pin 2 = I0 addr=0
    pin 3 = I1 addr=1
    pin 12 = O data=0
}
`)
	profiles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if _, err := Select(profiles, "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	p, err := AutoSelect(profiles, 4)
	if err != nil {
		t.Fatalf("AutoSelect: %v", err)
	}
	if p.Name != "big" {
		t.Fatalf("expected big profile for 4 bytes, got %s", p.Name)
	}

	if _, err := AutoSelect(profiles, 999); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound for unmatched size, got %v", err)
	}
}
