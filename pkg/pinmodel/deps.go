package pinmodel

import "sort"

// PinDependencies is the set of input bits a pin's behavior was observed to
// depend on, modeled as a single invariant-enforcing record rather than
// three independently-mutated parallel fields (spec §9 design note):
// Bitmap is always the bitwise OR of Bits, and Bits/Names are always kept
// sorted ascending and the same length.
//
// Callers build one with NewPinDependencies, repeatedly call Add during the
// scan (normally from the dependency analyzer), then call Finalize exactly
// once to freeze the sorted view.
type PinDependencies struct {
	Bitmap int
	Bits   []int
	Names  []string

	seen map[int]string // bit mask -> pin name, cleared by Finalize
}

// NewPinDependencies returns an empty, mutable dependency set.
func NewPinDependencies() *PinDependencies {
	return &PinDependencies{seen: make(map[int]string)}
}

// Add records that the input bit identified by mask (with the given pin
// name) affects this pin. Idempotent: adding the same mask twice is a
// no-op.
func (d *PinDependencies) Add(mask int, name string) {
	if _, ok := d.seen[mask]; ok {
		return
	}
	d.seen[mask] = name
	d.Bitmap |= mask
}

// Has reports whether mask has already been recorded.
func (d *PinDependencies) Has(mask int) bool {
	_, ok := d.seen[mask]
	return ok
}

// Finalize sorts the recorded bits ascending and freezes Bits/Names. Once
// called, Add must not be called again.
func (d *PinDependencies) Finalize() {
	bits := make([]int, 0, len(d.seen))
	for m := range d.seen {
		bits = append(bits, m)
	}
	sort.Ints(bits)

	d.Bits = bits
	d.Names = make([]string, len(bits))
	for i, m := range bits {
		d.Names[i] = d.seen[m]
	}
	d.seen = nil
}

// Len returns the number of dependency bits, i.e. k in spec §4.3's
// "2^k sub-addresses".
func (d *PinDependencies) Len() int { return len(d.Bits) }
