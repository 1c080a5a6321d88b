package pinmodel

// MintermSet is a set of minterms, each an integer in [0, 2^k) for some
// dependency width k. Kept as a map for O(1) membership tests during
// classification (spec §4.3) and closure checks (spec §8 property 3).
type MintermSet map[int]struct{}

func (s MintermSet) Add(m int)      { s[m] = struct{}{} }
func (s MintermSet) Has(m int) bool { _, ok := s[m]; return ok }
func (s MintermSet) Len() int       { return len(s) }

// Pin describes one candidate PAL pin: an input (one per address bit) or an
// output (one per output data bit). See spec §3.
type Pin struct {
	Name        string
	PinNumber   int
	BitPosition int
	BitMask     int

	IsOutput bool

	// Output-only. HiZProbeBitPosition is -1 and HiZProbeBitMask is 0 when
	// the output has no hi-z probe (spec §4.1).
	HiZProbeBitPosition int
	HiZProbeBitMask     int

	SeenHigh bool
	SeenLow  bool

	// Populated by the dependency analyzer (pkg/depend).
	Depends   *PinDependencies
	OEDepends *PinDependencies

	// Populated by the minterm builder (pkg/minterm). Output-equation
	// terms partition {0, ..., 2^|Depends|-1}; OE-equation terms
	// partition {0, ..., 2^|OEDepends|-1} with no don't-cares.
	PositiveTerms   MintermSet
	NegativeTerms   MintermSet
	DontCareTerms   MintermSet
	OEPositiveTerms MintermSet
	OENegativeTerms MintermSet

	// Conditions records the human-readable literal list for each output
	// and OE minterm, keyed the same way as the term sets above. Used
	// only by the truth-table emitter (spec §3); equations are rendered
	// from the minimizer's cover, not from this map.
	Conditions   map[int]string
	OEConditions map[int]string
}

// newPin constructs a Pin with its dependency sets and minterm maps
// initialized, ready for the analyzer and minterm builder to populate.
func newPin(name string, pinNumber, bitPosition int, isOutput bool) *Pin {
	return &Pin{
		Name:                name,
		PinNumber:           pinNumber,
		BitPosition:         bitPosition,
		BitMask:             1 << uint(bitPosition),
		IsOutput:            isOutput,
		HiZProbeBitPosition: -1,
		Depends:             NewPinDependencies(),
		OEDepends:           NewPinDependencies(),
		PositiveTerms:       make(MintermSet),
		NegativeTerms:       make(MintermSet),
		DontCareTerms:       make(MintermSet),
		OEPositiveTerms:     make(MintermSet),
		OENegativeTerms:     make(MintermSet),
		Conditions:          make(map[int]string),
		OEConditions:        make(map[int]string),
	}
}
