// Package minterm enumerates and classifies the minterms of each output
// pin's output equation and OE equation, given the dependency sets the
// analyzer already discovered. See spec §4.3.
package minterm

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/clintkolodziej/repal/pkg/image"
	"github.com/clintkolodziej/repal/pkg/pinmodel"
	"github.com/clintkolodziej/repal/pkg/profile"
)

// ErrNoDrive is returned when a relevant combination is hi-z at its own
// address and no probe-adjusted address in the pin's OE dependency space
// is ever driven. It indicates an incomplete dump or the wrong device
// profile and must not be silently downgraded to a don't-care (spec §9
// open question).
var ErrNoDrive = errors.New("minterm: no drive found for combination")

// Context holds the image and profile constants needed by the relevance
// test across every pin.
type Context struct {
	Image   *image.MemoryImage
	Profile *profile.DeviceProfile

	hizInputMask int
	hizDataMask  int
}

// NewContext derives the device-wide hi-z probe channel masks from p: the
// top H address bits (the probe settings) and the top D-H data bits (the
// functional, non-probe-channel data bits), per spec §4.3.
func NewContext(img *image.MemoryImage, p *profile.DeviceProfile) *Context {
	c := &Context{Image: img, Profile: p}
	h := p.HiZProbePins
	a := p.AddressWidth
	d := p.DataWidth
	if h > 0 {
		c.hizInputMask = ((1 << uint(h)) - 1) << uint(a-h)
		if d-h > 0 {
			c.hizDataMask = ((1 << uint(d-h)) - 1) << uint(h)
		}
	}
	return c
}

// Progress reports incremental completion of the per-output classification,
// mirroring pkg/depend.Progress's shape.
type Progress struct {
	Index int
	Total int
	Pin   string
}

// Options controls Build's execution.
type Options struct {
	// Parallel classifies output pins concurrently. Safe for the same
	// reason as pkg/depend's Parallel option: each pin only reads the
	// shared image/profile and writes exclusively to its own term sets
	// (spec §5).
	Parallel bool

	// Progress, if non-nil, receives one update per completed output pin.
	// The caller must drain it (or leave it nil).
	Progress chan<- Progress
}

// Build classifies every minterm of every output pin's output equation and
// OE equation, populating the pin's term sets and truth-table conditions.
func (c *Context) Build(model *pinmodel.Model) error {
	return c.BuildWithOptions(model, Options{})
}

// BuildWithOptions is Build with control over parallelism and progress
// reporting.
func (c *Context) BuildWithOptions(model *pinmodel.Model, opts Options) error {
	n := len(model.Outputs)
	if opts.Parallel && n > 1 {
		return c.buildParallel(model, opts)
	}

	for i, op := range model.Outputs {
		if err := c.buildOne(op); err != nil {
			return err
		}
		reportProgress(opts.Progress, i, n, op.Name)
	}
	return nil
}

func (c *Context) buildOne(op *pinmodel.Pin) error {
	if op.Depends.Bitmap != 0 {
		if err := c.buildOutputTerms(op); err != nil {
			return fmt.Errorf("minterm: pin %s: %w", op.Name, err)
		}
	}
	if op.OEDepends.Bitmap != 0 {
		c.buildOETerms(op)
	}
	return nil
}

func (c *Context) buildParallel(model *pinmodel.Model, opts Options) error {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	var mu sync.Mutex
	var firstErr error
	completed := 0
	total := len(model.Outputs)

	for _, op := range model.Outputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(op *pinmodel.Pin) {
			defer wg.Done()
			defer func() { <-sem }()

			err := c.buildOne(op)

			mu.Lock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			completed++
			reportProgress(opts.Progress, completed-1, total, op.Name)
			mu.Unlock()
		}(op)
	}
	wg.Wait()
	return firstErr
}

func reportProgress(ch chan<- Progress, index, total int, name string) {
	if ch == nil {
		return
	}
	ch <- Progress{Index: index, Total: total, Pin: name}
}

func (c *Context) buildOutputTerms(op *pinmodel.Pin) error {
	k := op.Depends.Len()
	for m := 0; m < (1 << uint(k)); m++ {
		addr := addrForMinterm(op.Depends.Bits, m)
		if !c.relevant(addr, op) {
			op.DontCareTerms.Add(m)
		} else {
			val, err := c.effectiveValue(addr, op)
			if err != nil {
				return err
			}
			if val {
				op.PositiveTerms.Add(m)
			} else {
				op.NegativeTerms.Add(m)
			}
		}
		op.Conditions[m] = condition(op.Depends.Names, m)
	}
	return nil
}

func (c *Context) buildOETerms(op *pinmodel.Pin) {
	mask := op.BitMask
	probeMask := op.HiZProbeBitMask
	k := op.OEDepends.Len()
	for m := 0; m < (1 << uint(k)); m++ {
		addr := addrForMinterm(op.OEDepends.Bits, m)
		enabled := c.Image.At(addr)&uint32(mask) == c.Image.At(addr^probeMask)&uint32(mask)
		if enabled {
			op.OEPositiveTerms.Add(m)
		} else {
			op.OENegativeTerms.Add(m)
		}
		op.OEConditions[m] = condition(op.OEDepends.Names, m)
	}
}

// relevant implements spec §4.3's don't-care test: addr (with its
// dependency bits already fixed by the caller) is relevant iff some
// setting of the free hi-z probe bits makes the probe channel agree with
// the recorded data.
func (c *Context) relevant(addr int, op *pinmodel.Pin) bool {
	if c.hizInputMask == 0 {
		return true
	}
	a := c.Profile.AddressWidth
	h := c.Profile.HiZProbePins
	free := ^op.Depends.Bitmap & c.hizInputMask

	for _, p := range submasksOf(free) {
		addrPrime := addr | p
		probeValue := (addrPrime & c.hizInputMask) >> uint(a-h)
		dataValue := int(c.Image.At(addrPrime)) &^ c.hizDataMask
		if probeValue == dataValue {
			return true
		}
	}
	return false
}

// effectiveValue implements spec §4.3's effective-output-value rule for a
// relevant combination: use the direct reading if it agrees with its
// probe-toggled twin (the PAL is driving); otherwise search the OE
// dependency space for a probe-adjusted address that is driven.
func (c *Context) effectiveValue(addr int, op *pinmodel.Pin) (bool, error) {
	mask := uint32(op.BitMask)
	probeMask := op.HiZProbeBitMask

	if probeMask == 0 {
		return c.Image.At(addr)&mask != 0, nil
	}

	direct := c.Image.At(addr) & mask
	toggled := c.Image.At(addr^probeMask) & mask
	if direct == toggled {
		return direct != 0, nil
	}

	base := addr &^ op.OEDepends.Bitmap
	for _, s := range submasksOf(op.OEDepends.Bitmap) {
		addr2 := base | s
		d2 := c.Image.At(addr2) & mask
		t2 := c.Image.At(addr2^probeMask) & mask
		if d2 == t2 {
			return d2 != 0, nil
		}
	}
	return false, fmt.Errorf("%w: pin %s", ErrNoDrive, op.Name)
}

func addrForMinterm(bits []int, m int) int {
	addr := 0
	for i, b := range bits {
		if m&(1<<uint(i)) != 0 {
			addr |= b
		}
	}
	return addr
}

func condition(names []string, m int) string {
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('&')
		}
		if m&(1<<uint(i)) == 0 {
			sb.WriteByte('!')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// submasksOf yields every integer whose 1-bits are a subset of m's 1-bits,
// in ascending order from 0 to m, using the (x-m)&m trick from spec §9.
// Always includes 0, even when m is 0.
func submasksOf(m int) []int {
	subs := make([]int, 0, 1)
	for x := 0; ; x = (x - m) & m {
		subs = append(subs, x)
		if x == m {
			break
		}
	}
	return subs
}
