// Package depend implements the dependency analyzer: a full sweep of the
// memory image that, per output pin, discovers which inputs affect its
// driven value (Depends) and which affect its drive/hi-z state
// (OEDepends). See spec §4.2.
package depend

import (
	"runtime"
	"sync"

	"github.com/clintkolodziej/repal/pkg/image"
	"github.com/clintkolodziej/repal/pkg/pinmodel"
)

// Progress reports incremental completion of the per-output scan, mirroring
// the teacher's reveng.Progress shape (phase/index/total/name).
type Progress struct {
	Index int
	Total int
	Pin   string
}

// Options controls the analyzer's execution.
type Options struct {
	// Parallel processes output pins concurrently. Safe because the scan
	// only reads the memory image and writes exclusively to its own
	// pin's Depends/OEDepends/SeenHigh/SeenLow (spec §5: "implementations
	// that wish to parallelize may process output pins independently").
	Parallel bool

	// Progress, if non-nil, receives one update per completed output
	// pin. The caller must drain it (or leave it nil).
	Progress chan<- Progress
}

// Analyze fills Depends, OEDepends, SeenHigh and SeenLow on every output
// pin in model, then finalizes each pin's dependency sets (sorts bits
// ascending, freezes the bitmap).
func Analyze(img *image.MemoryImage, model *pinmodel.Model, opts Options) {
	n := len(model.Outputs)

	if opts.Parallel && n > 1 {
		analyzeParallel(img, model, opts)
	} else {
		for i, op := range model.Outputs {
			analyzeOutput(img, model.Inputs, op)
			reportProgress(opts.Progress, i, n, op.Name)
		}
	}

	for _, op := range model.Outputs {
		op.Depends.Finalize()
		op.OEDepends.Finalize()
	}
}

func analyzeParallel(img *image.MemoryImage, model *pinmodel.Model, opts Options) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	var mu sync.Mutex
	completed := 0
	total := len(model.Outputs)

	for _, op := range model.Outputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(op *pinmodel.Pin) {
			defer wg.Done()
			defer func() { <-sem }()

			analyzeOutput(img, model.Inputs, op)

			mu.Lock()
			completed++
			reportProgress(opts.Progress, completed-1, total, op.Name)
			mu.Unlock()
		}(op)
	}
	wg.Wait()
}

func reportProgress(ch chan<- Progress, index, total int, name string) {
	if ch == nil {
		return
	}
	ch <- Progress{Index: index, Total: total, Pin: name}
}

// analyzeOutput runs spec §4.2's algorithm for a single output pin against
// every candidate input pin.
func analyzeOutput(img *image.MemoryImage, inputs []*pinmodel.Pin, op *pinmodel.Pin) {
	words := img.Words
	n := len(words)
	mask := op.BitMask
	probeMask := op.HiZProbeBitMask

	// The probe's own address bit cannot, by construction, ever toggle
	// through the loop below without tripping the hiz-probe skip (any
	// address pair where this bit differs necessarily has the probe set
	// in one member). Its effect on drive/enable is therefore structural,
	// not discovered: whenever an output has a probe bit, that bit is the
	// adapter's hi-z override line, so the output is only ever actively
	// driven while the probe is deasserted. We record that directly
	// (DESIGN.md: "probe pin's own OE contribution").
	if probeMask != 0 {
		if probe := findInput(inputs, probeMask); probe != nil {
			op.OEDepends.Add(probeMask, probe.Name)
		}
	}

	for addr0 := 0; addr0 < n; addr0++ {
		for _, ip := range inputs {
			if ip.BitMask == probeMask {
				continue
			}
			if addr0&ip.BitMask != 0 {
				continue
			}
			addr1 := addr0 | ip.BitMask

			if probeMask != 0 && (addr0&probeMask != 0 || addr1&probeMask != 0) {
				continue
			}

			d0 := words[addr0]
			d1 := words[addr1]

			var isHiz0, isHiz1 bool
			if probeMask != 0 {
				isHiz0 = (d0 & mask) != (words[addr0^probeMask] & mask)
				isHiz1 = (d1 & mask) != (words[addr1^probeMask] & mask)
			}

			if isHiz0 != isHiz1 {
				op.OEDepends.Add(ip.BitMask, ip.Name)
			}

			if !isHiz0 && !isHiz1 && (d0&mask) != (d1&mask) {
				op.Depends.Add(ip.BitMask, ip.Name)
			}

			if !isHiz0 {
				markSeen(op, d0&mask != 0)
			}
			if !isHiz1 {
				markSeen(op, d1&mask != 0)
			}
		}
	}
}

func markSeen(op *pinmodel.Pin, high bool) {
	if high {
		op.SeenHigh = true
	} else {
		op.SeenLow = true
	}
}

func findInput(inputs []*pinmodel.Pin, mask int) *pinmodel.Pin {
	for _, ip := range inputs {
		if ip.BitMask == mask {
			return ip
		}
	}
	return nil
}
