// Package engine orchestrates the full pipeline spec §2 describes: device
// profile and memory image in, pin model out, through the dependency
// analyzer and minterm builder, to a rendered equations (and optional
// truth-table) file.
package engine

import (
	"context"
	"fmt"

	"github.com/clintkolodziej/repal/pkg/depend"
	"github.com/clintkolodziej/repal/pkg/equations"
	"github.com/clintkolodziej/repal/pkg/image"
	"github.com/clintkolodziej/repal/pkg/minterm"
	"github.com/clintkolodziej/repal/pkg/pinmodel"
	"github.com/clintkolodziej/repal/pkg/profile"
)

// Phase names reported on the Progress channel.
const (
	PhaseModel   = "model"
	PhaseDepend  = "depend"
	PhaseMinterm = "minterm"
	PhaseEmit    = "emit"
)

// Progress reports incremental pipeline completion, mirroring the
// teacher's reveng.Progress shape (phase/index/total/pin name).
type Progress struct {
	Phase string
	Index int
	Total int
	Pin   string
}

// Options controls the pipeline's execution.
type Options struct {
	Header     equations.Header
	Polarity   equations.Polarity
	OEPolarity equations.Polarity

	// Parallel fans the dependency analyzer and minterm builder out over
	// a bounded worker pool, one output pin per task (spec §5, §10.3).
	Parallel bool

	// TruthTable additionally renders the optional truth-table output.
	TruthTable bool

	// Progress, if non-nil, receives updates from every phase. The caller
	// must drain it (or leave it nil).
	Progress chan<- Progress
}

// Result is everything the pipeline produced.
type Result struct {
	Model      *pinmodel.Model
	Equations  string
	TruthTable string // empty unless Options.TruthTable was set
}

// Run executes the full pipeline against a profile and an already-decoded
// memory image. ctx is checked between phases; per spec §5 the core is a
// single-threaded, non-blocking batch computation with no internal
// suspension points, so cancellation is only ever observed at a phase
// boundary, never mid-sweep.
func Run(ctx context.Context, p *profile.DeviceProfile, img *image.MemoryImage, opts Options) (*Result, error) {
	reportPhase(opts.Progress, PhaseModel, 0, 1, "")
	model, err := pinmodel.Build(p)
	if err != nil {
		return nil, fmt.Errorf("engine: build pin model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := runDepend(ctx, img, model, opts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := runMinterm(ctx, img, p, model, opts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reportPhase(opts.Progress, PhaseEmit, 0, 1, "")
	eqText, err := equations.Render(model, p, opts.Header, equations.Options{
		Polarity:   opts.Polarity,
		OEPolarity: opts.OEPolarity,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: render equations: %w", err)
	}

	res := &Result{Model: model, Equations: eqText}
	if opts.TruthTable {
		res.TruthTable = equations.RenderTruthTable(model)
	}
	return res, nil
}

func runDepend(ctx context.Context, img *image.MemoryImage, model *pinmodel.Model, opts Options) error {
	depOpts := depend.Options{Parallel: opts.Parallel}
	if opts.Progress != nil {
		bridge := make(chan depend.Progress)
		depOpts.Progress = bridge
		done := relay(ctx, bridge, opts.Progress, PhaseDepend)
		depend.Analyze(img, model, depOpts)
		close(bridge)
		<-done
		return nil
	}
	depend.Analyze(img, model, depOpts)
	return nil
}

func runMinterm(ctx context.Context, img *image.MemoryImage, p *profile.DeviceProfile, model *pinmodel.Model, opts Options) error {
	mc := minterm.NewContext(img, p)
	mOpts := minterm.Options{Parallel: opts.Parallel}
	if opts.Progress == nil {
		if err := mc.BuildWithOptions(model, mOpts); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		return nil
	}

	bridge := make(chan minterm.Progress)
	mOpts.Progress = bridge
	done := relayMinterm(ctx, bridge, opts.Progress)
	err := mc.BuildWithOptions(model, mOpts)
	close(bridge)
	<-done
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// relay forwards depend.Progress updates onto the pipeline-wide Progress
// channel under a fixed phase name, returning a channel closed once the
// source channel is drained.
func relay(ctx context.Context, src <-chan depend.Progress, dst chan<- Progress, phase string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range src {
			select {
			case dst <- Progress{Phase: phase, Index: p.Index, Total: p.Total, Pin: p.Pin}:
			case <-ctx.Done():
			}
		}
	}()
	return done
}

func relayMinterm(ctx context.Context, src <-chan minterm.Progress, dst chan<- Progress) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range src {
			select {
			case dst <- Progress{Phase: PhaseMinterm, Index: p.Index, Total: p.Total, Pin: p.Pin}:
			case <-ctx.Done():
			}
		}
	}()
	return done
}

func reportPhase(ch chan<- Progress, phase string, index, total int, pin string) {
	if ch == nil {
		return
	}
	ch <- Progress{Phase: phase, Index: index, Total: total, Pin: pin}
}
