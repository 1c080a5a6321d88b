// Package equations renders a built, analyzed, and classified pin model
// into the equations file and optional truth-table file described in spec
// §4.4 and §6: deterministic sum-of-products equations per output pin and
// per output-enable, with a chosen polarity, plus a header and pin-mapping
// section.
package equations

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/clintkolodziej/repal/pkg/minimizer"
	"github.com/clintkolodziej/repal/pkg/pinmodel"
	"github.com/clintkolodziej/repal/pkg/profile"
)

// Header carries the equations-file header fields (spec §6). Name and
// Device are normally derived from the input stem and the device profile;
// the rest default to blank unless the caller sets them.
type Header struct {
	Name     string
	Device   string
	Partno   string
	Revision string
	Date     string
	Designer string
	Company  string
	Assembly string
	Location string
}

// Options controls which polarity is emitted for output equations and for
// output-enable equations independently (spec §6, --polarity/--oe-polarity).
type Options struct {
	Polarity   Polarity
	OEPolarity Polarity
}

// Render produces the complete equations file text for model against p,
// per spec §4.4/§6.
func Render(model *pinmodel.Model, p *profile.DeviceProfile, h Header, opts Options) (string, error) {
	var sb strings.Builder

	writeHeader(&sb, h)
	sb.WriteByte('\n')

	if err := writePinMappings(&sb, model, p); err != nil {
		return "", err
	}
	sb.WriteByte('\n')

	if err := writeOutputEquations(&sb, model, opts); err != nil {
		return "", err
	}
	sb.WriteByte('\n')

	if err := writeOEEquations(&sb, model, opts); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func writeHeader(sb *strings.Builder, h Header) {
	tw := tabwriter.NewWriter(sb, 0, 4, 1, ' ', 0)
	fields := []struct{ label, value string }{
		{"Name", h.Name},
		{"Device", h.Device},
		{"Partno", h.Partno},
		{"Revision", h.Revision},
		{"Date", h.Date},
		{"Designer", h.Designer},
		{"Company", h.Company},
		{"Assembly", h.Assembly},
		{"Location", h.Location},
	}
	for _, f := range fields {
		fmt.Fprintf(tw, "%s\t%s;\n", f.label, f.value)
	}
	tw.Flush()
}

// writePinMappings emits one "pin N = NAME;" line per named profile pin, in
// ascending pin-number order, annotated with its role (spec §6).
func writePinMappings(sb *strings.Builder, model *pinmodel.Model, p *profile.DeviceProfile) error {
	sb.WriteString("Pin mappings\n")

	numbers := make([]int, 0, len(p.PinNames))
	for n := range p.PinNames {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	outputsByPin := make(map[int]*pinmodel.Pin, len(model.Outputs))
	for _, op := range model.Outputs {
		outputsByPin[op.PinNumber] = op
	}
	probedInputPins := make(map[int]bool)
	for _, op := range model.Outputs {
		if op.HiZProbeBitMask == 0 {
			continue
		}
		for _, ip := range model.Inputs {
			if ip.BitMask == op.HiZProbeBitMask {
				probedInputPins[ip.PinNumber] = true
			}
		}
	}

	tw := tabwriter.NewWriter(sb, 0, 4, 1, ' ', 0)
	for _, n := range numbers {
		role := pinRole(n, outputsByPin, probedInputPins)
		fmt.Fprintf(tw, "pin %d\t= %s;\t; %s\n", n, p.PinNames[n], role)
	}
	return tw.Flush()
}

func pinRole(pinNumber int, outputsByPin map[int]*pinmodel.Pin, probedInputPins map[int]bool) string {
	if op, ok := outputsByPin[pinNumber]; ok {
		role := outputRole(op)
		if op.HiZProbeBitMask != 0 {
			role += " w/ output enable"
		}
		return role
	}
	if probedInputPins[pinNumber] {
		return "Input"
	}
	return "Dedicated input"
}

func outputRole(op *pinmodel.Pin) string {
	if op.Depends.Bitmap == 0 {
		switch {
		case op.SeenHigh && !op.SeenLow:
			return "Fixed high output"
		case op.SeenLow && !op.SeenHigh:
			return "Fixed low output"
		}
	}
	return "Combinatorial output"
}

func writeOutputEquations(sb *strings.Builder, model *pinmodel.Model, opts Options) error {
	sb.WriteString("Output equations\n")
	for _, op := range model.Outputs {
		if !op.SeenHigh && !op.SeenLow {
			// Permanently hi-z: never driven under any combination, so no
			// equation (spec §8 property 6, §9 "constant outputs with OE").
			// A non-constant pin (Depends.Bitmap != 0) always has at least
			// one non-hi-z reading by construction, so this only excludes
			// truly undriven pins, never a pin with a real equation.
			continue
		}
		eq, err := renderOutputEquation(op, opts.Polarity)
		if err != nil {
			return fmt.Errorf("equations: pin %s: %w", op.Name, err)
		}
		sb.WriteString(eq)
		sb.WriteByte('\n')
	}
	return nil
}

func renderOutputEquation(op *pinmodel.Pin, mode Polarity) (string, error) {
	if op.Depends.Bitmap == 0 {
		switch {
		case op.SeenHigh:
			return literalEquation(op.Name, true), nil
		case op.SeenLow:
			return literalEquation(op.Name, false), nil
		}
	}

	k := op.Depends.Len()
	pos := minimizer.Simplify(k, keysOf(op.PositiveTerms), keysOf(op.DontCareTerms))
	neg := minimizer.Simplify(k, keysOf(op.NegativeTerms), keysOf(op.DontCareTerms))

	return choosePolarity(op.Name, op.Depends.Names, pos, neg, mode), nil
}

func writeOEEquations(sb *strings.Builder, model *pinmodel.Model, opts Options) error {
	sb.WriteString("Output enable equations\n")
	for _, op := range model.Outputs {
		if op.HiZProbeBitMask == 0 && op.OEDepends.Bitmap == 0 {
			continue // never tri-states; no .oe equation (spec §6)
		}
		eq := renderOEEquation(op, opts.OEPolarity)
		sb.WriteString(eq)
		sb.WriteByte('\n')
	}
	return nil
}

func renderOEEquation(op *pinmodel.Pin, mode Polarity) string {
	name := op.Name + ".oe"
	if op.OEDepends.Bitmap == 0 {
		// Always enabled whenever driven at all, never enabled otherwise
		// (spec §9 open question b). pkg/depend records a probed pin's own
		// probe input as an OE dependency, so a probed pin only gets here
		// when its probe bit matches none of the model's input pins.
		if op.SeenHigh || op.SeenLow {
			return literalEquation(name, true)
		}
		return literalEquation(name, false)
	}

	k := op.OEDepends.Len()
	pos := minimizer.Simplify(k, keysOf(op.OEPositiveTerms), nil)
	neg := minimizer.Simplify(k, keysOf(op.OENegativeTerms), nil)

	return choosePolarity(name, op.OEDepends.Names, pos, neg, mode)
}

func literalEquation(name string, value bool) string {
	if value {
		return fmt.Sprintf("%s = 'b'1;", name)
	}
	return fmt.Sprintf("%s = 'b'0;", name)
}

// choosePolarity renders the equation per mode, using a cheaper-cover-wins
// rule for Auto: whichever of pos/neg reaches a cover (or a constant) in
// fewer products is picked, ties going to positive (spec §4.4).
func choosePolarity(name string, vars []string, pos, neg minimizer.Result, mode Polarity) string {
	switch mode {
	case Positive:
		return renderResult(name, false, vars, pos)
	case Negative:
		return renderResult(name, true, vars, neg)
	case Both:
		return renderResult(name, false, vars, pos) + "\n" + renderResult(name, true, vars, neg)
	default: // Auto
		if cost(pos) <= cost(neg) {
			return renderResult(name, false, vars, pos)
		}
		return renderResult(name, true, vars, neg)
	}
}

func cost(r minimizer.Result) int {
	if r.IsConstant {
		return 0
	}
	return len(r.Products)
}

func renderResult(name string, negated bool, vars []string, r minimizer.Result) string {
	lhs := name
	if negated {
		lhs = "!" + name
	}
	if r.IsConstant {
		return literalEquation(lhs, r.ConstantValue)
	}

	terms := make([]string, len(r.Products))
	for i, p := range r.Products {
		terms[i] = renderProduct(vars, p)
	}
	return renderSum(lhs, terms)
}

func renderProduct(vars []string, p minimizer.Product) string {
	var literals []string
	for i, name := range vars {
		bit := 1 << uint(i)
		if p.CareMask&bit == 0 {
			continue
		}
		if p.ValueBits&bit == 0 {
			literals = append(literals, "!"+name)
		} else {
			literals = append(literals, name)
		}
	}
	if len(literals) == 0 {
		return "'b'1"
	}
	return strings.Join(literals, "&")
}

// renderSum joins terms with " # " (spec §6 OR operator), continuing each
// additional term on its own line indented under the assignment operator,
// and terminates the whole equation with ";".
func renderSum(lhs string, terms []string) string {
	indent := strings.Repeat(" ", len(lhs)+1)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = %s", lhs, terms[0])
	for _, t := range terms[1:] {
		fmt.Fprintf(&sb, "\n%s# %s", indent, t)
	}
	sb.WriteByte(';')
	return sb.String()
}

func keysOf(s pinmodel.MintermSet) []int {
	out := make([]int, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	return out
}
