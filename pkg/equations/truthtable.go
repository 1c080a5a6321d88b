package equations

import (
	"sort"
	"strings"

	"github.com/clintkolodziej/repal/pkg/pinmodel"
)

// RenderTruthTable renders the optional truth-table file (spec §6): one
// literal (unminimized) sum-of-products line per polarity per pin, plus a
// "_DC" line listing the don't-care minterms, using the same operators as
// the equations file.
func RenderTruthTable(model *pinmodel.Model) string {
	var sb strings.Builder
	for _, op := range model.Outputs {
		if op.Depends.Bitmap != 0 {
			writeTruthLine(&sb, op.Name, op.Conditions, op.PositiveTerms)
			writeTruthLine(&sb, "!"+op.Name, op.Conditions, op.NegativeTerms)
			writeTruthLine(&sb, op.Name+"_DC", op.Conditions, op.DontCareTerms)
		}
		if op.OEDepends.Bitmap != 0 {
			writeTruthLine(&sb, op.Name+".oe", op.OEConditions, op.OEPositiveTerms)
			writeTruthLine(&sb, "!"+op.Name+".oe", op.OEConditions, op.OENegativeTerms)
		}
	}
	return sb.String()
}

func writeTruthLine(sb *strings.Builder, lhs string, conditions map[int]string, terms pinmodel.MintermSet) {
	if len(terms) == 0 {
		return
	}
	minterms := make([]int, 0, len(terms))
	for m := range terms {
		minterms = append(minterms, m)
	}
	sort.Ints(minterms)

	parts := make([]string, len(minterms))
	for i, m := range minterms {
		parts[i] = conditions[m]
	}
	sb.WriteString(lhs)
	sb.WriteString(" = ")
	sb.WriteString(strings.Join(parts, " # "))
	sb.WriteString(";\n")
}
