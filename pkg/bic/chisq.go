package bic

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"bicgo/internal/core"
)

// sigLevel is the false-positive budget for one whole evaluation. The
// per-triple threshold is Bonferroni-adjusted by the triple count, so a
// clean hash fails a single evaluation with probability at most sigLevel.
const sigLevel = 0.001

// worstTriple records the most significant independence deviation seen.
type worstTriple struct {
	keyBit, out1, out2 int
	stat               float64
	box                core.Box
}

// chiSquareBox computes the 2x2 chi-square statistic of independence for one
// contingency table. The expected cell counts come from the table's own
// margins, which handles output bits that are individually biased: only the
// joint behavior is scored. A zero margin (a bit that never or always
// changed) carries no pairwise information and scores 0.
func chiSquareBox(b core.Box) float64 {
	xc := float64(b.B11 + b.B10) // out1 changed
	xu := float64(b.B01 + b.B00)
	yc := float64(b.B11 + b.B01) // out2 changed
	yu := float64(b.B10 + b.B00)
	if xc == 0 || xu == 0 || yc == 0 || yu == 0 {
		return 0
	}
	n := float64(b.Sum())
	d := float64(b.B11)*float64(b.B00) - float64(b.B10)*float64(b.B01)
	return n * d * d / (xc * xu * yc * yu)
}

// worstChiSq reconstructs the contingency table of every
// (key bit, out1, out2) triple and returns the largest statistic found.
func worstChiSq(pop *core.PopcountTable, and *core.AndcountTable, keyBits, hashBits, reps int) worstTriple {
	worst := worstTriple{stat: -1}
	for keyBit := 0; keyBit < keyBits; keyBit++ {
		for out1 := 0; out1 < hashBits-1; out1++ {
			for out2 := out1 + 1; out2 < hashBits; out2++ {
				box := core.Contingency(pop, and, keyBit, out1, out2, reps)
				stat := chiSquareBox(box)
				if stat > worst.stat {
					worst = worstTriple{keyBit: keyBit, out1: out1, out2: out2, stat: stat, box: box}
				}
			}
		}
	}
	return worst
}

// ReportChiSqIndep evaluates completed tallies: a pure function of the
// tables that scores every triple, converts the worst deviation to a
// p-value (chi-square, 1 degree of freedom), and passes the hash unless the
// Bonferroni-adjusted p-value crosses the significance threshold. Verbose
// mode prints the worst triple's full contingency table.
func ReportChiSqIndep(pop *core.PopcountTable, and *core.AndcountTable, keyBits, hashBits, reps int, verbose bool) bool {
	worst := worstChiSq(pop, and, keyBits, hashBits, reps)
	nTriples := keyBits * core.TriangularPairs(hashBits)

	p := distuv.ChiSquared{K: 1}.Survival(worst.stat)
	adjusted := p * float64(nTriples)
	if adjusted > 1 {
		adjusted = 1
	}
	pass := adjusted >= sigLevel

	fmt.Printf(" - worst chi-sq %9.3f, adjusted p-value %8.6f", worst.stat, adjusted)
	if pass {
		fmt.Printf("  pass\n")
	} else {
		fmt.Printf("  FAIL\n")
	}
	if verbose {
		fmt.Printf("   keybit %3d, output bits (%3d, %3d) of %d triples\n",
			worst.keyBit, worst.out1, worst.out2, nTriples)
		fmt.Printf("   [%7d %7d]\n   [%7d %7d]  (reps %d)\n",
			worst.box.B11, worst.box.B01, worst.box.B10, worst.box.B00, reps)
	}
	return pass
}
