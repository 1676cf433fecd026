package sorter

import (
	"slices"

	"github.com/cognicore/toxiscan/pkg/toxiscan/freq"
)

// maxAgreementWindow bounds how many leading entries CompareAll checks.
const maxAgreementWindow = 30

// AlgorithmRun is one algorithm's output and cost.
type AlgorithmRun struct {
	Algorithm Algorithm   `json:"algorithm"`
	Top       []freq.Pair `json:"top"`
	Stats     Stats       `json:"stats"`
}

// Comparison runs every algorithm over the same input.
type Comparison struct {
	Key               Key            `json:"key"`
	SecondaryTiebreak bool           `json:"secondary_tiebreak"`
	Runs              []AlgorithmRun `json:"runs"`
	Window            int            `json:"window"` // leading entries checked for agreement
	Agree             bool           `json:"agree"`
}

// CompareAll sorts a copy of pairs with each algorithm, stats reset between runs,
// and checks whether the first min(topN, 30) words agree.
func CompareAll(pairs []freq.Pair, key Key, tiebreak bool, topN int) Comparison {
	if topN <= 0 || topN > len(pairs) {
		topN = len(pairs)
	}

	res := Comparison{
		Key:               key,
		SecondaryTiebreak: tiebreak,
		Window:            min(topN, maxAgreementWindow),
		Agree:             true,
	}

	var sorted [][]freq.Pair
	for _, alg := range Algorithms {
		out, stats := Run(pairs, Config{Key: key, Algorithm: alg, SecondaryTiebreak: tiebreak})
		sorted = append(sorted, out)
		res.Runs = append(res.Runs, AlgorithmRun{
			Algorithm: alg,
			Top:       slices.Clone(out[:topN]),
			Stats:     stats,
		})
	}

	for i := 0; i < res.Window && res.Agree; i++ {
		for _, out := range sorted[1:] {
			if out[i].Word != sorted[0][i].Word {
				res.Agree = false
				break
			}
		}
	}
	return res
}

// Fastest returns the run with the lowest elapsed time.
func (c Comparison) Fastest() (AlgorithmRun, bool) {
	if len(c.Runs) == 0 {
		return AlgorithmRun{}, false
	}
	best := c.Runs[0]
	for _, r := range c.Runs[1:] {
		if r.Stats.ElapsedMs < best.Stats.ElapsedMs {
			best = r
		}
	}
	return best, true
}
