package scoring

import (
	"fmt"
	"math/big"
	"sort"
)

// NoData is reported instead of a mean when there is nothing to average.
const NoData = "–"

// TopN is the number of leading entries averaged into Stats.MeanTop3.
const TopN = 3

// Stats aggregates a ranked view.
type Stats struct {
	Total       int    `json:"total"`
	MatchingAll int    `json:"matchingAll"`
	MeanTop3    string `json:"meanTop3"`
	ResidueOK   int    `json:"residueOk"`
	NitratesOK  int    `json:"nitratesOk"`
	SodiumOK    int    `json:"sodiumOk"`
}

// Evaluation is what adapters render after every load or threshold change.
type Evaluation struct {
	Thresholds ThresholdSet `json:"thresholds"`
	Ranked     RankedView   `json:"ranked"`
	Stats      Stats        `json:"stats"`
}

// Rank scores every sample and orders them by descending score. Equal
// scores keep catalog order. The input slice is not modified.
func Rank(samples []Sample, t ThresholdSet) RankedView {
	view := make(RankedView, len(samples))
	for i, s := range samples {
		view[i] = ScoreSample(s, t)
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Score > view[j].Score
	})
	return view
}

// ComputeStats counts compliance across the view and averages the scores
// of its first TopN entries.
func ComputeStats(view RankedView, total int) Stats {
	stats := Stats{Total: total, MeanTop3: NoData}

	for _, item := range view {
		if item.Compliance.All() {
			stats.MatchingAll++
		}
		if item.Compliance.Residue {
			stats.ResidueOK++
		}
		if item.Compliance.Nitrates {
			stats.NitratesOK++
		}
		if item.Compliance.Sodium {
			stats.SodiumOK++
		}
	}

	top := view.Top(TopN)
	if len(top) > 0 {
		var sum float64
		for _, item := range top {
			sum += item.Score
		}
		stats.MeanTop3 = formatTenths(sum / float64(len(top)))
	}

	return stats
}

// formatTenths writes a non-negative x with one decimal. The nearest tenth
// is chosen from the exact binary value of x and an exact tie rounds up,
// so 72.25 gives "72.3" where %.1f would give "72.2".
func formatTenths(x float64) string {
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, big.NewRat(10, 1))

	n, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if rem.Lsh(rem, 1).Cmp(r.Denom()) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	tenths := n.Int64()
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// Evaluate ranks the samples and aggregates the result.
func Evaluate(samples []Sample, t ThresholdSet) Evaluation {
	view := Rank(samples, t)
	return Evaluation{
		Thresholds: t,
		Ranked:     view,
		Stats:      ComputeStats(view, len(samples)),
	}
}

// Top returns at most n leading entries.
func (v RankedView) Top(n int) RankedView {
	if n < 0 {
		n = 0
	}
	if n > len(v) {
		n = len(v)
	}
	return v[:n]
}

// Best returns the featured pick, the highest scoring sample.
func (e Evaluation) Best() (ScoredSample, bool) {
	if len(e.Ranked) == 0 {
		return ScoredSample{}, false
	}
	return e.Ranked[0], true
}

// Empty reports whether there is nothing to show.
func (e Evaluation) Empty() bool {
	return len(e.Ranked) == 0
}
