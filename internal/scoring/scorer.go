package scoring

import "math"

// Weights of each metric in the composite score. They sum to 1.0.
var Weights = map[Metric]float64{
	MetricResidue:  0.45,
	MetricNitrates: 0.35,
	MetricSodium:   0.20,
}

// Normalize maps a measurement onto [0, 1]: 1 when value is 0, falling
// linearly to 0 at the limit and staying there beyond it. The ratio is
// rounded to three decimals. limit must be > 0.
func Normalize(value, limit float64) float64 {
	ratio := math.Max(0, 1-value/limit)
	return math.Round(ratio*1000) / 1000
}

// CheckCompliance compares each metric to its limit. A value equal to the
// limit passes.
func CheckCompliance(s Sample, t ThresholdSet) Compliance {
	return Compliance{
		Residue:  s.Residue <= t.ResidueMax,
		Nitrates: s.Nitrates <= t.NitratesMax,
		Sodium:   s.Sodium <= t.SodiumMax,
	}
}

// Score returns the weighted composite on a 0-100 scale with one decimal.
// Each ratio is rounded to three decimals before weighting and the sum is
// rounded again, so results are reproducible to the digit.
func Score(s Sample, t ThresholdSet) float64 {
	residue := Normalize(s.Residue, t.ResidueMax)
	nitrates := Normalize(s.Nitrates, t.NitratesMax)
	sodium := Normalize(s.Sodium, t.SodiumMax)

	weighted := residue*Weights[MetricResidue] +
		nitrates*Weights[MetricNitrates] +
		sodium*Weights[MetricSodium]

	return math.Round(weighted*1000) / 10
}

// ScoreSample evaluates one sample against a threshold set.
func ScoreSample(s Sample, t ThresholdSet) ScoredSample {
	score := Score(s, t)
	return ScoredSample{
		Sample:     s,
		Compliance: CheckCompliance(s, t),
		Score:      score,
		Tier:       TierFromScore(score),
	}
}
