package engine

import "gonum.org/v1/gonum/stat"

// ComputeStats derives the population statistics of a rating set from
// scratch. It is the single source of truth for the numbers the decision
// gates run on; there is no incrementally maintained copy that could drift.
func ComputeStats(ratings []Rating) *Stats {
	if len(ratings) == 0 {
		return &Stats{}
	}

	valence := make([]float64, len(ratings))
	arousal := make([]float64, len(ratings))
	for i, r := range ratings {
		valence[i] = r.Valence
		arousal[i] = r.Arousal
	}

	return &Stats{
		MeanValence: stat.Mean(valence, nil),
		MeanArousal: stat.Mean(arousal, nil),
		VarValence:  stat.PopVariance(valence, nil),
		VarArousal:  stat.PopVariance(arousal, nil),
		Count:       len(ratings),
	}
}
