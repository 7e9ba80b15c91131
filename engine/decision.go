package engine

import "math"

// neutralPoint is the midpoint of the [0,1] SAM scale.
const neutralPoint = 0.5

// AcceptanceThresholds parameterize the two-part acceptance test. They are
// fixed for the lifetime of the process.
type AcceptanceThresholds struct {
	MinRatingsPerVideo        int
	ValenceDeviationThreshold float64
	ArousalDeviationThreshold float64
	ValenceVarianceThreshold  float64
	ArousalVarianceThreshold  float64
}

// Decide classifies a fully rated video. A video is approved only when the
// rater population both leans away from neutral on at least one axis
// (salient) and agrees closely enough that the mean is meaningful
// (consistent). A polarizing video whose ratings average out to neutral is
// caught by the variance gate, a wishy-washy one by the deviation gate.
func (t *AcceptanceThresholds) Decide(s *Stats) Decision {
	if s.Count < t.MinRatingsPerVideo {
		return DecisionPending
	}

	salient := math.Abs(s.MeanValence-neutralPoint) > t.ValenceDeviationThreshold ||
		math.Abs(s.MeanArousal-neutralPoint) > t.ArousalDeviationThreshold
	consistent := s.VarValence < t.ValenceVarianceThreshold &&
		s.VarArousal < t.ArousalVarianceThreshold

	if salient && consistent {
		return DecisionApproved
	}
	return DecisionRejected
}
