package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultThresholds() AcceptanceThresholds {
	return AcceptanceThresholds{
		MinRatingsPerVideo:        16,
		ValenceDeviationThreshold: 0.2,
		ArousalDeviationThreshold: 0.2,
		ValenceVarianceThreshold:  0.06,
		ArousalVarianceThreshold:  0.06,
	}
}

func TestDecide(t *testing.T) {
	thresholds := defaultThresholds()

	testCases := []struct {
		name     string
		stats    Stats
		expected Decision
	}{
		{
			name:     "Salient and consistent on both axes",
			stats:    Stats{MeanValence: 0.8, MeanArousal: 0.2, VarValence: 0.001, VarArousal: 0.001, Count: 16},
			expected: DecisionApproved,
		},
		{
			name:     "Salient on one axis only is enough",
			stats:    Stats{MeanValence: 0.8, MeanArousal: 0.5, VarValence: 0.01, VarArousal: 0.01, Count: 16},
			expected: DecisionApproved,
		},
		{
			name:     "Polarizing: neutral means but huge disagreement",
			stats:    Stats{MeanValence: 0.5, MeanArousal: 0.5, VarValence: 0.16, VarArousal: 0.16, Count: 16},
			expected: DecisionRejected,
		},
		{
			name:     "Salient mean does not save a high-variance axis",
			stats:    Stats{MeanValence: 0.8, MeanArousal: 0.5, VarValence: 0.01, VarArousal: 0.1, Count: 16},
			expected: DecisionRejected,
		},
		{
			name:     "Neutral on both axes despite close agreement",
			stats:    Stats{MeanValence: 0.55, MeanArousal: 0.45, VarValence: 0.002, VarArousal: 0.002, Count: 16},
			expected: DecisionRejected,
		},
		{
			name:     "Deviation exactly at the threshold is not salient",
			stats:    Stats{MeanValence: 0.7, MeanArousal: 0.3, VarValence: 0.001, VarArousal: 0.001, Count: 16},
			expected: DecisionRejected,
		},
		{
			name:     "Variance exactly at the threshold is not consistent",
			stats:    Stats{MeanValence: 0.8, MeanArousal: 0.2, VarValence: 0.06, VarArousal: 0.001, Count: 16},
			expected: DecisionRejected,
		},
		{
			name:     "Below the rating count threshold",
			stats:    Stats{MeanValence: 0.9, MeanArousal: 0.1, VarValence: 0.001, VarArousal: 0.001, Count: 15},
			expected: DecisionPending,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, thresholds.Decide(&testCase.stats))
		})
	}
}
