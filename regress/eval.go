package regress

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Report holds held-out regression quality for both axes.
type Report struct {
	ValenceMSE float64
	ValenceR2  float64
	ArousalMSE float64
	ArousalR2  float64
}

// Score evaluates the model on a held-out set.
func (m *Model) Score(X [][]float64, valence, arousal []float64) (*Report, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("empty evaluation set")
	}
	predV := make([]float64, len(X))
	predA := make([]float64, len(X))
	for i, row := range X {
		v, a, err := m.Predict(row)
		if err != nil {
			return nil, err
		}
		predV[i] = v
		predA[i] = a
	}
	return &Report{
		ValenceMSE: mse(predV, valence),
		ValenceR2:  stat.RSquaredFrom(predV, valence, nil),
		ArousalMSE: mse(predA, arousal),
		ArousalR2:  stat.RSquaredFrom(predA, arousal, nil),
	}, nil
}

func mse(estimates, values []float64) float64 {
	var sum float64
	for i, e := range estimates {
		d := e - values[i]
		sum += d * d
	}
	return sum / float64(len(estimates))
}
