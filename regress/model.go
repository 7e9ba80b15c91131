package regress

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Scaler standardizes a feature vector to zero mean and unit variance. It is
// fit once, on the training set, and persisted with the model; it is never
// refit at prediction time.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func fitScaler(X [][]float64) *Scaler {
	n := len(X)
	dim := len(X[0])
	s := &Scaler{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
	}
	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= float64(n)
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / float64(n))
		if s.Std[j] == 0 {
			// Constant feature, leave it centered only.
			s.Std[j] = 1
		}
	}
	return s
}

func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

type linearModel struct {
	Intercept float64
	Weights   []float64
}

func (l *linearModel) predict(x []float64) float64 {
	y := l.Intercept
	for j, w := range l.Weights {
		y += w * x[j]
	}
	return y
}

// Model maps an audiovisual feature vector to predicted valence and arousal.
// The two regressors share one fitted scaler.
type Model struct {
	Scaler  *Scaler
	Valence linearModel
	Arousal linearModel
}

// Train fits the scaler on X and solves both regressions by least squares.
func Train(X [][]float64, valence, arousal []float64) (*Model, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if len(valence) != len(X) || len(arousal) != len(X) {
		return nil, fmt.Errorf("have %d feature rows but %d valence and %d arousal labels",
			len(X), len(valence), len(arousal))
	}

	scaler := fitScaler(X)
	scaled := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(X[0]) {
			return nil, fmt.Errorf("feature row %d has %d values, want %d", i, len(row), len(X[0]))
		}
		scaled[i] = scaler.Transform(row)
	}

	valenceModel, err := solveLeastSquares(scaled, valence)
	if err != nil {
		return nil, fmt.Errorf("valence regression: %w", err)
	}
	arousalModel, err := solveLeastSquares(scaled, arousal)
	if err != nil {
		return nil, fmt.Errorf("arousal regression: %w", err)
	}

	return &Model{
		Scaler:  scaler,
		Valence: *valenceModel,
		Arousal: *arousalModel,
	}, nil
}

func solveLeastSquares(X [][]float64, y []float64) (*linearModel, error) {
	rows := len(X)
	dim := len(X[0])

	// Design matrix with a leading bias column.
	a := mat.NewDense(rows, dim+1, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(rows, y)

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		return nil, err
	}

	weights := make([]float64, dim)
	for j := 0; j < dim; j++ {
		weights[j] = coef.AtVec(j + 1)
	}
	return &linearModel{
		Intercept: coef.AtVec(0),
		Weights:   weights,
	}, nil
}

// Predict applies the persisted scaler and both regressors to one feature
// vector.
func (m *Model) Predict(features []float64) (valence, arousal float64, err error) {
	if len(features) != len(m.Scaler.Mean) {
		return 0, 0, fmt.Errorf("got %d features, model expects %d", len(features), len(m.Scaler.Mean))
	}
	scaled := m.Scaler.Transform(features)
	return m.Valence.predict(scaled), m.Arousal.predict(scaled), nil
}

// Save writes the model and its scaler as a single opaque artifact.
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := &Model{}
	if err := gob.NewDecoder(f).Decode(m); err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}
	return m, nil
}
