package regress

import (
	"github.com/apex/log"

	"samset/engine"
)

// Extractor produces the fixed-length audiovisual feature vector of a media
// file. Implementations live outside this package; the numerical formulas
// are an external concern.
type Extractor interface {
	Extract(mediaLocator string) ([]float64, error)
}

// Screener is the regression pre-screen. A candidate passes when the squared
// magnitude of its predicted affect, valence² + arousal², exceeds the
// threshold: it must be strongly positive or negative in valence, or
// strongly calm or excited in arousal, to be worth human-rater effort.
type Screener struct {
	model     *Model
	extractor Extractor
	threshold float64
}

func NewScreener(model *Model, extractor Extractor, threshold float64) *Screener {
	return &Screener{
		model:     model,
		extractor: extractor,
		threshold: threshold,
	}
}

// Screen predicts the emotional response to a media file and applies the
// square-sum gate. Unreadable media fails closed: logged, not passed, never
// propagated.
func (s *Screener) Screen(mediaLocator string) (engine.Prediction, bool) {
	features, err := s.extractor.Extract(mediaLocator)
	if err != nil {
		log.Warnf("Feature extraction failed for %s, failing closed: %v", mediaLocator, err)
		return engine.Prediction{}, false
	}
	valence, arousal, err := s.model.Predict(features)
	if err != nil {
		log.Warnf("Prediction failed for %s, failing closed: %v", mediaLocator, err)
		return engine.Prediction{}, false
	}
	squareSum := valence*valence + arousal*arousal
	return engine.Prediction{Valence: valence, Arousal: arousal}, squareSum > s.threshold
}
