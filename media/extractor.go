package media

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

// CommandExtractor runs an external feature-extraction tool and parses its
// stdout as a JSON array of floats. The tool owns the spectral/rhythm and
// color/lighting formulas; this process only consumes the resulting vector.
type CommandExtractor struct {
	Command string
}

func (e *CommandExtractor) Extract(mediaLocator string) ([]float64, error) {
	if e.Command == "" {
		return nil, fmt.Errorf("no feature extractor command configured")
	}
	out, err := exec.Command(e.Command, mediaLocator).Output()
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", e.Command, mediaLocator, err)
	}
	var features []float64
	if err := json.Unmarshal(out, &features); err != nil {
		return nil, fmt.Errorf("parsing feature vector for %s: %w", mediaLocator, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("empty feature vector for %s", mediaLocator)
	}
	return features, nil
}
