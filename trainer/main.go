package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/apex/log"

	"samset/regress"
)

var (
	dataPath  = flag.String("data", "", "CSV with one row per video: feature columns, then valence, then arousal.")
	modelPath = flag.String("model", "models/rvm.gob", "Where to save the trained model artifact.")
	holdout   = flag.Float64("holdout", 0.2, "Fraction of rows held out for evaluation.")
)

func main() {
	flag.Parse()
	if *dataPath == "" {
		log.Error("--data is required")
		os.Exit(1)
	}

	X, valence, arousal, err := loadTrainingData(*dataPath)
	if err != nil {
		log.Errorf("Loading training data: %v", err)
		os.Exit(1)
	}
	log.Infof("Loaded %d rows with %d features each", len(X), len(X[0]))

	split := len(X) - int(float64(len(X))*(*holdout))
	if split < 1 || split > len(X) {
		split = len(X)
	}

	model, err := regress.Train(X[:split], valence[:split], arousal[:split])
	if err != nil {
		log.Errorf("Training failed: %v", err)
		os.Exit(1)
	}

	if split < len(X) {
		report, err := model.Score(X[split:], valence[split:], arousal[split:])
		if err != nil {
			log.Errorf("Evaluation failed: %v", err)
			os.Exit(1)
		}
		log.Infof("Held-out valence: MSE=%.4f R2=%.4f", report.ValenceMSE, report.ValenceR2)
		log.Infof("Held-out arousal: MSE=%.4f R2=%.4f", report.ArousalMSE, report.ArousalR2)
	}

	if err := model.Save(*modelPath); err != nil {
		log.Errorf("Saving model: %v", err)
		os.Exit(1)
	}
	log.Infof("Model saved to %s", *modelPath)
}

// loadTrainingData reads rows of the form f1,...,fn,valence,arousal.
func loadTrainingData(path string) ([][]float64, []float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil, fmt.Errorf("no rows in %s", path)
	}

	var (
		X       [][]float64
		valence []float64
		arousal []float64
	)
	for i, record := range records {
		if len(record) < 3 {
			return nil, nil, nil, fmt.Errorf("row %d has %d columns, want at least 3", i+1, len(record))
		}
		row := make([]float64, len(record))
		for j, field := range record {
			row[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
		}
		n := len(row)
		X = append(X, row[:n-2])
		valence = append(valence, row[n-2])
		arousal = append(arousal, row[n-1])
	}
	return X, valence, arousal, nil
}
