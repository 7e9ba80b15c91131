package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Host string

	// SAM acceptance thresholds. Immutable once loaded.
	MinRatingsPerVideo        int
	MaxUnratedVideos          int
	ValenceDeviationThreshold float64
	ArousalDeviationThreshold float64
	ValenceVarianceThreshold  float64
	ArousalVarianceThreshold  float64

	// Regression pre-screen
	SquareSumThreshold float64
	ModelPath          string

	// Media
	MediaDir         string
	ExtractorCommand string
}

func Load() *Config {
	// Local .env takes priority over the system environment.
	if err := godotenv.Overload(); err != nil {
		// No .env file is fine, system environment is used as-is.
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Host: getEnv("HOST", "0.0.0.0"),

		MinRatingsPerVideo:        getEnvInt("SAM_MIN_RATINGS_PER_VIDEO", 16),
		MaxUnratedVideos:          getEnvInt("SAM_MAX_UNRATED_VIDEOS", 40),
		ValenceDeviationThreshold: getEnvFloat("SAM_VALENCE_DEVIATION_THRESHOLD", 0.2),
		ArousalDeviationThreshold: getEnvFloat("SAM_AROUSAL_DEVIATION_THRESHOLD", 0.2),
		ValenceVarianceThreshold:  getEnvFloat("SAM_VALENCE_VARIANCE_THRESHOLD", 0.06),
		ArousalVarianceThreshold:  getEnvFloat("SAM_AROUSAL_VARIANCE_THRESHOLD", 0.06),

		SquareSumThreshold: getEnvFloat("RVM_SQUARE_SUM_THRESHOLD", 5.0),
		ModelPath:          getEnv("RVM_MODEL_PATH", "models/rvm.gob"),

		MediaDir:         getEnv("MEDIA_DIR", "downloads"),
		ExtractorCommand: getEnv("FEATURE_EXTRACTOR_CMD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
