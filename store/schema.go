package store

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the necessary database tables if they don't exist
func InitSchema(db *sql.DB) error {
	log.Info("Initializing samset database schema...")

	videosTableSQL := `
	CREATE TABLE IF NOT EXISTS videos(
		id VARCHAR(36) NOT NULL,
		title VARCHAR(512) NOT NULL,
		media_locator VARCHAR(1024) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending_regression',
		rvm_valence DOUBLE NULL,
		rvm_arousal DOUBLE NULL,
		rating_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE INDEX media_locator_unique (media_locator)
	)`

	if _, err := db.Exec(videosTableSQL); err != nil {
		return fmt.Errorf("failed to create videos table: %w", err)
	}
	log.Info("videos table created/verified")

	ratingsTableSQL := `
	CREATE TABLE IF NOT EXISTS ratings(
		video_id VARCHAR(36) NOT NULL,
		rater_id VARCHAR(255) NOT NULL,
		valence DOUBLE NOT NULL,
		arousal DOUBLE NOT NULL,
		watch_duration_ms BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (video_id, rater_id)
	)`

	if _, err := db.Exec(ratingsTableSQL); err != nil {
		return fmt.Errorf("failed to create ratings table: %w", err)
	}
	log.Info("ratings table created/verified")

	approvedTableSQL := `
	CREATE TABLE IF NOT EXISTS approved_videos(
		id VARCHAR(36) NOT NULL,
		title VARCHAR(512) NOT NULL,
		media_locator VARCHAR(1024) NOT NULL,
		mean_valence DOUBLE NOT NULL,
		mean_arousal DOUBLE NOT NULL,
		rating_count INT NOT NULL,
		approved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	)`

	if _, err := db.Exec(approvedTableSQL); err != nil {
		return fmt.Errorf("failed to create approved_videos table: %w", err)
	}
	log.Info("approved_videos table created/verified")

	dispositionsTableSQL := `
	CREATE TABLE IF NOT EXISTS dispositions(
		video_id VARCHAR(36) NOT NULL,
		title VARCHAR(512) NOT NULL,
		media_locator VARCHAR(1024) NOT NULL,
		decision VARCHAR(16) NOT NULL,
		mean_valence DOUBLE NOT NULL,
		mean_arousal DOUBLE NOT NULL,
		rating_count INT NOT NULL,
		decided_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (video_id),
		INDEX media_locator_idx (media_locator)
	)`

	if _, err := db.Exec(dispositionsTableSQL); err != nil {
		return fmt.Errorf("failed to create dispositions table: %w", err)
	}
	log.Info("dispositions table created/verified")

	log.Info("samset database schema initialization completed")
	return nil
}
