package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apex/log"

	"samset/common"
	"samset/engine"
)

// MySQLStore is the durable engine.Store. Every mutating method runs inside
// its own transaction; the row lock on the video row is the single-writer
// boundary for concurrent submissions on the same video.
type MySQLStore struct {
	db *sql.DB
}

func New(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) InsertVideo(v *engine.Video) error {
	log.Infof("Write: Admitting candidate %s (%s)", v.Id, v.Title)
	result, err := s.db.Exec(`INSERT
	  INTO videos (id, title, media_locator, status)
	  VALUES (?, ?, ?, ?)`,
		v.Id, v.Title, v.MediaLocator, engine.StatusPendingRegression)
	common.LogResult("insert video", result, err, true)
	return err
}

func (s *MySQLStore) PendingCount() (int, error) {
	var cnt int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&cnt); err != nil {
		log.Errorf("Could not count pending videos: %v", err)
		return 0, err
	}
	return cnt, nil
}

func (s *MySQLStore) LocatorKnown(mediaLocator string) (bool, error) {
	var known bool
	err := s.db.QueryRow(`
	  SELECT EXISTS(SELECT 1 FROM videos WHERE media_locator = ?)
	      OR EXISTS(SELECT 1 FROM dispositions WHERE media_locator = ?)`,
		mediaLocator, mediaLocator).Scan(&known)
	if err != nil {
		log.Errorf("Could not check media locator %q: %v", mediaLocator, err)
		return false, err
	}
	return known, nil
}

func (s *MySQLStore) MarkScreened(videoId string, valence, arousal float64) error {
	log.Infof("Write: Opening video %s for rating", videoId)
	result, err := s.db.Exec(`UPDATE videos
		SET rvm_valence = ?, rvm_arousal = ?, status = ?
		WHERE id = ?`,
		valence, arousal, engine.StatusPendingRating, videoId)
	if err != nil {
		log.Errorf("Could not mark video %s screened: %v", videoId, err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows != 1 {
		return fmt.Errorf("%w: %s", engine.ErrNotFound, videoId)
	}
	return nil
}

func (s *MySQLStore) DeleteVideo(videoId string) error {
	log.Infof("Write: Dropping candidate %s", videoId)
	if _, err := s.db.Exec(`DELETE FROM ratings WHERE video_id = ?`, videoId); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM videos WHERE id = ?`, videoId)
	return err
}

func (s *MySQLStore) PendingVideos(limit int) ([]engine.Video, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(`
	  SELECT id, title, media_locator, rating_count
	  FROM videos
	  WHERE status = ?
	  ORDER BY RAND()
	  LIMIT ?`, engine.StatusPendingRating, limit)
	if err != nil {
		log.Errorf("Could not retrieve pending videos: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []engine.Video{}
	for rows.Next() {
		v := engine.Video{Status: engine.StatusPendingRating}
		if err := rows.Scan(&v.Id, &v.Title, &v.MediaLocator, &v.RatingCount); err != nil {
			log.Errorf("Cannot scan a video row: %v", err)
			continue
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *MySQLStore) SubmitRating(r *engine.Rating) (*engine.SubmitResult, error) {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	var (
		status string
		count  int
	)
	err = tx.QueryRow(`SELECT status, rating_count FROM videos WHERE id = ? FOR UPDATE`, r.VideoId).
		Scan(&status, &count)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", engine.ErrNotFound, r.VideoId)
	}
	if err != nil {
		log.Errorf("Could not read video %s: %v", r.VideoId, err)
		return nil, err
	}
	if status != engine.StatusPendingRating {
		return nil, fmt.Errorf("%w: video %s is not open for rating", engine.ErrNotFound, r.VideoId)
	}

	result, err := tx.Exec(`INSERT INTO ratings (video_id, rater_id, valence, arousal, watch_duration_ms)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE valence=?, arousal=?, watch_duration_ms=?`,
		r.VideoId, r.RaterId, r.Valence, r.Arousal, r.WatchDurationMs,
		r.Valence, r.Arousal, r.WatchDurationMs)
	if err != nil {
		log.Errorf("Could not upsert rating for %s/%s: %v", r.VideoId, r.RaterId, err)
		return nil, err
	}
	// MySQL reports 1 affected row for an insert, 2 for an overwrite and 0
	// for an overwrite with identical values.
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	fresh := affected == 1

	if fresh {
		if _, err := tx.Exec(`UPDATE videos SET rating_count = rating_count + 1 WHERE id = ?`, r.VideoId); err != nil {
			log.Errorf("Could not advance rating count for %s: %v", r.VideoId, err)
			return nil, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &engine.SubmitResult{Fresh: fresh, RatingCount: count}, nil
}

func (s *MySQLStore) Ratings(videoId string) ([]engine.Rating, error) {
	rows, err := s.db.Query(`
	  SELECT video_id, rater_id, valence, arousal, watch_duration_ms
	  FROM ratings
	  WHERE video_id = ?`, videoId)
	if err != nil {
		log.Errorf("Could not retrieve ratings for %s: %v", videoId, err)
		return nil, err
	}
	defer rows.Close()

	out := []engine.Rating{}
	for rows.Next() {
		var r engine.Rating
		if err := rows.Scan(&r.VideoId, &r.RaterId, &r.Valence, &r.Arousal, &r.WatchDurationMs); err != nil {
			log.Errorf("Cannot scan a rating row: %v", err)
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQLStore) Approve(videoId string, stats *engine.Stats) error {
	log.Infof("Write: Approving video %s", videoId)
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	var (
		title   string
		locator string
	)
	err = tx.QueryRow(`SELECT title, media_locator FROM videos WHERE id = ? FOR UPDATE`, videoId).
		Scan(&title, &locator)
	if err == sql.ErrNoRows {
		// Already disposed; retries must succeed silently.
		return nil
	}
	if err != nil {
		return err
	}

	result, err := tx.Exec(`INSERT
	  INTO approved_videos (id, title, media_locator, mean_valence, mean_arousal, rating_count)
	  VALUES (?, ?, ?, ?, ?, ?)`,
		videoId, title, locator, stats.MeanValence, stats.MeanArousal, stats.Count)
	common.LogResult("insert approved video", result, err, true)
	if err != nil {
		return err
	}
	if err := s.recordDisposition(tx, videoId, title, locator, engine.DecisionApproved, stats); err != nil {
		return err
	}
	if err := s.purge(tx, videoId); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *MySQLStore) Reject(videoId string, stats *engine.Stats) (string, error) {
	log.Infof("Write: Rejecting video %s", videoId)
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return "", err
	}
	defer tx.Rollback()

	var (
		title   string
		locator string
	)
	err = tx.QueryRow(`SELECT title, media_locator FROM videos WHERE id = ? FOR UPDATE`, videoId).
		Scan(&title, &locator)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.recordDisposition(tx, videoId, title, locator, engine.DecisionRejected, stats); err != nil {
		return "", err
	}
	if err := s.purge(tx, videoId); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return locator, nil
}

func (s *MySQLStore) recordDisposition(tx *sql.Tx, videoId, title, locator string, d engine.Decision, stats *engine.Stats) error {
	result, err := tx.Exec(`INSERT
	  INTO dispositions (video_id, title, media_locator, decision, mean_valence, mean_arousal, rating_count)
	  VALUES (?, ?, ?, ?, ?, ?, ?)`,
		videoId, title, locator, string(d), stats.MeanValence, stats.MeanArousal, stats.Count)
	common.LogResult("record disposition", result, err, true)
	return err
}

func (s *MySQLStore) purge(tx *sql.Tx, videoId string) error {
	// A video can have any number of rating rows, including none.
	result, err := tx.Exec(`DELETE FROM ratings WHERE video_id = ?`, videoId)
	common.LogResult("purge ratings", result, err, false)
	if err != nil {
		return err
	}
	result, err = tx.Exec(`DELETE FROM videos WHERE id = ?`, videoId)
	common.LogResult("purge video", result, err, true)
	return err
}

func (s *MySQLStore) ApprovedVideos(f engine.ApprovedFilter) ([]engine.ApprovedRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(`
	  SELECT id, title, media_locator, mean_valence, mean_arousal, rating_count
	  FROM approved_videos
	  WHERE mean_valence BETWEEN ? AND ?
	    AND mean_arousal BETWEEN ? AND ?
	  ORDER BY RAND()
	  LIMIT ?`,
		f.MinValence, f.MaxValence, f.MinArousal, f.MaxArousal, limit)
	if err != nil {
		log.Errorf("Could not retrieve approved videos: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []engine.ApprovedRecord{}
	for rows.Next() {
		var a engine.ApprovedRecord
		if err := rows.Scan(&a.Id, &a.Title, &a.MediaLocator, &a.MeanValence, &a.MeanArousal, &a.RatingCount); err != nil {
			log.Errorf("Cannot scan an approved video row: %v", err)
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *MySQLStore) VideoStats() ([]engine.VideoStat, error) {
	rows, err := s.db.Query(`
	  SELECT id, title, rating_count, 'pending' AS status
	  FROM videos
	  UNION ALL
	  SELECT video_id, title, rating_count, decision AS status
	  FROM dispositions`)
	if err != nil {
		log.Errorf("Could not retrieve video stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []engine.VideoStat{}
	for rows.Next() {
		var st engine.VideoStat
		if err := rows.Scan(&st.VideoId, &st.Title, &st.RatingCount, &st.Status); err != nil {
			log.Errorf("Cannot scan a stats row: %v", err)
			continue
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
