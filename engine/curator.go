package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// Prediction is a regression estimate of the emotional response to a video.
type Prediction struct {
	Valence float64
	Arousal float64
}

// Prescreener gates candidates before they cost human-rater effort. passed
// must be false when feature extraction fails (fail closed).
type Prescreener interface {
	Screen(mediaLocator string) (pred Prediction, passed bool)
}

// AssetRemover deletes the underlying media asset of a rejected video.
type AssetRemover interface {
	Remove(mediaLocator string) error
}

// Curator runs the curation pipeline: capacity-capped intake with regression
// pre-screening, rating collection and the one-shot acceptance decision with
// its terminal disposition.
type Curator struct {
	store      Store
	screener   Prescreener
	assets     AssetRemover
	thresholds AcceptanceThresholds
	maxUnrated int

	intakeMu sync.Mutex
	locksMu  sync.Mutex
	locks    map[string]*sync.Mutex // per-video submission serialization
}

func NewCurator(store Store, screener Prescreener, assets AssetRemover, t AcceptanceThresholds, maxUnrated int) *Curator {
	return &Curator{
		store:      store,
		screener:   screener,
		assets:     assets,
		thresholds: t,
		maxUnrated: maxUnrated,
		locks:      map[string]*sync.Mutex{},
	}
}

// videoLock returns the mutex serializing all state transitions of one
// video. Entries are dropped again when the video turns out to be unknown
// or leaves the pending pool, so the map only tracks videos under rating.
func (c *Curator) videoLock(videoId string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	mu, ok := c.locks[videoId]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[videoId] = mu
	}
	return mu
}

func (c *Curator) releaseLock(videoId string) {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	delete(c.locks, videoId)
}

// Register admits a candidate into the pending pool and pre-screens it.
// Candidates whose predicted affect is too close to neutral are dropped
// before any rater sees them; their record and media asset are removed.
// Returns the video id and whether the candidate survived the pre-screen.
func (c *Curator) Register(title, mediaLocator string) (string, bool, error) {
	if title == "" || mediaLocator == "" {
		return "", false, fmt.Errorf("%w: title and media_locator are required", ErrValidation)
	}

	c.intakeMu.Lock()
	known, err := c.store.LocatorKnown(mediaLocator)
	if err != nil {
		c.intakeMu.Unlock()
		return "", false, err
	}
	if known {
		c.intakeMu.Unlock()
		return "", false, fmt.Errorf("%w: media locator %q already admitted or disposed", ErrValidation, mediaLocator)
	}
	pending, err := c.store.PendingCount()
	if err != nil {
		c.intakeMu.Unlock()
		return "", false, err
	}
	if pending >= c.maxUnrated {
		c.intakeMu.Unlock()
		return "", false, fmt.Errorf("%w: %d unrated videos", ErrCapacity, pending)
	}

	v := &Video{
		Id:           uuid.NewString(),
		Title:        title,
		MediaLocator: mediaLocator,
		Status:       StatusPendingRegression,
	}
	if err := c.store.InsertVideo(v); err != nil {
		c.intakeMu.Unlock()
		return "", false, err
	}
	c.intakeMu.Unlock()

	pred, passed := c.screener.Screen(mediaLocator)
	if !passed {
		log.Infof("Candidate %s (%s) did not pass the pre-screen, dropping", v.Id, title)
		if err := c.store.DeleteVideo(v.Id); err != nil {
			return "", false, err
		}
		if err := c.assets.Remove(mediaLocator); err != nil {
			log.Warnf("Failed to remove media for dropped candidate %s: %v", v.Id, err)
		}
		return v.Id, false, nil
	}

	log.Infof("Candidate %s (%s) passed the pre-screen: valence=%.3f arousal=%.3f", v.Id, title, pred.Valence, pred.Arousal)
	if err := c.store.MarkScreened(v.Id, pred.Valence, pred.Arousal); err != nil {
		return "", false, err
	}
	return v.Id, true, nil
}

// SubmitRating records one rater's SAM self-report. A repeat submission by
// the same rater overwrites the stored rating and does not advance the
// count. The first submission that brings the count to the threshold
// triggers the acceptance decision; the video leaves the pending pool before
// the call returns, so any later submission gets ErrNotFound.
func (c *Curator) SubmitRating(r *Rating) (*SubmitResult, error) {
	if r.VideoId == "" || r.RaterId == "" {
		return nil, fmt.Errorf("%w: video_id and rater_id are required", ErrValidation)
	}
	if r.Valence < 0 || r.Valence > 1 || r.Arousal < 0 || r.Arousal > 1 {
		return nil, fmt.Errorf("%w: valence and arousal must be within [0,1]", ErrValidation)
	}

	mu := c.videoLock(r.VideoId)
	mu.Lock()
	defer mu.Unlock()

	res, err := c.store.SubmitRating(r)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.releaseLock(r.VideoId)
		}
		return nil, err
	}

	if res.Fresh && res.RatingCount >= c.thresholds.MinRatingsPerVideo {
		if err := c.evaluate(r.VideoId); err != nil {
			return nil, err
		}
		c.releaseLock(r.VideoId)
	}
	return res, nil
}

// evaluate recomputes the population statistics, applies the dual acceptance
// gate and runs the terminal disposition. Caller holds the video lock.
func (c *Curator) evaluate(videoId string) error {
	ratings, err := c.store.Ratings(videoId)
	if err != nil {
		return err
	}
	stats := ComputeStats(ratings)
	decision := c.thresholds.Decide(stats)
	log.Infof("Video %s evaluated: n=%d mean_v=%.3f mean_a=%.3f var_v=%.4f var_a=%.4f -> %s",
		videoId, stats.Count, stats.MeanValence, stats.MeanArousal, stats.VarValence, stats.VarArousal, decision)
	return c.dispose(videoId, decision, stats)
}

// dispose executes the terminal action for a decision. Disposing a video
// that is already gone is a silent success so that retries stay harmless.
func (c *Curator) dispose(videoId string, decision Decision, stats *Stats) error {
	switch decision {
	case DecisionApproved:
		return c.store.Approve(videoId, stats)
	case DecisionRejected:
		locator, err := c.store.Reject(videoId, stats)
		if err != nil {
			return err
		}
		if locator != "" {
			if err := c.assets.Remove(locator); err != nil {
				log.Warnf("Failed to remove media for rejected video %s: %v", videoId, err)
			}
		}
		return nil
	default:
		return nil
	}
}

// PendingVideos samples videos open for rating. No ordering is guaranteed.
func (c *Curator) PendingVideos(limit int) ([]Video, error) {
	return c.store.PendingVideos(limit)
}

// ApprovedVideos lists terminal accepted videos, optionally filtered by
// mean valence/arousal ranges.
func (c *Curator) ApprovedVideos(f ApprovedFilter) ([]ApprovedRecord, error) {
	return c.store.ApprovedVideos(f)
}

// VideoStats reports every known video with its rating count and lifecycle
// status, pending and disposed alike.
func (c *Curator) VideoStats() ([]VideoStat, error) {
	return c.store.VideoStats()
}
