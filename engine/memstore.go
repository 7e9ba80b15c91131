package engine

import (
	"fmt"
	"sync"
	"time"
)

type disposition struct {
	videoId      string
	title        string
	mediaLocator string
	decision     Decision
	stats        Stats
	decidedAt    time.Time
}

// MemStore is an in-memory Store. It backs tests and single-process setups;
// production deployments use the MySQL store.
type MemStore struct {
	mu           sync.Mutex
	videos       map[string]*Video
	ratings      map[string]map[string]Rating // video id -> rater id -> rating
	approved     []ApprovedRecord
	dispositions map[string]disposition
}

func NewMemStore() *MemStore {
	return &MemStore{
		videos:       map[string]*Video{},
		ratings:      map[string]map[string]Rating{},
		dispositions: map[string]disposition{},
	}
}

func (s *MemStore) InsertVideo(v *Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.videos {
		if existing.MediaLocator == v.MediaLocator {
			return fmt.Errorf("%w: duplicate media locator %q", ErrValidation, v.MediaLocator)
		}
	}
	vc := *v
	vc.CreatedAt = time.Now()
	s.videos[v.Id] = &vc
	return nil
}

func (s *MemStore) PendingCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.videos), nil
}

func (s *MemStore) LocatorKnown(mediaLocator string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.videos {
		if v.MediaLocator == mediaLocator {
			return true, nil
		}
	}
	for _, d := range s.dispositions {
		if d.mediaLocator == mediaLocator {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) MarkScreened(videoId string, valence, arousal float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[videoId]
	if !ok {
		return ErrNotFound
	}
	v.RvmValence = valence
	v.RvmArousal = arousal
	v.Status = StatusPendingRating
	return nil
}

func (s *MemStore) DeleteVideo(videoId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.videos, videoId)
	delete(s.ratings, videoId)
	return nil
}

func (s *MemStore) PendingVideos(limit int) ([]Video, error) {
	if limit <= 0 {
		limit = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Video{}
	// Map iteration order doubles as the random sample.
	for _, v := range s.videos {
		if v.Status != StatusPendingRating {
			continue
		}
		out = append(out, *v)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemStore) SubmitRating(r *Rating) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[r.VideoId]
	if !ok || v.Status != StatusPendingRating {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.VideoId)
	}
	byRater, ok := s.ratings[r.VideoId]
	if !ok {
		byRater = map[string]Rating{}
		s.ratings[r.VideoId] = byRater
	}
	_, exists := byRater[r.RaterId]
	byRater[r.RaterId] = *r
	if !exists {
		v.RatingCount++
	}
	return &SubmitResult{Fresh: !exists, RatingCount: v.RatingCount}, nil
}

func (s *MemStore) Ratings(videoId string) ([]Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Rating{}
	for _, r := range s.ratings[videoId] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemStore) Approve(videoId string, stats *Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[videoId]
	if !ok {
		return nil // already disposed
	}
	s.approved = append(s.approved, ApprovedRecord{
		Id:           v.Id,
		Title:        v.Title,
		MediaLocator: v.MediaLocator,
		MeanValence:  stats.MeanValence,
		MeanArousal:  stats.MeanArousal,
		RatingCount:  stats.Count,
		ApprovedAt:   time.Now(),
	})
	s.dispositions[videoId] = disposition{
		videoId:      v.Id,
		title:        v.Title,
		mediaLocator: v.MediaLocator,
		decision:     DecisionApproved,
		stats:        *stats,
		decidedAt:    time.Now(),
	}
	delete(s.videos, videoId)
	delete(s.ratings, videoId)
	return nil
}

func (s *MemStore) Reject(videoId string, stats *Stats) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[videoId]
	if !ok {
		return "", nil // already disposed
	}
	s.dispositions[videoId] = disposition{
		videoId:      v.Id,
		title:        v.Title,
		mediaLocator: v.MediaLocator,
		decision:     DecisionRejected,
		stats:        *stats,
		decidedAt:    time.Now(),
	}
	locator := v.MediaLocator
	delete(s.videos, videoId)
	delete(s.ratings, videoId)
	return locator, nil
}

func (s *MemStore) ApprovedVideos(f ApprovedFilter) ([]ApprovedRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []ApprovedRecord{}
	for _, a := range s.approved {
		if a.MeanValence < f.MinValence || a.MeanValence > f.MaxValence {
			continue
		}
		if a.MeanArousal < f.MinArousal || a.MeanArousal > f.MaxArousal {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemStore) VideoStats() ([]VideoStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []VideoStat{}
	for _, v := range s.videos {
		out = append(out, VideoStat{
			VideoId:     v.Id,
			Title:       v.Title,
			RatingCount: v.RatingCount,
			Status:      "pending",
		})
	}
	for _, d := range s.dispositions {
		out = append(out, VideoStat{
			VideoId:     d.videoId,
			Title:       d.title,
			RatingCount: d.stats.Count,
			Status:      string(d.decision),
		})
	}
	return out, nil
}
