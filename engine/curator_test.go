package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreener struct {
	pred   Prediction
	passed bool
}

func (f *fakeScreener) Screen(mediaLocator string) (Prediction, bool) {
	return f.pred, f.passed
}

type fakeAssets struct {
	removed []string
}

func (f *fakeAssets) Remove(mediaLocator string) error {
	f.removed = append(f.removed, mediaLocator)
	return nil
}

func newTestCurator(maxUnrated int) (*Curator, *MemStore, *fakeAssets) {
	store := NewMemStore()
	assets := &fakeAssets{}
	screener := &fakeScreener{pred: Prediction{Valence: 2.1, Arousal: 1.4}, passed: true}
	return NewCurator(store, screener, assets, defaultThresholds(), maxUnrated), store, assets
}

func register(t *testing.T, c *Curator, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, screened, err := c.Register(fmt.Sprintf("video %d", i), fmt.Sprintf("clips/video%d.mp4", i))
		require.NoError(t, err)
		require.True(t, screened)
		ids = append(ids, id)
	}
	return ids
}

func TestRegisterValidation(t *testing.T) {
	c, _, _ := newTestCurator(40)

	_, _, err := c.Register("", "clips/a.mp4")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = c.Register("a title", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateLocator(t *testing.T) {
	c, _, _ := newTestCurator(40)

	_, _, err := c.Register("first", "clips/a.mp4")
	require.NoError(t, err)

	_, _, err = c.Register("second", "clips/a.mp4")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterPoolCapacity(t *testing.T) {
	c, _, _ := newTestCurator(40)
	register(t, c, 40)

	_, _, err := c.Register("one too many", "clips/overflow.mp4")
	assert.ErrorIs(t, err, ErrCapacity)

	count, err := c.store.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 40, count)
}

func TestRegisterPrescreenFailure(t *testing.T) {
	store := NewMemStore()
	assets := &fakeAssets{}
	// Near-neutral prediction, or failed extraction: either way not passed.
	screener := &fakeScreener{passed: false}
	c := NewCurator(store, screener, assets, defaultThresholds(), 40)

	_, screened, err := c.Register("dull video", "clips/dull.mp4")
	require.NoError(t, err)
	assert.False(t, screened)

	// The candidate and its media are gone, and the locator may be reused.
	count, err := store.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, []string{"clips/dull.mp4"}, assets.removed)

	known, err := store.LocatorKnown("clips/dull.mp4")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestSubmitRatingValidation(t *testing.T) {
	c, _, _ := newTestCurator(40)
	ids := register(t, c, 1)

	testCases := []struct {
		name   string
		rating Rating
	}{
		{"Missing video id", Rating{RaterId: "r1", Valence: 0.5, Arousal: 0.5}},
		{"Missing rater id", Rating{VideoId: ids[0], Valence: 0.5, Arousal: 0.5}},
		{"Valence below range", Rating{VideoId: ids[0], RaterId: "r1", Valence: -0.1, Arousal: 0.5}},
		{"Valence above range", Rating{VideoId: ids[0], RaterId: "r1", Valence: 1.1, Arousal: 0.5}},
		{"Arousal above range", Rating{VideoId: ids[0], RaterId: "r1", Valence: 0.5, Arousal: 1.01}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := c.SubmitRating(&testCase.rating)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSubmitRatingUnknownVideo(t *testing.T) {
	c, _, _ := newTestCurator(40)

	_, err := c.SubmitRating(&Rating{VideoId: "nope", RaterId: "r1", Valence: 0.5, Arousal: 0.5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingCountCountsDistinctRaters(t *testing.T) {
	c, _, _ := newTestCurator(40)
	ids := register(t, c, 1)

	for i := 0; i < 5; i++ {
		res, err := c.SubmitRating(&Rating{
			VideoId: ids[0],
			RaterId: fmt.Sprintf("rater%d", i),
			Valence: 0.6, Arousal: 0.6,
		})
		require.NoError(t, err)
		assert.True(t, res.Fresh)
		assert.Equal(t, i+1, res.RatingCount)
	}

	// Resubmissions overwrite in place and do not advance the count.
	res, err := c.SubmitRating(&Rating{VideoId: ids[0], RaterId: "rater0", Valence: 0.9, Arousal: 0.1})
	require.NoError(t, err)
	assert.False(t, res.Fresh)
	assert.Equal(t, 5, res.RatingCount)

	// An identical resubmission is a no-op update.
	res, err = c.SubmitRating(&Rating{VideoId: ids[0], RaterId: "rater0", Valence: 0.9, Arousal: 0.1})
	require.NoError(t, err)
	assert.False(t, res.Fresh)
	assert.Equal(t, 5, res.RatingCount)

	ratings, err := c.store.Ratings(ids[0])
	require.NoError(t, err)
	assert.Len(t, ratings, 5)
}

func TestApprovalScenario(t *testing.T) {
	c, store, _ := newTestCurator(40)
	ids := register(t, c, 1)
	videoId := ids[0]

	// 16 raters, valence around 0.8 and arousal around 0.2, tight agreement.
	var last *SubmitResult
	for i := 0; i < 16; i++ {
		res, err := c.SubmitRating(&Rating{
			VideoId: videoId,
			RaterId: fmt.Sprintf("rater%d", i),
			Valence: 0.75 + 0.1*float64(i)/15,
			Arousal: 0.15 + 0.1*float64(i)/15,
		})
		require.NoError(t, err)
		last = res
	}
	assert.Equal(t, 16, last.RatingCount)

	// The video left the pending pool the moment the threshold was reached.
	_, err := c.SubmitRating(&Rating{VideoId: videoId, RaterId: "rater17", Valence: 0.8, Arousal: 0.2})
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := c.PendingVideos(0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved, err := c.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, videoId, approved[0].Id)
	assert.Equal(t, "video 0", approved[0].Title)
	assert.Equal(t, 16, approved[0].RatingCount)
	assert.InDelta(t, 0.8, approved[0].MeanValence, 0.01)
	assert.InDelta(t, 0.2, approved[0].MeanArousal, 0.01)

	// Ratings are purged with the pending record.
	ratings, err := store.Ratings(videoId)
	require.NoError(t, err)
	assert.Empty(t, ratings)

	// The terminal fact stays queryable, and the locator cannot re-enter.
	known, err := store.LocatorKnown("clips/video0.mp4")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestRejectionOnHighVariance(t *testing.T) {
	c, _, assets := newTestCurator(40)
	ids := register(t, c, 1)
	videoId := ids[0]

	// Half the raters at 0.1, half at 0.9: means land near neutral with
	// huge disagreement. The variance gate must reject regardless of any
	// deviation check.
	for i := 0; i < 16; i++ {
		score := 0.1
		if i%2 == 1 {
			score = 0.9
		}
		_, err := c.SubmitRating(&Rating{
			VideoId: videoId,
			RaterId: fmt.Sprintf("rater%d", i),
			Valence: score,
			Arousal: score,
		})
		require.NoError(t, err)
	}

	approved, err := c.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	assert.Empty(t, approved)

	// Rejection deletes the underlying media asset.
	assert.Equal(t, []string{"clips/video0.mp4"}, assets.removed)

	stats, err := c.VideoStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, string(DecisionRejected), stats[0].Status)
	assert.Equal(t, 16, stats[0].RatingCount)
}

func TestRejectionOnNeutralRatings(t *testing.T) {
	c, _, _ := newTestCurator(40)
	ids := register(t, c, 1)
	videoId := ids[0]

	// Tight agreement around the neutral point on both axes.
	for i := 0; i < 16; i++ {
		score := 0.4 + 0.2*float64(i)/15
		_, err := c.SubmitRating(&Rating{
			VideoId: videoId,
			RaterId: fmt.Sprintf("rater%d", i),
			Valence: score,
			Arousal: score,
		})
		require.NoError(t, err)
	}

	approved, err := c.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	assert.Empty(t, approved)

	stats, err := c.VideoStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, string(DecisionRejected), stats[0].Status)
}

func TestApprovedVideosFilter(t *testing.T) {
	c, _, _ := newTestCurator(40)
	ids := register(t, c, 2)

	// First video high valence, second low valence.
	for i := 0; i < 16; i++ {
		_, err := c.SubmitRating(&Rating{
			VideoId: ids[0], RaterId: fmt.Sprintf("rater%d", i),
			Valence: 0.8, Arousal: 0.2,
		})
		require.NoError(t, err)
		_, err = c.SubmitRating(&Rating{
			VideoId: ids[1], RaterId: fmt.Sprintf("rater%d", i),
			Valence: 0.2, Arousal: 0.8,
		})
		require.NoError(t, err)
	}

	all, err := c.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	positive, err := c.ApprovedVideos(ApprovedFilter{MinValence: 0.5, MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	require.Len(t, positive, 1)
	assert.Equal(t, ids[0], positive[0].Id)
}

func lockCount(c *Curator) int {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	return len(c.locks)
}

func TestVideoLocksAreReleased(t *testing.T) {
	c, _, _ := newTestCurator(40)

	// Submissions for arbitrary unknown ids must not accumulate
	// serialization state.
	for i := 0; i < 50; i++ {
		_, err := c.SubmitRating(&Rating{
			VideoId: fmt.Sprintf("ghost%d", i), RaterId: "r1",
			Valence: 0.5, Arousal: 0.5,
		})
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 0, lockCount(c))

	ids := register(t, c, 1)
	for i := 0; i < 15; i++ {
		_, err := c.SubmitRating(&Rating{
			VideoId: ids[0], RaterId: fmt.Sprintf("rater%d", i),
			Valence: 0.8, Arousal: 0.2,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lockCount(c))

	// Disposal drops the video's lock entry along with the video.
	_, err := c.SubmitRating(&Rating{VideoId: ids[0], RaterId: "rater15", Valence: 0.8, Arousal: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0, lockCount(c))
}

func TestPendingVideosDefaultLimit(t *testing.T) {
	c, store, _ := newTestCurator(40)
	register(t, c, 7)

	pending, err := store.PendingVideos(0)
	require.NoError(t, err)
	assert.Len(t, pending, 5)

	pending, err = store.PendingVideos(7)
	require.NoError(t, err)
	assert.Len(t, pending, 7)
}

func TestApprovedVideosDefaultLimit(t *testing.T) {
	c, store, _ := newTestCurator(40)
	ids := register(t, c, 6)

	for _, id := range ids {
		for i := 0; i < 16; i++ {
			_, err := c.SubmitRating(&Rating{
				VideoId: id, RaterId: fmt.Sprintf("rater%d", i),
				Valence: 0.8, Arousal: 0.2,
			})
			require.NoError(t, err)
		}
	}

	approved, err := store.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	assert.Len(t, approved, 5)

	approved, err = store.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1, Limit: 6})
	require.NoError(t, err)
	assert.Len(t, approved, 6)
}

func TestDuplicateDisposalIsNoop(t *testing.T) {
	c, store, _ := newTestCurator(40)
	ids := register(t, c, 1)

	stats := &Stats{MeanValence: 0.8, MeanArousal: 0.2, Count: 16}
	require.NoError(t, c.dispose(ids[0], DecisionApproved, stats))
	// A retried disposal of the same video must succeed silently.
	require.NoError(t, c.dispose(ids[0], DecisionApproved, stats))
	_, err := store.Reject(ids[0], stats)
	require.NoError(t, err)

	approved, err := c.ApprovedVideos(ApprovedFilter{MaxValence: 1, MaxArousal: 1})
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}
