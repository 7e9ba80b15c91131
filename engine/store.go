package engine

// SubmitResult tells the caller whether the submission created a new rating
// row or overwrote an existing one, and the post-submission rating count.
type SubmitResult struct {
	Fresh       bool
	RatingCount int
}

// Store is the durable state behind the curation pipeline: the pending video
// pool, the per-video rating rows, the approved set and the dispositions log.
// Mutations to rating counts and terminal state go through these methods and
// nowhere else. Implementations must make each method atomic; ordering
// across methods is the Curator's job.
type Store interface {
	// InsertVideo adds a candidate to the pending pool.
	InsertVideo(v *Video) error
	// PendingCount reports the current pending pool size, both statuses.
	PendingCount() (int, error)
	// LocatorKnown reports whether a media locator is already pending or has
	// already received a terminal disposition.
	LocatorKnown(mediaLocator string) (bool, error)
	// MarkScreened records the regression predictions and moves the video
	// from pending_regression to pending_rating.
	MarkScreened(videoId string, valence, arousal float64) error
	// DeleteVideo drops a candidate that failed the pre-screen. Removing an
	// already-absent video is not an error.
	DeleteVideo(videoId string) error

	// PendingVideos samples up to limit videos open for rating. A limit of
	// zero or less falls back to a sample of 5.
	PendingVideos(limit int) ([]Video, error)
	// SubmitRating upserts a rating keyed by (video, rater). A fresh insert
	// increments the video's rating count by exactly one, an overwrite
	// leaves it unchanged. Returns ErrNotFound when the video is absent or
	// not open for rating.
	SubmitRating(r *Rating) (*SubmitResult, error)
	// Ratings returns all current rating rows for a video.
	Ratings(videoId string) ([]Rating, error)

	// Approve migrates the video's stable metadata plus its final statistics
	// into the approved store, records the disposition and purges the
	// pending row and all its ratings. A second call for the same video is a
	// no-op.
	Approve(videoId string, stats *Stats) error
	// Reject records the disposition and purges the pending row and its
	// ratings, returning the media locator so the caller can delete the
	// asset. Returns "" when the video was already gone.
	Reject(videoId string, stats *Stats) (mediaLocator string, err error)

	// ApprovedVideos samples approved videos within the filter's mean
	// valence/arousal ranges. A Limit of zero or less falls back to 5.
	ApprovedVideos(f ApprovedFilter) ([]ApprovedRecord, error)
	VideoStats() ([]VideoStat, error)
}
