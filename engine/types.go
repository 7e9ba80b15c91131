package engine

import "time"

// Video lifecycle inside the pending pool. Terminal videos are deleted from
// the pool and live on only in the approved store and the dispositions log.
const (
	StatusPendingRegression = "pending_regression"
	StatusPendingRating     = "pending_rating"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
)

type Video struct {
	Id           string
	Title        string
	MediaLocator string
	Status       string
	RvmValence   float64 // regression prediction, set once at intake
	RvmArousal   float64
	RatingCount  int
	CreatedAt    time.Time
}

// Rating is one rater's SAM self-report for one video. At most one row per
// (video, rater) pair exists; a resubmission overwrites the previous values.
type Rating struct {
	VideoId         string
	RaterId         string
	Valence         float64 // [0,1], 0.5 = neutral
	Arousal         float64 // [0,1], 0.5 = neutral
	WatchDurationMs int64
}

// Stats holds the population statistics of all current ratings for a video.
type Stats struct {
	MeanValence float64
	MeanArousal float64
	VarValence  float64 // population variance, no Bessel correction
	VarArousal  float64
	Count       int
}

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type ApprovedRecord struct {
	Id           string
	Title        string
	MediaLocator string
	MeanValence  float64
	MeanArousal  float64
	RatingCount  int
	ApprovedAt   time.Time
}

type VideoStat struct {
	VideoId     string
	Title       string
	RatingCount int
	Status      string
}

type ApprovedFilter struct {
	MinValence float64
	MaxValence float64
	MinArousal float64
	MaxArousal float64
	Limit      int
}
