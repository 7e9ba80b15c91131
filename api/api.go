package api

const (
	RegisterCandidateEndpoint = "/register_candidate"
	PendingVideosEndpoint     = "/pending_videos"
	SubmitRatingEndpoint      = "/submit_rating"
	ApprovedVideosEndpoint    = "/approved_videos"
	VideoStatsEndpoint        = "/video_stats"
	HealthEndpoint            = "/health"
	HelpEndpoint              = "/help"
)

type RegisterCandidateArgs struct {
	Version      string `json:"version"` // Must be "2.0"
	Title        string `json:"title"`
	MediaLocator string `json:"media_locator"`
}

type RegisterCandidateResponse struct {
	VideoId  string `json:"video_id"`
	Screened bool   `json:"screened"` // true when the candidate passed the pre-screen
}

type SubmitRatingArgs struct {
	Version       string  `json:"version"` // Must be "2.0"
	VideoId       string  `json:"video_id"`
	RaterId       string  `json:"rater_id"`
	Valence       float64 `json:"valence"` // [0,1], 0.5 = neutral
	Arousal       float64 `json:"arousal"` // [0,1], 0.5 = neutral
	WatchDuration int64   `json:"watch_duration_ms"`
}

type SubmitRatingResponse struct {
	Accepted    bool `json:"accepted"`
	Fresh       bool `json:"fresh"` // false when an earlier rating was overwritten
	RatingCount int  `json:"rating_count"`
}

type PendingVideosQuery struct {
	Limit int `form:"limit"`
}

type PendingVideo struct {
	VideoId      string `json:"video_id"`
	Title        string `json:"title"`
	MediaLocator string `json:"media_locator"`
}

type ApprovedVideosQuery struct {
	MinValence float64 `form:"min_valence"`
	MaxValence float64 `form:"max_valence"`
	MinArousal float64 `form:"min_arousal"`
	MaxArousal float64 `form:"max_arousal"`
	Limit      int     `form:"limit"`
}

type ApprovedVideo struct {
	VideoId      string  `json:"video_id"`
	Title        string  `json:"title"`
	MediaLocator string  `json:"media_locator"`
	MeanValence  float64 `json:"mean_valence"`
	MeanArousal  float64 `json:"mean_arousal"`
}

type VideoStat struct {
	VideoId     string `json:"video_id"`
	Title       string `json:"title"`
	RatingCount int    `json:"rating_count"`
	Status      string `json:"status"` // pending, approved or rejected
}
