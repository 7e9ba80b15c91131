package engine

import "errors"

var (
	// ErrValidation covers out-of-range scores and missing required fields.
	ErrValidation = errors.New("invalid argument")
	// ErrNotFound covers unknown video ids, including videos that already
	// received a terminal disposition.
	ErrNotFound = errors.New("video not found")
	// ErrCapacity is returned when the pending pool is at max_unrated_videos.
	ErrCapacity = errors.New("pending pool at capacity")
)
