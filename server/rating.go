package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"samset/api"
	"samset/engine"
)

func (h *Handler) SubmitRating(c *gin.Context) {
	log.Info("Call to /submit_rating")
	var args api.SubmitRatingArgs

	if err := c.BindJSON(&args); err != nil {
		log.Errorf("Failed to get the argument in /submit_rating call: %v", err)
		c.String(http.StatusInternalServerError, "Could not read JSON input.") // 500
		return
	}

	if args.Version != "2.0" {
		log.Errorf("Bad version in /submit_rating, expected: 2.0, got: %v", args.Version)
		c.String(http.StatusNotAcceptable, "Bad API version, expecting 2.0.") // 406
		return
	}

	res, err := h.curator.SubmitRating(&engine.Rating{
		VideoId:         args.VideoId,
		RaterId:         args.RaterId,
		Valence:         args.Valence,
		Arousal:         args.Arousal,
		WatchDurationMs: args.WatchDuration,
	})
	if err != nil {
		log.Errorf("Failed to submit rating for %s: %v", args.VideoId, err)
		c.String(statusFor(err), err.Error())
		return
	}

	c.IndentedJSON(http.StatusOK, api.SubmitRatingResponse{
		Accepted:    true,
		Fresh:       res.Fresh,
		RatingCount: res.RatingCount,
	})
}
