package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"samset/api"
)

func (h *Handler) RegisterCandidate(c *gin.Context) {
	log.Info("Call to /register_candidate")
	var args api.RegisterCandidateArgs

	if err := c.BindJSON(&args); err != nil {
		log.Errorf("Failed to get the argument in /register_candidate call: %v", err)
		c.String(http.StatusInternalServerError, "Could not read JSON input.") // 500
		return
	}

	if args.Version != "2.0" {
		log.Errorf("Bad version in /register_candidate, expected: 2.0, got: %v", args.Version)
		c.String(http.StatusNotAcceptable, "Bad API version, expecting 2.0.") // 406
		return
	}

	videoId, screened, err := h.curator.Register(args.Title, args.MediaLocator)
	if err != nil {
		log.Errorf("Failed to register candidate %q: %v", args.Title, err)
		c.String(statusFor(err), err.Error())
		return
	}

	c.IndentedJSON(http.StatusOK, api.RegisterCandidateResponse{
		VideoId:  videoId,
		Screened: screened,
	})
}
