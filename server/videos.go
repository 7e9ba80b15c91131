package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"samset/api"
	"samset/engine"
)

func (h *Handler) PendingVideos(c *gin.Context) {
	log.Info("Call to /pending_videos")
	var query api.PendingVideosQuery
	if err := c.BindQuery(&query); err != nil {
		log.Errorf("Query binding in /pending_videos: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	videos, err := h.curator.PendingVideos(query.Limit)
	if err != nil {
		log.Errorf("Failed to list pending videos: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]api.PendingVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, api.PendingVideo{
			VideoId:      v.Id,
			Title:        v.Title,
			MediaLocator: v.MediaLocator,
		})
	}
	c.IndentedJSON(http.StatusOK, out)
}

func (h *Handler) ApprovedVideos(c *gin.Context) {
	log.Info("Call to /approved_videos")

	// Absent query keys leave the full [0,1] range in place.
	query := api.ApprovedVideosQuery{MaxValence: 1, MaxArousal: 1}
	if err := c.BindQuery(&query); err != nil {
		log.Errorf("Query binding in /approved_videos: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	approved, err := h.curator.ApprovedVideos(engine.ApprovedFilter{
		MinValence: query.MinValence,
		MaxValence: query.MaxValence,
		MinArousal: query.MinArousal,
		MaxArousal: query.MaxArousal,
		Limit:      query.Limit,
	})
	if err != nil {
		log.Errorf("Failed to list approved videos: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]api.ApprovedVideo, 0, len(approved))
	for _, a := range approved {
		out = append(out, api.ApprovedVideo{
			VideoId:      a.Id,
			Title:        a.Title,
			MediaLocator: a.MediaLocator,
			MeanValence:  a.MeanValence,
			MeanArousal:  a.MeanArousal,
		})
	}
	c.IndentedJSON(http.StatusOK, out)
}
