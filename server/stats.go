package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"samset/api"
)

func (h *Handler) VideoStats(c *gin.Context) {
	log.Info("Call to /video_stats")

	stats, err := h.curator.VideoStats()
	if err != nil {
		log.Errorf("Failed to collect video stats: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]api.VideoStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, api.VideoStat{
			VideoId:     st.VideoId,
			Title:       st.Title,
			RatingCount: st.RatingCount,
			Status:      st.Status,
		})
	}
	c.IndentedJSON(http.StatusOK, out)
}
