package server

import (
	"fmt"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"samset/api"
	"samset/common"
	"samset/config"
	"samset/engine"
	"samset/media"
	"samset/regress"
	"samset/store"
)

func StartService() {
	log.Info("Starting the service...")
	cfg := config.Load()

	db, err := common.DBConnect()
	if err != nil {
		log.Errorf("Database connection failed: %v", err)
		return
	}
	defer db.Close()
	if err := store.InitSchema(db); err != nil {
		log.Errorf("Schema initialization failed: %v", err)
		return
	}

	// The model artifact is loaded once and shared read-only for the
	// lifetime of the process.
	model, err := regress.Load(cfg.ModelPath)
	if err != nil {
		log.Errorf("Could not load regression model from %s: %v", cfg.ModelPath, err)
		return
	}

	screener := regress.NewScreener(model, &media.CommandExtractor{Command: cfg.ExtractorCommand}, cfg.SquareSumThreshold)
	assets := &media.Assets{Dir: cfg.MediaDir}
	curator := engine.NewCurator(store.New(db), screener, assets, engine.AcceptanceThresholds{
		MinRatingsPerVideo:        cfg.MinRatingsPerVideo,
		ValenceDeviationThreshold: cfg.ValenceDeviationThreshold,
		ArousalDeviationThreshold: cfg.ArousalDeviationThreshold,
		ValenceVarianceThreshold:  cfg.ValenceVarianceThreshold,
		ArousalVarianceThreshold:  cfg.ArousalVarianceThreshold,
	}, cfg.MaxUnratedVideos)

	handler := NewHandler(curator, db)

	router := gin.Default()
	router.GET(api.HealthEndpoint, handler.Health)
	router.GET(api.HelpEndpoint, Help)
	router.POST(api.RegisterCandidateEndpoint, handler.RegisterCandidate)
	router.GET(api.PendingVideosEndpoint, handler.PendingVideos)
	router.POST(api.SubmitRatingEndpoint, handler.SubmitRating)
	router.GET(api.ApprovedVideosEndpoint, handler.ApprovedVideos)
	router.GET(api.VideoStatsEndpoint, handler.VideoStats)

	router.Run(fmt.Sprintf("%s:%s", cfg.Host, cfg.Port))
	log.Warn("Finished the service. Should not ever being seen.")
}
