package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const recentItems = 5

type statsHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectRepo
	messageRepo database.MessageRepo
}

func newStatsHandler(projectRepo database.ProjectRepo, messageRepo database.MessageRepo) statsHandler {
	logger := log.With().Str("handlerName", "statsHandler").Logger()

	return statsHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		messageRepo: messageRepo,
	}
}

type statsTotals struct {
	TotalProjects    int64 `json:"totalProjects"`
	FeaturedProjects int64 `json:"featuredProjects"`
	TotalMessages    int64 `json:"totalMessages"`
	UnreadMessages   int64 `json:"unreadMessages"`
}

type dashboardStats struct {
	Stats              statsTotals             `json:"stats"`
	ProjectsByCategory []models.CategoryCount  `json:"projectsByCategory"`
	RecentProjects     []models.ProjectSummary `json:"recentProjects"`
	RecentMessages     []models.MessageSummary `json:"recentMessages"`
}

// getStats gathers the dashboard counters. The queries run concurrently.
// @Router /api/admin/stats [get]
func (h statsHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			stats          dashboardStats
			recentProjects []models.Project
			recentMessages []models.Message
		)

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			stats.Stats.TotalProjects, err = h.projectRepo.Count(ctx, false)
			return err
		})
		g.Go(func() (err error) {
			stats.Stats.FeaturedProjects, err = h.projectRepo.Count(ctx, true)
			return err
		})
		g.Go(func() (err error) {
			stats.Stats.TotalMessages, err = h.messageRepo.Count(ctx, false)
			return err
		})
		g.Go(func() (err error) {
			stats.Stats.UnreadMessages, err = h.messageRepo.Count(ctx, true)
			return err
		})
		g.Go(func() (err error) {
			stats.ProjectsByCategory, err = h.projectRepo.CountByCategory(ctx)
			return err
		})
		g.Go(func() (err error) {
			recentProjects, err = h.projectRepo.Recent(ctx, recentItems)
			return err
		})
		g.Go(func() (err error) {
			recentMessages, err = h.messageRepo.Recent(ctx, recentItems)
			return err
		})

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "stats", err))
			return
		}

		if stats.ProjectsByCategory == nil {
			stats.ProjectsByCategory = []models.CategoryCount{}
		}
		stats.RecentProjects = make([]models.ProjectSummary, 0, len(recentProjects))
		for _, p := range recentProjects {
			stats.RecentProjects = append(stats.RecentProjects, p.DashboardSummary())
		}
		stats.RecentMessages = make([]models.MessageSummary, 0, len(recentMessages))
		for _, m := range recentMessages {
			stats.RecentMessages = append(stats.RecentMessages, m.DashboardSummary())
		}

		h.responder.WriteData(w, http.StatusOK, stats)
	}
}
