package controllers

import (
	"net/http"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/services"
)

type statsResponse struct {
	Stats        *models.BreakStats   `json:"stats"`
	Achievements []models.Achievement `json:"achievements"`
}

type StatsController struct {
	logger  providers.Logger
	service services.StatsServiceInterface
}

func NewStatsController(logger providers.Logger, service services.StatsServiceInterface) *StatsController {
	return &StatsController{
		logger:  logger,
		service: service,
	}
}

func (sc *StatsController) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := sc.service.Get(r.Context())
	if err != nil {
		sc.logger.Errorf(providers.TypeGet, "Loading stats failed: %s", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Stats: stats, Achievements: stats.Achievements()})
}

func (sc *StatsController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := sc.service.Reset(r.Context()); err != nil {
		sc.logger.Errorf(providers.TypePost, "Resetting stats failed: %s", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
