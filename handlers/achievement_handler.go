package handlers

import (
	"context"
	"net/http"
	"time"

	"fitCoachAPI/internal/achievement"
	"fitCoachAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
	metricsService     *services.MetricsService
}

func NewAchievementHandler(achievementService *services.AchievementService, metricsService *services.MetricsService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		metricsService:     metricsService,
	}
}

// GET /api/v1/clients/{userID}/achievements
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := pathUserID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	achievements, err := h.achievementService.GetAchievements(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

// POST /api/v1/clients/{userID}/achievements/check
func (h *AchievementHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := pathUserID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	unlocked, err := h.achievementService.CheckAchievements(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if unlocked == nil {
		// A no-op check is an empty list, not JSON null.
		unlocked = []*achievement.Achievement{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked": unlocked,
		"count":    len(unlocked),
	})
}

// GET /api/v1/clients/{userID}/metrics
func (h *AchievementHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := pathUserID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	snapshot, err := h.metricsService.Snapshot(ctx, userID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}
