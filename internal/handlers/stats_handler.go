package handlers

import (
	"strconv"

	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// RedemptionStats returns the dashboard rollup scoped to the caller's roles.
func (h *StatsHandler) RedemptionStats(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	roles, ok := utils.GetRoleSet(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	stats, err := h.statsService.RedemptionStats(c.Request.Context(), userID, roles)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Stats retrieved", stats)
}

// Leaderboard returns the top point holders.
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	limit := utils.DefaultLeaderboardSize
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.statsService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Leaderboard retrieved", entries)
}
