package handler

import (
	"net/http"
	"time"

	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardLogic *logic.DashboardLogic
	now            func() time.Time
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardLogic: logic.NewDashboardLogic(db),
		now:            time.Now,
	}
}

// GetSummary 首页汇总
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardLogic.Summary(c.Request.Context(), h.now())
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	byStatus := make(map[string]int64, len(summary.DonorsByStatus))
	for status, n := range summary.DonorsByStatus {
		byStatus[string(status)] = n
	}

	SuccessResponse(c, http.StatusOK, "Dashboard summary retrieved successfully", DashboardResponse{
		RaisedThisMonth:    summary.RaisedThisMonth,
		DonationsThisMonth: summary.DonationsThisMonth,
		DonorsByStatus:     byStatus,
		ActiveCampaigns:    toCampaignResponses(summary.ActiveCampaigns),
		PendingTasks:       summary.PendingTasks,
		OverdueTasks:       summary.OverdueTasks,
		UpcomingTasks:      toTaskViewResponses(summary.UpcomingTasks),
		RecentDonations:    toDonationResponses(summary.RecentDonations),
	})
}
