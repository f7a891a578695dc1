package handler

import (
	"net/http"
	"time"

	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(db *gorm.DB) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db),
	}
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	page := pageFromQuery(c)

	items, total, err := h.campaignLogic.ListCampaigns(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	PagedResponse(c, "Campaigns retrieved successfully", toCampaignResponses(items), page, total)
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := parseId(c, "campaign")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	detail, err := h.campaignLogic.GetCampaign(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Campaign retrieved successfully", CampaignDetailResponse{
		CampaignResponse: toCampaignResponse(&detail.CampaignView),
		Donations:        toDonationResponses(detail.Donations),
	})
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start, err := logic.ParseDate("startDate", req.StartDate)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	var end *time.Time
	if req.EndDate != "" {
		parsed, err := logic.ParseDate("endDate", req.EndDate)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		end = &parsed
	}

	campaign, err := h.campaignLogic.CreateCampaign(c.Request.Context(), logic.CampaignInput{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		StartDate:   start,
		EndDate:     end,
		Status:      req.Status,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Campaign created successfully", toCampaignResponse(campaign))
}

// UpdateCampaign 更新活动
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := parseId(c, "campaign")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := logic.CampaignUpdate{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		EndDate:     req.EndDate,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		start, err := logic.ParseDate("startDate", *req.StartDate)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		update.StartDate = &start
	}

	campaign, err := h.campaignLogic.UpdateCampaign(c.Request.Context(), id, update)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Campaign updated successfully", toCampaignResponse(campaign))
}
