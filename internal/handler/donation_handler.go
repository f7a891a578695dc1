package handler

import (
	"net/http"

	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DonationHandler struct {
	donationLogic *logic.DonationLogic
}

// NewDonationHandler publisher 接收捐赠提交后的事件
func NewDonationHandler(db *gorm.DB, publisher event.Publisher) *DonationHandler {
	return &DonationHandler{
		donationLogic: logic.NewDonationLogic(db, publisher),
	}
}

// GetDonations 获取捐赠列表
func (h *DonationHandler) GetDonations(c *gin.Context) {
	page := pageFromQuery(c)
	donorId, err := int64Query(c, "donorId")
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	campaignId, err := int64Query(c, "campaignId")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	items, total, err := h.donationLogic.ListDonations(c.Request.Context(), logic.DonationFilter{
		DonorId:    donorId,
		CampaignId: campaignId,
		Method:     c.Query("method"),
	}, page)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	PagedResponse(c, "Donations retrieved successfully", toDonationResponses(items), page, total)
}

// GetDonation 获取单笔捐赠
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, err := parseId(c, "donation")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	donation, err := h.donationLogic.GetDonation(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donation retrieved successfully", toDonationResponse(donation))
}

// CreateDonation 创建捐赠，感谢任务由后置钩子异步创建
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, err := logic.ParseDate("date", req.Date)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	donation, err := h.donationLogic.CreateDonation(c.Request.Context(), logic.DonationInput{
		Amount:     req.Amount,
		Date:       date,
		Method:     req.Method,
		Recurring:  req.Recurring,
		Notes:      req.Notes,
		DonorId:    req.DonorId,
		CampaignId: req.CampaignId,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Donation created successfully", CreateDonationResponse{
		DonationResponse: toDonationResponse(donation),
		TaskCreated:      true,
		TaskInfo:         thankYouTaskInfo(donation.CreatedAt),
	})
}

// UpdateDonation 更新捐赠
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	id, err := parseId(c, "donation")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	var req UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := logic.DonationUpdate{
		Amount:     req.Amount,
		Method:     req.Method,
		CampaignId: req.CampaignId,
		Recurring:  req.Recurring,
		Thanked:    req.Thanked,
		Notes:      req.Notes,
	}
	if req.Date != nil {
		date, err := logic.ParseDate("date", *req.Date)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		update.Date = &date
	}

	donation, err := h.donationLogic.UpdateDonation(c.Request.Context(), id, update)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donation updated successfully", toDonationResponse(donation))
}

// ThankDonation 确认已向捐赠者致谢
func (h *DonationHandler) ThankDonation(c *gin.Context) {
	id, err := parseId(c, "donation")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	donation, err := h.donationLogic.ThankDonation(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donation marked as thanked", toDonationResponse(donation))
}

// DeleteDonation 删除捐赠
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	id, err := parseId(c, "donation")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	donation, err := h.donationLogic.DeleteDonation(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donation deleted successfully", DeleteDonationResponse{
		DeletedId:        donation.Id,
		Amount:           donation.Amount,
		CampaignReverted: donation.CampaignId != nil,
	})
}
