package handler

import (
	"net/http"

	"github.com/donorhub/dhs/internal/logic"
	"github.com/donorhub/dhs/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DonorHandler struct {
	donorLogic *logic.DonorLogic
}

func NewDonorHandler(db *gorm.DB) *DonorHandler {
	return &DonorHandler{
		donorLogic: logic.NewDonorLogic(db),
	}
}

// GetDonors 获取捐赠者列表
func (h *DonorHandler) GetDonors(c *gin.Context) {
	page := pageFromQuery(c)
	filter := logic.DonorFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	items, total, err := h.donorLogic.ListDonors(c.Request.Context(), filter, page)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	donors := make([]DonorResponse, len(items))
	for i := range items {
		donors[i] = toDonorResponse(&items[i].Donor)
		count := items[i].DonationCount
		donors[i].DonationCount = &count
	}
	PagedResponse(c, "Donors retrieved successfully", donors, page, total)
}

// GetDonor 获取捐赠者详情
func (h *DonorHandler) GetDonor(c *gin.Context) {
	id, err := parseId(c, "donor")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	detail, err := h.donorLogic.GetDonor(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	tasks := make([]TaskResponse, len(detail.Tasks))
	for i := range detail.Tasks {
		tasks[i] = toTaskResponse(&detail.Tasks[i])
	}
	count := int64(len(detail.Donations))
	resp := DonorDetailResponse{
		DonorResponse: toDonorResponse(&detail.Donor),
		Donations:     toDonationResponses(detail.Donations),
		Tasks:         tasks,
	}
	resp.DonationCount = &count

	SuccessResponse(c, http.StatusOK, "Donor retrieved successfully", resp)
}

// CreateDonor 创建捐赠者
func (h *DonorHandler) CreateDonor(c *gin.Context) {
	var req CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	donor := &model.Donor{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  optional(req.Phone),
		Status: model.DonorStatus(req.Status),
		Notes:  optional(req.Notes),
	}
	if err := h.donorLogic.CreateDonor(c.Request.Context(), donor); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Donor created successfully", toDonorResponse(donor))
}

// UpdateDonor 更新捐赠者
func (h *DonorHandler) UpdateDonor(c *gin.Context) {
	id, err := parseId(c, "donor")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	var req UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	donor, err := h.donorLogic.UpdateDonor(c.Request.Context(), id, logic.DonorUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donor updated successfully", toDonorResponse(donor))
}

// DeleteDonor 删除捐赠者
func (h *DonorHandler) DeleteDonor(c *gin.Context) {
	id, err := parseId(c, "donor")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	result, err := h.donorLogic.DeleteDonor(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Donor deleted successfully", DeleteDonorResponse{
		DeletedId:   result.Id,
		DeletedName: result.Name,
		RelatedDeletions: RelatedDeletions{
			Donations: result.Donations,
			Tasks:     result.Tasks,
		},
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
