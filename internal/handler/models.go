package handler

import (
	"time"

	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/donorhub/dhs/internal/model"
)

// 通用响应结构
type Response struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Error      string              `json:"error,omitempty"`
	Errors     []map[string]string `json:"errors,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// 分页信息结构
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// 认证相关

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required,notblank"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 用户响应模型，不含密码
type UserResponse struct {
	Id        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse 注册与登录响应
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// 捐赠者相关

// CreateDonorRequest 创建捐赠者请求
type CreateDonorRequest struct {
	Name   string `json:"name" binding:"required,notblank"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone"`
	Status string `json:"status" binding:"omitempty,oneof=active lapsed new"`
	Notes  string `json:"notes"`
}

// UpdateDonorRequest 更新捐赠者请求，未提供的字段保持不变
type UpdateDonorRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status" binding:"omitempty,oneof=active lapsed new"`
	Notes  *string `json:"notes"`
}

// DonorResponse 捐赠者响应模型
type DonorResponse struct {
	Id            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes"`
	DonationCount *int64    `json:"donationCount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DonorDetailResponse 捐赠者详情
type DonorDetailResponse struct {
	DonorResponse
	Donations []DonationResponse `json:"donations"`
	Tasks     []TaskResponse     `json:"tasks"`
}

// RelatedDeletions 级联删除统计
type RelatedDeletions struct {
	Donations int64 `json:"donations"`
	Tasks     int64 `json:"tasks"`
}

// DeleteDonorResponse 删除捐赠者响应
type DeleteDonorResponse struct {
	DeletedId        int64            `json:"deletedId"`
	DeletedName      string           `json:"deletedName"`
	RelatedDeletions RelatedDeletions `json:"relatedDeletions"`
}

// 捐赠相关

// CreateDonationRequest 创建捐赠请求
type CreateDonationRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Date       string  `json:"date" binding:"required,datetime=2006-01-02"`
	Method     string  `json:"method" binding:"required,notblank"`
	Recurring  bool    `json:"recurring"`
	Notes      string  `json:"notes"`
	DonorId    int64   `json:"donorId" binding:"required,gt=0"`
	CampaignId *int64  `json:"campaignId" binding:"omitempty,gte=0"`
}

// UpdateDonationRequest 更新捐赠请求，campaignId 为 0 表示解除活动关联
type UpdateDonationRequest struct {
	Amount     *float64 `json:"amount" binding:"omitempty,gt=0"`
	Date       *string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Method     *string  `json:"method"`
	CampaignId *int64   `json:"campaignId" binding:"omitempty,gte=0"`
	Recurring  *bool    `json:"recurring"`
	Thanked    *bool    `json:"thanked"`
	Notes      *string  `json:"notes"`
}

// DonorSummaryResponse 捐赠中的捐赠者摘要
type DonorSummaryResponse struct {
	Id    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CampaignSummaryResponse 捐赠中的活动摘要
type CampaignSummaryResponse struct {
	Id   int64   `json:"id"`
	Name string  `json:"name"`
	Goal float64 `json:"goal"`
}

// DonationResponse 捐赠响应模型
type DonationResponse struct {
	Id         int64                    `json:"id"`
	Amount     float64                  `json:"amount"`
	Date       time.Time                `json:"date"`
	Method     string                   `json:"method"`
	Recurring  bool                     `json:"recurring"`
	Thanked    bool                     `json:"thanked"`
	Notes      *string                  `json:"notes"`
	DonorId    int64                    `json:"donorId"`
	CampaignId *int64                   `json:"campaignId"`
	Donor      *DonorSummaryResponse    `json:"donor,omitempty"`
	Campaign   *CampaignSummaryResponse `json:"campaign,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// TaskInfo 捐赠创建后安排的感谢任务
type TaskInfo struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
}

// CreateDonationResponse 创建捐赠响应
type CreateDonationResponse struct {
	DonationResponse
	TaskCreated bool      `json:"taskCreated"`
	TaskInfo    *TaskInfo `json:"taskInfo,omitempty"`
}

// DeleteDonationResponse 删除捐赠响应
type DeleteDonationResponse struct {
	DeletedId        int64   `json:"deletedId"`
	Amount           float64 `json:"amount"`
	CampaignReverted bool    `json:"campaignReverted"`
}

// 活动相关

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Description string  `json:"description"`
	Goal        float64 `json:"goal" binding:"required,gt=0"`
	StartDate   string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" binding:"omitempty,oneof=active upcoming paused completed"`
}

// UpdateCampaignRequest 更新活动请求，endDate 为空字符串表示清空
type UpdateCampaignRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Goal        *float64 `json:"goal" binding:"omitempty,gt=0"`
	StartDate   *string  `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"endDate"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active upcoming paused completed"`
}

// CampaignResponse 活动响应模型，raised 与 donationCount 按捐赠实时汇总
type CampaignResponse struct {
	Id            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Goal          float64    `json:"goal"`
	Raised        float64    `json:"raised"`
	DonationCount int64      `json:"donationCount"`
	Progress      float64    `json:"progress"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CampaignDetailResponse 活动详情
type CampaignDetailResponse struct {
	CampaignResponse
	Donations []DonationResponse `json:"donations"`
}

// 任务相关

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Type        string `json:"type" binding:"required,notblank"`
	Description string `json:"description" binding:"required,notblank"`
	DonorId     int64  `json:"donorId" binding:"required,gt=0"`
	DueDate     string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest 更新任务请求，dueDate 为空字符串表示清空
type UpdateTaskRequest struct {
	Type        *string `json:"type"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse 任务响应模型
type TaskResponse struct {
	Id          int64                 `json:"id"`
	Type        string                `json:"type"`
	Description string                `json:"description"`
	DueDate     *time.Time            `json:"dueDate"`
	Priority    string                `json:"priority"`
	Completed   bool                  `json:"completed"`
	DonorId     int64                 `json:"donorId"`
	Donor       *DonorSummaryResponse `json:"donor,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// DashboardResponse 首页汇总响应
type DashboardResponse struct {
	RaisedThisMonth    float64            `json:"raisedThisMonth"`
	DonationsThisMonth int64              `json:"donationsThisMonth"`
	DonorsByStatus     map[string]int64   `json:"donorsByStatus"`
	ActiveCampaigns    []CampaignResponse `json:"activeCampaigns"`
	PendingTasks       int64              `json:"pendingTasks"`
	OverdueTasks       int64              `json:"overdueTasks"`
	UpcomingTasks      []TaskResponse     `json:"upcomingTasks"`
	RecentDonations    []DonationResponse `json:"recentDonations"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{Id: u.Id, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toDonorResponse(d *model.Donor) DonorResponse {
	return DonorResponse{
		Id:        d.Id,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Status:    string(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDonationResponse(v *logic.DonationView) DonationResponse {
	resp := DonationResponse{
		Id:         v.Id,
		Amount:     v.Amount,
		Date:       v.Date,
		Method:     v.Method,
		Recurring:  v.Recurring,
		Thanked:    v.Thanked,
		Notes:      v.Notes,
		DonorId:    v.DonorId,
		CampaignId: v.CampaignId,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
	if v.Donor != nil {
		resp.Donor = &DonorSummaryResponse{Id: v.Donor.Id, Name: v.Donor.Name, Email: v.Donor.Email}
	}
	if v.Campaign != nil {
		resp.Campaign = &CampaignSummaryResponse{Id: v.Campaign.Id, Name: v.Campaign.Name, Goal: v.Campaign.Goal}
	}
	return resp
}

func toDonationResponses(views []logic.DonationView) []DonationResponse {
	out := make([]DonationResponse, len(views))
	for i := range views {
		out[i] = toDonationResponse(&views[i])
	}
	return out
}

func toCampaignResponse(v *logic.CampaignView) CampaignResponse {
	resp := CampaignResponse{
		Id:            v.Id,
		Name:          v.Name,
		Description:   v.Description,
		Goal:          v.Goal,
		Raised:        v.DonationTotal,
		DonationCount: v.DonationCount,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
	if v.Goal > 0 {
		resp.Progress = v.DonationTotal / v.Goal * 100
	}
	return resp
}

func toCampaignResponses(views []logic.CampaignView) []CampaignResponse {
	out := make([]CampaignResponse, len(views))
	for i := range views {
		out[i] = toCampaignResponse(&views[i])
	}
	return out
}

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		Id:          t.Id,
		Type:        t.Type,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		DonorId:     t.DonorId,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskViewResponse(v *logic.TaskView) TaskResponse {
	resp := toTaskResponse(&v.Task)
	resp.Donor = &DonorSummaryResponse{Id: v.DonorId, Name: v.DonorName, Email: v.DonorEmail}
	return resp
}

func toTaskViewResponses(views []logic.TaskView) []TaskResponse {
	out := make([]TaskResponse, len(views))
	for i := range views {
		out[i] = toTaskViewResponse(&views[i])
	}
	return out
}

func thankYouTaskInfo(createdAt time.Time) *TaskInfo {
	return &TaskInfo{
		Type:        model.TaskTypeThankYou,
		Description: event.ThankYouDescription,
		Priority:    string(model.TaskPriorityHigh),
		DueDate:     event.ThankYouDueDate(createdAt),
	}
}
