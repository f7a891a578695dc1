package logic

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

// CampaignLogic 募捐活动业务逻辑
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// CampaignView 活动及按捐赠实时汇总的金额与笔数
type CampaignView struct {
	model.Campaign
	DonationTotal float64
	DonationCount int64
}

// CampaignDetail 活动详情
type CampaignDetail struct {
	CampaignView
	Donations []DonationView
}

// CampaignInput 创建活动的输入
type CampaignInput struct {
	Name        string
	Description string
	Goal        float64
	StartDate   time.Time
	EndDate     *time.Time
	Status      string
}

// CampaignUpdate 部分更新；EndDate 为空字符串表示清空
type CampaignUpdate struct {
	Name        *string
	Description *string
	Goal        *float64
	StartDate   *time.Time
	EndDate     *string
	Status      *string
}

// RaisedCorrection 对账时修正的缓存金额
type RaisedCorrection struct {
	CampaignId int64
	Cached     float64
	Actual     float64
}

type campaignTotal struct {
	CampaignId    int64
	Total         float64
	DonationCount int64
}

// ListCampaigns 获取活动列表
func (c *CampaignLogic) ListCampaigns(ctx context.Context, status string, page Page) ([]CampaignView, int64, error) {
	query := c.db.WithContext(ctx).Model(&model.Campaign{})
	if s := model.CampaignStatus(status); s.Valid() {
		query = query.Where("status = ?", s)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	var campaigns []model.Campaign
	if err := page.apply(query).Order("created_at DESC").Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}

	views, err := c.withTotals(ctx, campaigns)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetCampaign 获取活动详情，包含关联捐赠
func (c *CampaignLogic) GetCampaign(ctx context.Context, id int64) (*CampaignDetail, error) {
	campaign, err := c.findCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := c.withTotals(ctx, []model.Campaign{*campaign})
	if err != nil {
		return nil, err
	}

	var donations []model.Donation
	if err := c.db.WithContext(ctx).Where("campaign_id = ?", id).
		Order("date DESC").Order("id DESC").Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("list campaign donations: %w", err)
	}
	donationViews, err := buildDonationViews(ctx, c.db, donations)
	if err != nil {
		return nil, err
	}

	return &CampaignDetail{CampaignView: views[0], Donations: donationViews}, nil
}

// CreateCampaign 创建活动，缓存金额从 0 开始
func (c *CampaignLogic) CreateCampaign(ctx context.Context, input CampaignInput) (*CampaignView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if input.Goal <= 0 {
		return nil, apperror.BadRequest("goal must be a positive number")
	}
	if input.StartDate.IsZero() {
		return nil, apperror.BadRequest("startDate is required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, apperror.BadRequest("endDate cannot be before startDate")
	}

	status := model.CampaignStatusActive
	if input.Status != "" {
		status = model.CampaignStatus(input.Status)
		if !status.Valid() {
			return nil, invalidCampaignStatus()
		}
	}

	campaign := &model.Campaign{
		Name:        name,
		Description: optionalString(input.Description),
		Goal:        input.Goal,
		Raised:      0,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
	}
	if err := c.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	return &CampaignView{Campaign: *campaign}, nil
}

// UpdateCampaign 部分更新活动
func (c *CampaignLogic) UpdateCampaign(ctx context.Context, id int64, update CampaignUpdate) (*CampaignView, error) {
	campaign, err := c.findCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.BadRequest("name cannot be empty")
		}
		updates["name"] = name
	}
	if update.Description != nil {
		updates["description"] = nullableString(update.Description)
	}
	if update.Goal != nil {
		if *update.Goal <= 0 {
			return nil, apperror.BadRequest("goal must be a positive number")
		}
		updates["goal"] = *update.Goal
	}
	if update.Status != nil {
		status := model.CampaignStatus(*update.Status)
		if !status.Valid() {
			return nil, invalidCampaignStatus()
		}
		updates["status"] = status
	}

	startDate := campaign.StartDate
	if update.StartDate != nil {
		startDate = *update.StartDate
		updates["start_date"] = startDate
	}
	endDate := campaign.EndDate
	if update.EndDate != nil {
		if strings.TrimSpace(*update.EndDate) == "" {
			endDate = nil
			updates["end_date"] = nil
		} else {
			parsed, err := ParseDate("endDate", *update.EndDate)
			if err != nil {
				return nil, err
			}
			endDate = &parsed
			updates["end_date"] = parsed
		}
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, apperror.BadRequest("endDate cannot be before startDate")
	}

	if len(updates) > 0 {
		if err := c.db.WithContext(ctx).Model(campaign).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update campaign: %w", err)
		}
	}

	updated, err := c.findCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := c.withTotals(ctx, []model.Campaign{*updated})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// AdjustRaised 原子地调整缓存金额
func (c *CampaignLogic) AdjustRaised(ctx context.Context, campaignId int64, delta float64) error {
	result := c.db.WithContext(ctx).Model(&model.Campaign{}).
		Where("id = ?", campaignId).
		Update("raised", gorm.Expr("raised + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("adjust raised for campaign %d: %w", campaignId, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("campaign %d not found", campaignId)
	}
	return nil
}

// ReconcileRaised 用捐赠汇总重算缓存金额，返回被修正的活动
func (c *CampaignLogic) ReconcileRaised(ctx context.Context) ([]RaisedCorrection, error) {
	var campaigns []model.Campaign
	if err := c.db.WithContext(ctx).Select("id", "raised").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		return nil, nil
	}

	totals, err := campaignTotals(ctx, c.db, nil)
	if err != nil {
		return nil, err
	}

	var corrections []RaisedCorrection
	for _, campaign := range campaigns {
		actual := totals[campaign.Id].Total
		if math.Abs(actual-campaign.Raised) < 0.005 {
			continue
		}
		if err := c.db.WithContext(ctx).Model(&model.Campaign{}).
			Where("id = ?", campaign.Id).Update("raised", actual).Error; err != nil {
			return corrections, fmt.Errorf("correct raised for campaign %d: %w", campaign.Id, err)
		}
		logger.Warn("Corrected cached raised for campaign %d: %.2f -> %.2f", campaign.Id, campaign.Raised, actual)
		corrections = append(corrections, RaisedCorrection{CampaignId: campaign.Id, Cached: campaign.Raised, Actual: actual})
	}
	return corrections, nil
}

// UpdateStatuses 按日期推进活动状态：已开始的 upcoming 转 active，结束日已过的 active 转 completed
func (c *CampaignLogic) UpdateStatuses(ctx context.Context, now time.Time) (activated, completed int64, err error) {
	now = now.UTC().Truncate(time.Second)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	result := c.db.WithContext(ctx).Model(&model.Campaign{}).
		Where("status = ? AND start_date <= ?", model.CampaignStatusUpcoming, now).
		Update("status", model.CampaignStatusActive)
	if result.Error != nil {
		return 0, 0, fmt.Errorf("activate campaigns: %w", result.Error)
	}
	activated = result.RowsAffected

	result = c.db.WithContext(ctx).Model(&model.Campaign{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", model.CampaignStatusActive, today).
		Update("status", model.CampaignStatusCompleted)
	if result.Error != nil {
		return activated, 0, fmt.Errorf("complete campaigns: %w", result.Error)
	}
	completed = result.RowsAffected

	return activated, completed, nil
}

func (c *CampaignLogic) withTotals(ctx context.Context, campaigns []model.Campaign) ([]CampaignView, error) {
	views := make([]CampaignView, len(campaigns))
	if len(campaigns) == 0 {
		return views, nil
	}

	ids := make([]int64, len(campaigns))
	for i, campaign := range campaigns {
		ids[i] = campaign.Id
	}
	totals, err := campaignTotals(ctx, c.db, ids)
	if err != nil {
		return nil, err
	}

	for i, campaign := range campaigns {
		t := totals[campaign.Id]
		views[i] = CampaignView{Campaign: campaign, DonationTotal: t.Total, DonationCount: t.DonationCount}
	}
	return views, nil
}

func (c *CampaignLogic) findCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := c.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("campaign not found")
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &campaign, nil
}

// campaignTotals 汇总每个活动的捐赠金额与笔数，ids 为空时汇总全部
func campaignTotals(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]campaignTotal, error) {
	query := db.WithContext(ctx).Model(&model.Donation{}).
		Select("campaign_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS donation_count").
		Where("campaign_id IS NOT NULL")
	if ids != nil {
		query = query.Where("campaign_id IN ?", ids)
	}

	var rows []campaignTotal
	if err := query.Group("campaign_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum campaign donations: %w", err)
	}

	totals := make(map[int64]campaignTotal, len(rows))
	for _, row := range rows {
		totals[row.CampaignId] = row
	}
	return totals, nil
}

func invalidCampaignStatus() *apperror.Error {
	values := make([]string, len(model.CampaignStatuses))
	for i, s := range model.CampaignStatuses {
		values[i] = string(s)
	}
	return apperror.BadRequest("status must be one of: %s", strings.Join(values, ", "))
}
