package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

// DonationLogic 捐赠业务逻辑
type DonationLogic struct {
	db        *gorm.DB
	publisher event.Publisher
}

// NewDonationLogic 创建捐赠业务逻辑，publisher 接收提交后的捐赠事件
func NewDonationLogic(db *gorm.DB, publisher event.Publisher) *DonationLogic {
	return &DonationLogic{db: db, publisher: publisher}
}

// DonorSummary 捐赠中附带的捐赠者摘要
type DonorSummary struct {
	Id    int64
	Name  string
	Email string
}

// CampaignSummary 捐赠中附带的活动摘要
type CampaignSummary struct {
	Id   int64
	Name string
	Goal float64
}

// DonationView 捐赠及其关联摘要
type DonationView struct {
	model.Donation
	Donor    *DonorSummary
	Campaign *CampaignSummary
}

// DonationFilter 列表过滤条件
type DonationFilter struct {
	DonorId    *int64
	CampaignId *int64
	Method     string
}

// DonationInput 创建捐赠的输入
type DonationInput struct {
	Amount     float64
	Date       time.Time
	Method     string
	Recurring  bool
	Notes      string
	DonorId    int64
	CampaignId *int64
}

// DonationUpdate 部分更新，CampaignId 为 0 表示解除活动关联
type DonationUpdate struct {
	Amount     *float64
	Date       *time.Time
	Method     *string
	CampaignId *int64
	Recurring  *bool
	Thanked    *bool
	Notes      *string
}

// ListDonations 获取捐赠列表，按捐赠日期倒序
func (d *DonationLogic) ListDonations(ctx context.Context, filter DonationFilter, page Page) ([]DonationView, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Donation{})
	if filter.DonorId != nil {
		query = query.Where("donor_id = ?", *filter.DonorId)
	}
	if filter.CampaignId != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignId)
	}
	if filter.Method != "" {
		query = query.Where(`LOWER(method) LIKE ? ESCAPE '\'`, likePattern(filter.Method))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	var donations []model.Donation
	if err := page.apply(query).Order("date DESC").Order("id DESC").Find(&donations).Error; err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}

	views, err := buildDonationViews(ctx, d.db, donations)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetDonation 获取单笔捐赠
func (d *DonationLogic) GetDonation(ctx context.Context, id int64) (*DonationView, error) {
	donation, err := d.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.view(ctx, donation)
}

// CreateDonation 创建捐赠。感谢任务与活动金额在提交后由事件钩子处理，失败不影响捐赠本身。
func (d *DonationLogic) CreateDonation(ctx context.Context, input DonationInput) (*DonationView, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return nil, apperror.BadRequest("method is required")
	}
	if input.DonorId <= 0 {
		return nil, apperror.BadRequest("donorId is required")
	}
	if input.Date.IsZero() {
		return nil, apperror.BadRequest("date is required")
	}

	ok, err := donorExists(ctx, d.db, input.DonorId)
	if err != nil {
		return nil, fmt.Errorf("check donor: %w", err)
	}
	if !ok {
		return nil, apperror.NotFound("donor not found")
	}

	campaignId := input.CampaignId
	if campaignId != nil && *campaignId == 0 {
		campaignId = nil
	}
	if campaignId != nil {
		if err := d.requireCampaign(ctx, *campaignId); err != nil {
			return nil, err
		}
	}

	donation := &model.Donation{
		Amount:     input.Amount,
		Date:       input.Date,
		Method:     method,
		Recurring:  input.Recurring,
		Thanked:    false,
		Notes:      optionalString(input.Notes),
		DonorId:    input.DonorId,
		CampaignId: campaignId,
	}
	if err := d.db.WithContext(ctx).Create(donation).Error; err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	d.publish(event.Event{Type: event.DonationCreated, Donation: snapshot(donation)})

	return d.view(ctx, donation)
}

// UpdateDonation 部分更新捐赠，金额或活动变化时发布事件以调整缓存金额
func (d *DonationLogic) UpdateDonation(ctx context.Context, id int64, update DonationUpdate) (*DonationView, error) {
	existing, err := d.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *update.Amount
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Method != nil {
		method := strings.TrimSpace(*update.Method)
		if method == "" {
			return nil, apperror.BadRequest("method cannot be empty")
		}
		updates["method"] = method
	}
	if update.CampaignId != nil {
		if *update.CampaignId == 0 {
			updates["campaign_id"] = nil
		} else {
			if existing.CampaignId == nil || *existing.CampaignId != *update.CampaignId {
				if err := d.requireCampaign(ctx, *update.CampaignId); err != nil {
					return nil, err
				}
			}
			updates["campaign_id"] = *update.CampaignId
		}
	}
	if update.Recurring != nil {
		updates["recurring"] = *update.Recurring
	}
	if update.Thanked != nil {
		if existing.Thanked && !*update.Thanked {
			return nil, apperror.BadRequest("a thanked donation cannot be marked as not thanked")
		}
		updates["thanked"] = *update.Thanked
	}
	if update.Notes != nil {
		updates["notes"] = nullableString(update.Notes)
	}

	previous := snapshot(existing)
	if len(updates) > 0 {
		if err := d.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update donation: %w", err)
		}
	}

	updated, err := d.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	current := snapshot(updated)
	if current.Amount != previous.Amount || !sameId(current.CampaignId, previous.CampaignId) {
		d.publish(event.Event{Type: event.DonationUpdated, Donation: current, Previous: &previous})
	}

	return d.view(ctx, updated)
}

// ThankDonation 确认已致谢。首次确认时顺带完成该捐赠者最早的待办感谢任务。
func (d *DonationLogic) ThankDonation(ctx context.Context, id int64) (*DonationView, error) {
	donation, err := d.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	if !donation.Thanked {
		if err := d.db.WithContext(ctx).Model(donation).Update("thanked", true).Error; err != nil {
			return nil, fmt.Errorf("mark donation thanked: %w", err)
		}
		donation.Thanked = true

		if err := d.completeThankYouTask(ctx, donation.DonorId); err != nil {
			logger.Error("Failed to complete thank-you task for donor %d: %v", donation.DonorId, err)
		}
	}

	return d.view(ctx, donation)
}

func (d *DonationLogic) completeThankYouTask(ctx context.Context, donorId int64) error {
	var task model.Task
	err := d.db.WithContext(ctx).
		Where("donor_id = ? AND type = ? AND completed = ?", donorId, model.TaskTypeThankYou, false).
		Order("due_date IS NULL").Order("due_date ASC").Order("id ASC").
		First(&task).Error
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return d.db.WithContext(ctx).Model(&task).Update("completed", true).Error
}

// DeleteDonation 删除捐赠，活动缓存金额由事件钩子回退
func (d *DonationLogic) DeleteDonation(ctx context.Context, id int64) (*model.Donation, error) {
	donation, err := d.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.db.WithContext(ctx).Delete(&model.Donation{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete donation: %w", err)
	}

	d.publish(event.Event{Type: event.DonationDeleted, Donation: snapshot(donation)})
	return donation, nil
}

func (d *DonationLogic) publish(evt event.Event) {
	if d.publisher == nil {
		return
	}
	d.publisher.Publish(evt)
}

func (d *DonationLogic) findDonation(ctx context.Context, id int64) (*model.Donation, error) {
	var donation model.Donation
	if err := d.db.WithContext(ctx).First(&donation, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("donation not found")
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return &donation, nil
}

func (d *DonationLogic) requireCampaign(ctx context.Context, id int64) error {
	ok, err := campaignExists(ctx, d.db, id)
	if err != nil {
		return fmt.Errorf("check campaign: %w", err)
	}
	if !ok {
		return apperror.NotFound("campaign not found")
	}
	return nil
}

func (d *DonationLogic) view(ctx context.Context, donation *model.Donation) (*DonationView, error) {
	views, err := buildDonationViews(ctx, d.db, []model.Donation{*donation})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildDonationViews 批量加载捐赠关联的捐赠者与活动摘要
func buildDonationViews(ctx context.Context, db *gorm.DB, donations []model.Donation) ([]DonationView, error) {
	views := make([]DonationView, len(donations))
	if len(donations) == 0 {
		return views, nil
	}

	donorIds := make([]int64, 0, len(donations))
	campaignIds := make([]int64, 0, len(donations))
	for _, donation := range donations {
		donorIds = append(donorIds, donation.DonorId)
		if donation.CampaignId != nil {
			campaignIds = append(campaignIds, *donation.CampaignId)
		}
	}

	var donors []model.Donor
	if err := db.WithContext(ctx).Select("id", "name", "email").Where("id IN ?", donorIds).Find(&donors).Error; err != nil {
		return nil, fmt.Errorf("load donation donors: %w", err)
	}
	donorById := make(map[int64]*DonorSummary, len(donors))
	for _, donor := range donors {
		donorById[donor.Id] = &DonorSummary{Id: donor.Id, Name: donor.Name, Email: donor.Email}
	}

	campaignById := make(map[int64]*CampaignSummary)
	if len(campaignIds) > 0 {
		var campaigns []model.Campaign
		if err := db.WithContext(ctx).Select("id", "name", "goal").Where("id IN ?", campaignIds).Find(&campaigns).Error; err != nil {
			return nil, fmt.Errorf("load donation campaigns: %w", err)
		}
		for _, campaign := range campaigns {
			campaignById[campaign.Id] = &CampaignSummary{Id: campaign.Id, Name: campaign.Name, Goal: campaign.Goal}
		}
	}

	for i, donation := range donations {
		views[i] = DonationView{Donation: donation, Donor: donorById[donation.DonorId]}
		if donation.CampaignId != nil {
			views[i].Campaign = campaignById[*donation.CampaignId]
		}
	}
	return views, nil
}

func snapshot(donation *model.Donation) event.DonationSnapshot {
	return event.DonationSnapshot{
		Id:         donation.Id,
		DonorId:    donation.DonorId,
		CampaignId: donation.CampaignId,
		Amount:     donation.Amount,
		CreatedAt:  donation.CreatedAt,
	}
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return apperror.BadRequest("amount must be a positive number")
	}
	return nil
}

func sameId(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
