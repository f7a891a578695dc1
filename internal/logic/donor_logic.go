package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

// DonorLogic 捐赠者业务逻辑
type DonorLogic struct {
	db *gorm.DB
}

// NewDonorLogic 创建捐赠者业务逻辑
func NewDonorLogic(db *gorm.DB) *DonorLogic {
	return &DonorLogic{db: db}
}

// DonorFilter 列表过滤条件
type DonorFilter struct {
	Search string
	Status string
}

// DonorListItem 列表项，附带捐赠笔数
type DonorListItem struct {
	model.Donor
	DonationCount int64
}

// DonorDetail 捐赠者详情
type DonorDetail struct {
	model.Donor
	Donations []DonationView
	Tasks     []model.Task
}

// DonorUpdate 部分更新，nil 表示不修改
type DonorUpdate struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *string
	Notes  *string
}

// DonorDeletion 删除结果，含级联删除的行数
type DonorDeletion struct {
	Id        int64
	Name      string
	Donations int64
	Tasks     int64
}

// ListDonors 获取捐赠者列表
func (d *DonorLogic) ListDonors(ctx context.Context, filter DonorFilter, page Page) ([]DonorListItem, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Donor{})

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	// 未知状态值忽略，不作为过滤条件
	if status := model.DonorStatus(filter.Status); status.Valid() {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count donors: %w", err)
	}

	var donors []model.Donor
	if err := page.apply(query).Order("created_at DESC").Order("id DESC").Find(&donors).Error; err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}

	ids := make([]int64, len(donors))
	for i, donor := range donors {
		ids[i] = donor.Id
	}
	counts, err := d.donationCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]DonorListItem, len(donors))
	for i, donor := range donors {
		items[i] = DonorListItem{Donor: donor, DonationCount: counts[donor.Id]}
	}
	return items, total, nil
}

func (d *DonorLogic) donationCounts(ctx context.Context, donorIds []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(donorIds))
	if len(donorIds) == 0 {
		return counts, nil
	}

	var rows []struct {
		DonorId       int64
		DonationCount int64
	}
	if err := d.db.WithContext(ctx).Model(&model.Donation{}).
		Select("donor_id, COUNT(*) AS donation_count").
		Where("donor_id IN ?", donorIds).
		Group("donor_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count donor donations: %w", err)
	}
	for _, row := range rows {
		counts[row.DonorId] = row.DonationCount
	}
	return counts, nil
}

// GetDonor 获取捐赠者详情，捐赠按日期倒序
func (d *DonorLogic) GetDonor(ctx context.Context, id int64) (*DonorDetail, error) {
	donor, err := d.findDonor(ctx, d.db, id)
	if err != nil {
		return nil, err
	}

	var donations []model.Donation
	if err := d.db.WithContext(ctx).
		Where("donor_id = ?", id).
		Order("date DESC").Order("id DESC").
		Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("get donor donations: %w", err)
	}

	views, err := buildDonationViews(ctx, d.db, donations)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := orderTasks(d.db.WithContext(ctx).Where("donor_id = ?", id)).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("get donor tasks: %w", err)
	}

	return &DonorDetail{Donor: *donor, Donations: views, Tasks: tasks}, nil
}

// CreateDonor 创建捐赠者，状态默认为 new
func (d *DonorLogic) CreateDonor(ctx context.Context, donor *model.Donor) error {
	donor.Name = strings.TrimSpace(donor.Name)
	donor.Email = normalizeEmail(donor.Email)
	if donor.Name == "" || donor.Email == "" {
		return apperror.BadRequest("name and email are required")
	}
	if donor.Status == "" {
		donor.Status = model.DonorStatusNew
	}
	if !donor.Status.Valid() {
		return invalidDonorStatus()
	}

	taken, err := d.emailTaken(ctx, donor.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("donor with this email already exists")
	}

	if err := d.db.WithContext(ctx).Create(donor).Error; err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("donor with this email already exists")
		}
		return fmt.Errorf("create donor: %w", err)
	}
	return nil
}

// UpdateDonor 部分更新捐赠者
func (d *DonorLogic) UpdateDonor(ctx context.Context, id int64, update DonorUpdate) (*model.Donor, error) {
	donor, err := d.findDonor(ctx, d.db, id)
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
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if email == "" {
			return nil, apperror.BadRequest("email cannot be empty")
		}
		if email != donor.Email {
			taken, err := d.emailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperror.Conflict("donor with this email already exists")
			}
		}
		updates["email"] = email
	}
	if update.Status != nil {
		status := model.DonorStatus(*update.Status)
		if !status.Valid() {
			return nil, invalidDonorStatus()
		}
		updates["status"] = status
	}
	if update.Phone != nil {
		updates["phone"] = nullableString(update.Phone)
	}
	if update.Notes != nil {
		updates["notes"] = nullableString(update.Notes)
	}

	if len(updates) > 0 {
		if err := d.db.WithContext(ctx).Model(donor).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return nil, apperror.Conflict("donor with this email already exists")
			}
			return nil, fmt.Errorf("update donor: %w", err)
		}
	}

	return d.findDonor(ctx, d.db, id)
}

// DeleteDonor 删除捐赠者并级联删除其捐赠与任务，同时回退相关活动的缓存金额
func (d *DonorLogic) DeleteDonor(ctx context.Context, id int64) (*DonorDeletion, error) {
	var result *DonorDeletion

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donor, err := d.findDonor(ctx, tx, id)
		if err != nil {
			return err
		}

		result = &DonorDeletion{Id: donor.Id, Name: donor.Name}
		if err := tx.Model(&model.Donation{}).Where("donor_id = ?", id).Count(&result.Donations).Error; err != nil {
			return fmt.Errorf("count donor donations: %w", err)
		}
		if err := tx.Model(&model.Task{}).Where("donor_id = ?", id).Count(&result.Tasks).Error; err != nil {
			return fmt.Errorf("count donor tasks: %w", err)
		}

		var contributions []struct {
			CampaignId int64
			Total      float64
		}
		if err := tx.Model(&model.Donation{}).
			Select("campaign_id, SUM(amount) AS total").
			Where("donor_id = ? AND campaign_id IS NOT NULL", id).
			Group("campaign_id").
			Scan(&contributions).Error; err != nil {
			return fmt.Errorf("sum donor contributions: %w", err)
		}
		for _, c := range contributions {
			if err := tx.Model(&model.Campaign{}).
				Where("id = ?", c.CampaignId).
				Update("raised", gorm.Expr("raised - ?", c.Total)).Error; err != nil {
				return fmt.Errorf("revert campaign %d raised: %w", c.CampaignId, err)
			}
		}

		if err := tx.Where("donor_id = ?", id).Delete(&model.Donation{}).Error; err != nil {
			return fmt.Errorf("delete donor donations: %w", err)
		}
		if err := tx.Where("donor_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete donor tasks: %w", err)
		}
		if err := tx.Delete(&model.Donor{}, id).Error; err != nil {
			return fmt.Errorf("delete donor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *DonorLogic) findDonor(ctx context.Context, db *gorm.DB, id int64) (*model.Donor, error) {
	var donor model.Donor
	if err := db.WithContext(ctx).First(&donor, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("donor not found")
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}
	return &donor, nil
}

func (d *DonorLogic) emailTaken(ctx context.Context, email string, exceptId int64) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&model.Donor{}).
		Where("email = ? AND id <> ?", email, exceptId).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check donor email: %w", err)
	}
	return count > 0, nil
}

func invalidDonorStatus() error {
	return apperror.BadRequest("status must be one of: active, lapsed, new")
}
