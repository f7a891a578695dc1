package model

import (
	"time"
)

// Campaign 募捐活动
type Campaign struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string  `json:"name" gorm:"not null"`
	Description *string `json:"description" gorm:"type:text"`
	Goal        float64 `json:"goal" gorm:"not null"`

	// Raised 是缓存计数器，读取时以捐赠金额求和为准
	Raised float64 `json:"-" gorm:"not null;default:0"`

	StartDate time.Time      `json:"startDate" gorm:"not null"`
	EndDate   *time.Time     `json:"endDate"`
	Status    CampaignStatus `json:"status" gorm:"size:16;not null;default:'active';index"`

	Donations []Donation `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusUpcoming  CampaignStatus = "upcoming"  // 未开始
	CampaignStatusPaused    CampaignStatus = "paused"    // 暂停
	CampaignStatusCompleted CampaignStatus = "completed" // 已结束
)

// CampaignStatuses 合法状态列表
var CampaignStatuses = []CampaignStatus{
	CampaignStatusActive,
	CampaignStatusUpcoming,
	CampaignStatusPaused,
	CampaignStatusCompleted,
}

// Valid 判断状态是否合法
func (s CampaignStatus) Valid() bool {
	for _, v := range CampaignStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TableName 自定义表名
func (Campaign) TableName() string {
	return "campaign"
}
