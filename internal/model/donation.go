package model

import (
	"time"
)

// Donation 单笔捐赠
type Donation struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Amount    float64   `json:"amount" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Method    string    `json:"method" gorm:"size:64;not null"`
	Recurring bool      `json:"recurring" gorm:"not null;default:false"`
	Thanked   bool      `json:"thanked" gorm:"not null;default:false"`
	Notes     *string   `json:"notes" gorm:"type:text"`

	DonorId    int64  `json:"donorId" gorm:"not null;index"`
	CampaignId *int64 `json:"campaignId" gorm:"index"`
}

// TableName 自定义表名
func (Donation) TableName() string {
	return "donation"
}
