package event

import (
	"time"
)

// Type 事件类型
type Type string

const (
	DonationCreated Type = "DonationCreated"
	DonationUpdated Type = "DonationUpdated"
	DonationDeleted Type = "DonationDeleted"
)

// DonationSnapshot 事件发布时捐赠记录的状态
type DonationSnapshot struct {
	Id         int64
	DonorId    int64
	CampaignId *int64
	Amount     float64
	CreatedAt  time.Time
}

// Event 提交成功后发布的捐赠事件
type Event struct {
	Type     Type
	Donation DonationSnapshot
	// Previous 仅 DonationUpdated 携带，为更新前的状态
	Previous *DonationSnapshot
}
