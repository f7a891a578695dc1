package event

import (
	"context"
	"fmt"
)

// RaisedAdjuster 由活动业务逻辑实现，原子地调整缓存的已筹金额
type RaisedAdjuster interface {
	AdjustRaised(ctx context.Context, campaignId int64, delta float64) error
}

// CampaignRaisedProcessor 维护活动缓存的已筹金额
type CampaignRaisedProcessor struct {
	campaigns RaisedAdjuster
}

// NewCampaignRaisedProcessor 创建已筹金额处理器
func NewCampaignRaisedProcessor(campaigns RaisedAdjuster) *CampaignRaisedProcessor {
	return &CampaignRaisedProcessor{campaigns: campaigns}
}

func (p *CampaignRaisedProcessor) Name() string {
	return "campaign_raised"
}

// Process 根据事件类型增减缓存金额
func (p *CampaignRaisedProcessor) Process(ctx context.Context, evt Event) error {
	switch evt.Type {
	case DonationCreated:
		return p.adjust(ctx, evt.Donation.CampaignId, evt.Donation.Amount)
	case DonationDeleted:
		return p.adjust(ctx, evt.Donation.CampaignId, -evt.Donation.Amount)
	case DonationUpdated:
		if evt.Previous == nil {
			return nil
		}
		prev, cur := evt.Previous, evt.Donation
		if sameCampaign(prev.CampaignId, cur.CampaignId) {
			if prev.Amount == cur.Amount {
				return nil
			}
			return p.adjust(ctx, cur.CampaignId, cur.Amount-prev.Amount)
		}
		if err := p.adjust(ctx, prev.CampaignId, -prev.Amount); err != nil {
			return err
		}
		return p.adjust(ctx, cur.CampaignId, cur.Amount)
	default:
		return nil
	}
}

func (p *CampaignRaisedProcessor) adjust(ctx context.Context, campaignId *int64, delta float64) error {
	if campaignId == nil {
		return nil
	}
	if err := p.campaigns.AdjustRaised(ctx, *campaignId, delta); err != nil {
		return fmt.Errorf("adjust campaign %d raised by %.2f: %w", *campaignId, delta, err)
	}
	return nil
}

func sameCampaign(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
