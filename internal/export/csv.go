package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Header CSV 表头
var Header = []string{
	"id", "date", "amount", "method", "recurring", "thanked",
	"donor_id", "donor_name", "donor_email", "campaign_id", "campaign_name",
}

// Row 导出的一行捐赠记录
type Row struct {
	Id           int64
	Date         time.Time
	Amount       float64
	Method       string
	Recurring    bool
	Thanked      bool
	DonorId      int64
	DonorName    string
	DonorEmail   string
	CampaignId   *int64
	CampaignName *string
}

func (r Row) record() []string {
	campaignId, campaignName := "", ""
	if r.CampaignId != nil {
		campaignId = strconv.FormatInt(*r.CampaignId, 10)
	}
	if r.CampaignName != nil {
		campaignName = *r.CampaignName
	}
	return []string{
		strconv.FormatInt(r.Id, 10),
		r.Date.UTC().Format("2006-01-02"),
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
		r.Method,
		strconv.FormatBool(r.Recurring),
		strconv.FormatBool(r.Thanked),
		strconv.FormatInt(r.DonorId, 10),
		r.DonorName,
		r.DonorEmail,
		campaignId,
		campaignName,
	}
}

// WriteCSV 写出表头与全部记录
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Id, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
