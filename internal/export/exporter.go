// Package export writes donation snapshots as CSV to object storage.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Uploader 上传对象
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// Result 一次导出的结果
type Result struct {
	Key  string
	Rows int
}

// Exporter 导出全部捐赠
type Exporter struct {
	db       *gorm.DB
	uploader Uploader
	prefix   string
	now      func() time.Time
}

// NewExporter 创建导出器
func NewExporter(db *gorm.DB, uploader Uploader, prefix string) *Exporter {
	return &Exporter{
		db:       db,
		uploader: uploader,
		prefix:   strings.Trim(prefix, "/"),
		now:      time.Now,
	}
}

// Run 生成 CSV 快照并上传，返回对象 key
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	rows, err := e.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}

	key := ObjectKey(e.prefix, e.now(), uuid.NewString())
	if err := e.uploader.Upload(ctx, key, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	logger.Info("Exported %d donations to %s", len(rows), key)
	return &Result{Key: key, Rows: len(rows)}, nil
}

func (e *Exporter) loadRows(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := e.db.WithContext(ctx).
		Table("donation").
		Select(`donation.id, donation.date, donation.amount, donation.method, donation.recurring, donation.thanked,
			donation.donor_id, donor.name AS donor_name, donor.email AS donor_email,
			donation.campaign_id, campaign.name AS campaign_name`).
		Joins("JOIN donor ON donor.id = donation.donor_id").
		Joins("LEFT JOIN campaign ON campaign.id = donation.campaign_id").
		Order("donation.date ASC").Order("donation.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load donations for export: %w", err)
	}
	return rows, nil
}

// ObjectKey 形如 <prefix>/donations-20240131-235959-<uuid>.csv
func ObjectKey(prefix string, at time.Time, id string) string {
	name := fmt.Sprintf("donations-%s-%s.csv", at.UTC().Format("20060102-150405"), id)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
