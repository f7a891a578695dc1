package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// DateLayout 请求中的日期格式
	DateLayout = "2006-01-02"
)

// Page 偏移分页参数
type Page struct {
	Limit  int
	Offset int
}

// NewPage 规范化分页参数：limit 默认 10，上限 100；offset 不小于 0
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// HasMore 是否还有下一页
func (p Page) HasMore(total int64) bool {
	return int64(p.Offset+p.Limit) < total
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset).Limit(p.Limit)
}

// ParseDate 解析 YYYY-MM-DD，返回 UTC 零点
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, apperror.BadRequest("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// likePattern 构造大小写不敏感的子串匹配模式
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// normalizeEmail 邮箱统一小写去空白
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nullableString 空字符串视为清空
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return v
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// donorExists 检查捐赠者是否存在
func donorExists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Donor{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// campaignExists 检查活动是否存在
func campaignExists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Campaign{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
