package model

import (
	"time"
)

// Donor 捐赠者
type Donor struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name   string      `json:"name" gorm:"not null"`
	Email  string      `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Phone  *string     `json:"phone"`
	Status DonorStatus `json:"status" gorm:"size:16;not null;default:'new';index"`
	Notes  *string     `json:"notes" gorm:"type:text"`

	Donations []Donation `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tasks     []Task     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// DonorStatus 捐赠者状态
type DonorStatus string

const (
	DonorStatusActive DonorStatus = "active"
	DonorStatusLapsed DonorStatus = "lapsed"
	DonorStatusNew    DonorStatus = "new"
)

// DonorStatuses 合法状态列表
var DonorStatuses = []DonorStatus{DonorStatusActive, DonorStatusLapsed, DonorStatusNew}

// Valid 判断状态是否合法
func (s DonorStatus) Valid() bool {
	for _, v := range DonorStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TableName 自定义表名
func (Donor) TableName() string {
	return "donor"
}
