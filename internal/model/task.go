package model

import (
	"time"
)

// TaskTypeThankYou 捐赠后自动创建的感谢任务类型
const TaskTypeThankYou = "thank-you"

// Task 针对捐赠者的跟进事项
type Task struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Type        string       `json:"type" gorm:"size:64;not null;index"`
	Description string       `json:"description" gorm:"type:text;not null"`
	DueDate     *time.Time   `json:"dueDate"`
	Priority    TaskPriority `json:"priority" gorm:"size:16;not null;default:'medium'"`
	Completed   bool         `json:"completed" gorm:"not null;default:false;index"`

	DonorId int64 `json:"donorId" gorm:"not null;index"`
}

// TaskPriority 任务优先级
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskPriorities 合法优先级列表
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Valid 判断优先级是否合法
func (p TaskPriority) Valid() bool {
	for _, v := range TaskPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// TableName 自定义表名
func (Task) TableName() string {
	return "task"
}
