package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
	"gorm.io/gorm"
)

// TaskLogic 跟进任务业务逻辑
type TaskLogic struct {
	db *gorm.DB
}

// NewTaskLogic 创建任务业务逻辑
func NewTaskLogic(db *gorm.DB) *TaskLogic {
	return &TaskLogic{db: db}
}

// TaskView 任务及所属捐赠者
type TaskView struct {
	model.Task
	DonorName  string
	DonorEmail string
}

// TaskFilter 列表过滤条件
type TaskFilter struct {
	Completed *bool
	Priority  string
	DonorId   *int64
}

// TaskInput 创建任务的输入
type TaskInput struct {
	Type        string
	Description string
	DueDate     *time.Time
	Priority    string
	DonorId     int64
}

// TaskUpdate 部分更新；DueDate 为空字符串表示清空
type TaskUpdate struct {
	Type        *string
	Description *string
	DueDate     *string
	Priority    *string
	Completed   *bool
}

// orderTasks 未完成在前，截止日期升序且无截止日期排最后，再按优先级从高到低
func orderTasks(db *gorm.DB) *gorm.DB {
	return db.
		Order("completed ASC").
		Order("(due_date IS NULL) ASC").
		Order("due_date ASC").
		Order("CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC").
		Order("id ASC")
}

// ListTasks 获取任务列表
func (t *TaskLogic) ListTasks(ctx context.Context, filter TaskFilter, page Page) ([]TaskView, int64, error) {
	query := t.db.WithContext(ctx).Model(&model.Task{})
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if p := model.TaskPriority(filter.Priority); p.Valid() {
		query = query.Where("priority = ?", p)
	}
	if filter.DonorId != nil {
		query = query.Where("donor_id = ?", *filter.DonorId)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []model.Task
	if err := orderTasks(page.apply(query)).Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	views, err := t.withDonors(ctx, tasks)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetTask 获取单个任务
func (t *TaskLogic) GetTask(ctx context.Context, id int64) (*TaskView, error) {
	task, err := t.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.view(ctx, task)
}

// CreateTask 创建任务，优先级默认为 medium
func (t *TaskLogic) CreateTask(ctx context.Context, input TaskInput) (*TaskView, error) {
	taskType := strings.TrimSpace(input.Type)
	description := strings.TrimSpace(input.Description)
	if taskType == "" || description == "" {
		return nil, apperror.BadRequest("type and description are required")
	}
	if input.DonorId <= 0 {
		return nil, apperror.BadRequest("donorId is required")
	}

	priority := model.TaskPriorityMedium
	if input.Priority != "" {
		priority = model.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, invalidTaskPriority()
		}
	}

	ok, err := donorExists(ctx, t.db, input.DonorId)
	if err != nil {
		return nil, fmt.Errorf("check donor: %w", err)
	}
	if !ok {
		return nil, apperror.NotFound("donor not found")
	}

	task := &model.Task{
		Type:        taskType,
		Description: description,
		DueDate:     input.DueDate,
		Priority:    priority,
		DonorId:     input.DonorId,
	}
	if err := t.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t.view(ctx, task)
}

// CreateSystemTask 由捐赠钩子调用，不做请求级校验
func (t *TaskLogic) CreateSystemTask(ctx context.Context, task *model.Task) error {
	if err := t.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create system task: %w", err)
	}
	return nil
}

// UpdateTask 部分更新任务，完成状态不可撤销
func (t *TaskLogic) UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*TaskView, error) {
	task, err := t.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Type != nil {
		v := strings.TrimSpace(*update.Type)
		if v == "" {
			return nil, apperror.BadRequest("type cannot be empty")
		}
		updates["type"] = v
	}
	if update.Description != nil {
		v := strings.TrimSpace(*update.Description)
		if v == "" {
			return nil, apperror.BadRequest("description cannot be empty")
		}
		updates["description"] = v
	}
	if update.DueDate != nil {
		if strings.TrimSpace(*update.DueDate) == "" {
			updates["due_date"] = nil
		} else {
			due, err := ParseDate("dueDate", *update.DueDate)
			if err != nil {
				return nil, err
			}
			updates["due_date"] = due
		}
	}
	if update.Priority != nil {
		p := model.TaskPriority(*update.Priority)
		if !p.Valid() {
			return nil, invalidTaskPriority()
		}
		updates["priority"] = p
	}
	if update.Completed != nil {
		if task.Completed && !*update.Completed {
			return nil, apperror.BadRequest("a completed task cannot be reopened")
		}
		updates["completed"] = *update.Completed
	}

	if len(updates) > 0 {
		if err := t.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
	}

	updated, err := t.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.view(ctx, updated)
}

// DeleteTask 删除任务
func (t *TaskLogic) DeleteTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := t.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return task, nil
}

func (t *TaskLogic) findTask(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := t.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

func (t *TaskLogic) view(ctx context.Context, task *model.Task) (*TaskView, error) {
	views, err := t.withDonors(ctx, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (t *TaskLogic) withDonors(ctx context.Context, tasks []model.Task) ([]TaskView, error) {
	return attachTaskDonors(ctx, t.db, tasks)
}

// attachTaskDonors 批量加载任务所属捐赠者的姓名与邮箱
func attachTaskDonors(ctx context.Context, db *gorm.DB, tasks []model.Task) ([]TaskView, error) {
	views := make([]TaskView, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.DonorId
	}
	var donors []model.Donor
	if err := db.WithContext(ctx).Select("id", "name", "email").Where("id IN ?", ids).Find(&donors).Error; err != nil {
		return nil, fmt.Errorf("load task donors: %w", err)
	}
	byId := make(map[int64]model.Donor, len(donors))
	for _, donor := range donors {
		byId[donor.Id] = donor
	}

	for i, task := range tasks {
		donor := byId[task.DonorId]
		views[i] = TaskView{Task: task, DonorName: donor.Name, DonorEmail: donor.Email}
	}
	return views, nil
}

func invalidTaskPriority() *apperror.Error {
	return apperror.BadRequest("priority must be one of: low, medium, high")
}
