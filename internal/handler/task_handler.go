package handler

import (
	"net/http"
	"time"

	"github.com/donorhub/dhs/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskLogic *logic.TaskLogic
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{
		taskLogic: logic.NewTaskLogic(db),
	}
}

// GetTasks 获取任务列表
func (h *TaskHandler) GetTasks(c *gin.Context) {
	page := pageFromQuery(c)
	completed, err := boolQuery(c, "completed")
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	donorId, err := int64Query(c, "donorId")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	items, total, err := h.taskLogic.ListTasks(c.Request.Context(), logic.TaskFilter{
		Completed: completed,
		Priority:  c.Query("priority"),
		DonorId:   donorId,
	}, page)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	PagedResponse(c, "Tasks retrieved successfully", toTaskViewResponses(items), page, total)
}

// GetTask 获取单个任务
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := parseId(c, "task")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	task, err := h.taskLogic.GetTask(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Task retrieved successfully", toTaskViewResponse(task))
}

// CreateTask 创建任务
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := logic.ParseDate("dueDate", req.DueDate)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		due = &parsed
	}

	task, err := h.taskLogic.CreateTask(c.Request.Context(), logic.TaskInput{
		Type:        req.Type,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		DonorId:     req.DonorId,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Task created successfully", toTaskViewResponse(task))
}

// UpdateTask 更新任务
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := parseId(c, "task")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task, err := h.taskLogic.UpdateTask(c.Request.Context(), id, logic.TaskUpdate{
		Type:        req.Type,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Completed:   req.Completed,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Task updated successfully", toTaskViewResponse(task))
}

// DeleteTask 删除任务
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := parseId(c, "task")
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	task, err := h.taskLogic.DeleteTask(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Task deleted successfully", gin.H{"deletedId": task.Id})
}
