package event

import (
	"context"
	"time"

	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/model"
)

// ThankYouDelay 感谢任务的到期间隔
const ThankYouDelay = 7 * 24 * time.Hour

// ThankYouDescription 自动感谢任务的描述
const ThankYouDescription = "Send thank you message for donation"

// TaskCreator 由任务业务逻辑实现
type TaskCreator interface {
	CreateSystemTask(ctx context.Context, task *model.Task) error
}

// ThankYouTaskProcessor 捐赠创建后为捐赠者安排感谢任务
type ThankYouTaskProcessor struct {
	tasks TaskCreator
}

// NewThankYouTaskProcessor 创建感谢任务处理器
func NewThankYouTaskProcessor(tasks TaskCreator) *ThankYouTaskProcessor {
	return &ThankYouTaskProcessor{tasks: tasks}
}

func (p *ThankYouTaskProcessor) Name() string {
	return "thank_you_task"
}

// Process 处理捐赠创建事件
func (p *ThankYouTaskProcessor) Process(ctx context.Context, evt Event) error {
	if evt.Type != DonationCreated {
		return nil
	}

	due := ThankYouDueDate(evt.Donation.CreatedAt)
	task := &model.Task{
		Type:        model.TaskTypeThankYou,
		Description: ThankYouDescription,
		DueDate:     &due,
		Priority:    model.TaskPriorityHigh,
		DonorId:     evt.Donation.DonorId,
	}
	if err := p.tasks.CreateSystemTask(ctx, task); err != nil {
		return err
	}

	logger.Info("Created thank-you task %d for donor %d (donation %d)", task.Id, task.DonorId, evt.Donation.Id)
	return nil
}

// ThankYouDueDate 感谢任务到期日
func ThankYouDueDate(createdAt time.Time) time.Time {
	return createdAt.Add(ThankYouDelay)
}
