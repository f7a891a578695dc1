package logic

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/model"
)

func (s *LogicSuite) TestCreateTask() {
	donor := s.mustDonor("John", "john@example.com")

	task, err := s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Check in", DonorId: donor.Id})
	s.Require().NoError(err)
	s.Equal(model.TaskPriorityMedium, task.Priority)
	s.False(task.Completed)
	s.Nil(task.DueDate)
	s.Equal("John", task.DonorName)

	_, err = s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Check in", DonorId: 999})
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)

	_, err = s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Check in", DonorId: donor.Id, Priority: "urgent"})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	_, err = s.tasks.CreateTask(s.ctx, TaskInput{Description: "Check in", DonorId: donor.Id})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)
}

func (s *LogicSuite) TestListTasksOrdering() {
	donor := s.mustDonor("John", "john@example.com")
	create := func(description, priority string, due *string) int64 {
		input := TaskInput{Type: "call", Description: description, Priority: priority, DonorId: donor.Id}
		if due != nil {
			d := date(*due)
			input.DueDate = &d
		}
		task, err := s.tasks.CreateTask(s.ctx, input)
		s.Require().NoError(err)
		return task.Id
	}

	noDue := create("no due date", "high", nil)
	lateLow := create("late low", "low", ptr("2024-02-01"))
	lateHigh := create("late high", "high", ptr("2024-02-01"))
	early := create("early", "low", ptr("2024-01-01"))
	done := create("done", "high", ptr("2023-12-01"))
	_, err := s.tasks.UpdateTask(s.ctx, done, TaskUpdate{Completed: ptr(true)})
	s.Require().NoError(err)

	items, total, err := s.tasks.ListTasks(s.ctx, TaskFilter{}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(5), total)

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	s.Equal([]int64{early, lateHigh, lateLow, noDue, done}, ids)

	_, total, err = s.tasks.ListTasks(s.ctx, TaskFilter{Completed: ptr(false), Priority: "high"}, NewPage(0, 0))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
}

func (s *LogicSuite) TestTaskCompletionIsOneWay() {
	donor := s.mustDonor("John", "john@example.com")
	task, err := s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Check in", DonorId: donor.Id})
	s.Require().NoError(err)

	updated, err := s.tasks.UpdateTask(s.ctx, task.Id, TaskUpdate{Completed: ptr(true), DueDate: ptr("2024-07-01")})
	s.Require().NoError(err)
	s.True(updated.Completed)
	s.Require().NotNil(updated.DueDate)

	_, err = s.tasks.UpdateTask(s.ctx, task.Id, TaskUpdate{Completed: ptr(false)})
	requireAppError(s.T(), err, http.StatusBadRequest, apperror.CodeValidation)

	// 再次标记完成是幂等的
	_, err = s.tasks.UpdateTask(s.ctx, task.Id, TaskUpdate{Completed: ptr(true)})
	s.NoError(err)
}

func (s *LogicSuite) TestDeleteTask() {
	donor := s.mustDonor("John", "john@example.com")
	task, err := s.tasks.CreateTask(s.ctx, TaskInput{Type: "call", Description: "Check in", DonorId: donor.Id})
	s.Require().NoError(err)

	deleted, err := s.tasks.DeleteTask(s.ctx, task.Id)
	s.Require().NoError(err)
	s.Equal(task.Id, deleted.Id)

	_, err = s.tasks.DeleteTask(s.ctx, task.Id)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
	_, err = s.tasks.GetTask(s.ctx, task.Id)
	requireAppError(s.T(), err, http.StatusNotFound, apperror.CodeNotFound)
}
