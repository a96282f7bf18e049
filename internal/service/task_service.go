package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskCreate carries the fields accepted when creating a task. AssignedToID
// zero means self-assignment.
type TaskCreate struct {
	Title        string
	Description  string
	DueDate      model.DateOnly
	Priority     string
	AssignedToID uint
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *model.DateOnly
	Priority     *string
	Status       *string
	AssignedToID *uint
}

// TaskService exposes task store and lifecycle operations. Every method takes
// the acting user explicitly; there is no ambient session state.
type TaskService interface {
	CreateTask(ctx context.Context, actor *model.User, in TaskCreate) (*model.Task, error)
	UpdateTask(ctx context.Context, actor *model.User, taskID uint, in TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, actor *model.User, taskID uint) error
	GetTask(ctx context.Context, actor *model.User, taskID uint) (*model.Task, error)
	ListTasks(ctx context.Context, actor *model.User, view string, filter TaskFilter) ([]model.Task, error)
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

// NewTaskService builds a TaskService.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) TaskService {
	return &taskService{tasks: tasks, users: users}
}

// CreateTask creates a task. Status always starts Pending regardless of what
// the caller sent; only an update can move it.
func (s *taskService) CreateTask(ctx context.Context, actor *model.User, in TaskCreate) (*model.Task, error) {
	if !CanAct(actor) {
		return nil, apperrors.ErrPendingApproval
	}

	if in.Title == "" || in.Description == "" || time.Time(in.DueDate).IsZero() {
		return nil, fmt.Errorf("%w: title, description and due_date are required", apperrors.ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityLow
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, priority)
	}

	assigneeID := in.AssignedToID
	if assigneeID == 0 {
		assigneeID = actor.ID
	}
	if err := s.resolveAssignee(ctx, assigneeID); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:        in.Title,
		Description:  in.Description,
		DueDate:      in.DueDate,
		Priority:     priority,
		Status:       model.StatusPending,
		CreatedByID:  actor.ID,
		AssignedToID: assigneeID,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return s.tasks.FindByID(ctx, task.ID)
}

// UpdateTask merges the provided fields into the task. Any approved actor may
// update any task while the permissive mutation policy holds; last write wins
// at field granularity.
func (s *taskService) UpdateTask(ctx context.Context, actor *model.User, taskID uint, in TaskUpdate) (*model.Task, error) {
	if !CanAct(actor) {
		return nil, apperrors.ErrPendingApproval
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	if !canTouchTask(actor, task) {
		return nil, apperrors.ErrTaskNotVisible
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		if !model.ValidPriority(*in.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		// All transitions are legal, Completed included; only the enum is
		// checked.
		if !model.ValidStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *in.Status)
		}
		task.Status = *in.Status
	}
	if in.AssignedToID != nil {
		if err := s.resolveAssignee(ctx, *in.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = *in.AssignedToID
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.tasks.FindByID(ctx, task.ID)
}

// DeleteTask removes a task.
func (s *taskService) DeleteTask(ctx context.Context, actor *model.User, taskID uint) error {
	if !CanAct(actor) {
		return apperrors.ErrPendingApproval
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("load task: %w", err)
	}

	if !canTouchTask(actor, task) {
		return apperrors.ErrTaskNotVisible
	}

	return s.tasks.Delete(ctx, task.ID)
}

// GetTask returns a single task if the actor may see it: admins see all,
// users only tasks they created or are assigned.
func (s *taskService) GetTask(ctx context.Context, actor *model.User, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	if !actor.IsAdmin() && task.AssignedToID != actor.ID && task.CreatedByID != actor.ID {
		return nil, apperrors.ErrTaskNotVisible
	}

	return task, nil
}

// ListTasks reads the full task set and projects the requested view for the
// actor, then applies the secondary filter. The projection is pure, so it is
// recomputed on every read.
func (s *taskService) ListTasks(ctx context.Context, actor *model.User, view string, filter TaskFilter) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	switch view {
	case ViewMine:
		tasks = Mine(actor, tasks)
	case ViewAdminOthers:
		tasks = AdminForOthers(actor, tasks)
	case "":
		tasks = VisibleTo(actor, tasks)
	default:
		return nil, fmt.Errorf("%w: unknown view %q", apperrors.ErrValidation, view)
	}

	return filter.Apply(tasks), nil
}

func (s *taskService) resolveAssignee(ctx context.Context, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrAssigneeNotFound
		}
		return fmt.Errorf("resolve assignee: %w", err)
	}
	return nil
}
