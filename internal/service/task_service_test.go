package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

func mustDate(t *testing.T, s string) model.DateOnly {
	t.Helper()
	d, err := model.ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestTaskService_CreateTask(t *testing.T) {
	approvedUser := &model.User{ID: 5, Username: "alice", Role: model.RoleUser, IsApproved: true}
	pendingUser := &model.User{ID: 6, Username: "carol", Role: model.RoleUser, IsApproved: false}
	unapprovedAdmin := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin, IsApproved: false}

	tests := []struct {
		name          string
		actor         *model.User
		input         TaskCreate
		setupMocks    func(tasks *MockTaskRepository, users *MockUserRepository)
		expectedError error
		check         func(t *testing.T, task *model.Task)
	}{
		{
			name:  "unapproved user is rejected before validation",
			actor: pendingUser,
			input: TaskCreate{},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
			},
			expectedError: apperrors.ErrPendingApproval,
		},
		{
			name:  "missing required fields",
			actor: approvedUser,
			input: TaskCreate{Title: "T1"},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
			},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:  "unknown priority",
			actor: approvedUser,
			input: TaskCreate{Title: "T1", Description: "d", DueDate: model.DateOnly(time.Now()), Priority: "Urgent"},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
			},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:  "unknown assignee",
			actor: approvedUser,
			input: TaskCreate{Title: "T1", Description: "d", DueDate: model.DateOnly(time.Now()), AssignedToID: 99},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
				users.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrAssigneeNotFound,
		},
		{
			name:  "approved user self-assigns by default and starts pending",
			actor: approvedUser,
			input: TaskCreate{Title: "T1", Description: "write it", DueDate: model.DateOnly(time.Now()), Priority: model.PriorityLow},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
				users.On("FindByID", mock.Anything, uint(5)).Return(approvedUser, nil)
				tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
					task := args.Get(1).(*model.Task)
					task.ID = 100
				}).Return(nil)
				tasks.On("FindByID", mock.Anything, uint(100)).Return(&model.Task{
					ID: 100, Title: "T1", Status: model.StatusPending,
					CreatedByID: 5, AssignedToID: 5,
				}, nil)
			},
			check: func(t *testing.T, task *model.Task) {
				assert.Equal(t, model.StatusPending, task.Status)
				assert.Equal(t, uint(5), task.CreatedByID)
				assert.Equal(t, task.CreatedByID, task.AssignedToID)
			},
		},
		{
			name:  "unapproved admin may still create for others",
			actor: unapprovedAdmin,
			input: TaskCreate{Title: "T2", Description: "for alice", DueDate: model.DateOnly(time.Now()), AssignedToID: 5},
			setupMocks: func(tasks *MockTaskRepository, users *MockUserRepository) {
				users.On("FindByID", mock.Anything, uint(5)).Return(approvedUser, nil)
				tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
					task := args.Get(1).(*model.Task)
					task.ID = 101
				}).Return(nil)
				tasks.On("FindByID", mock.Anything, uint(101)).Return(&model.Task{
					ID: 101, Status: model.StatusPending, CreatedByID: 1, AssignedToID: 5,
				}, nil)
			},
			check: func(t *testing.T, task *model.Task) {
				assert.Equal(t, uint(1), task.CreatedByID)
				assert.Equal(t, uint(5), task.AssignedToID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMocks(mockTasks, mockUsers)

			svc := NewTaskService(mockTasks, mockUsers)
			task, err := svc.CreateTask(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, task)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task)
				if tt.check != nil {
					tt.check(t, task)
				}
			}

			mockTasks.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	actor := &model.User{ID: 5, Role: model.RoleUser, IsApproved: true}

	t.Run("not found", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		mockTasks.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTaskService(mockTasks, mockUsers)
		_, err := svc.UpdateTask(context.Background(), actor, 404, TaskUpdate{})
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		mockTasks.AssertExpectations(t)
	})

	t.Run("unapproved actor is rejected", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)

		svc := NewTaskService(mockTasks, mockUsers)
		pending := &model.User{ID: 9, Role: model.RoleUser, IsApproved: false}
		status := model.StatusCompleted
		_, err := svc.UpdateTask(context.Background(), pending, 1, TaskUpdate{Status: &status})
		assert.ErrorIs(t, err, apperrors.ErrPendingApproval)
	})

	t.Run("unknown status", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		mockTasks.On("FindByID", mock.Anything, uint(1)).Return(&model.Task{ID: 1}, nil)

		svc := NewTaskService(mockTasks, mockUsers)
		status := "Done"
		_, err := svc.UpdateTask(context.Background(), actor, 1, TaskUpdate{Status: &status})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("approved stranger may update any task", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		task := &model.Task{ID: 1, Title: "T1", Status: model.StatusPending, CreatedByID: 7, AssignedToID: 8}
		mockTasks.On("FindByID", mock.Anything, uint(1)).Return(task, nil)
		mockTasks.On("Update", mock.Anything, task).Return(nil)

		svc := NewTaskService(mockTasks, mockUsers)
		status := model.StatusInProgress
		updated, err := svc.UpdateTask(context.Background(), actor, 1, TaskUpdate{Status: &status})
		assert.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, updated.Status)
		mockTasks.AssertExpectations(t)
	})

	t.Run("status round-trip leaves other fields untouched", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		task := &model.Task{
			ID: 1, Title: "T1", Description: "original",
			DueDate:  mustDate(t, "2024-01-01"),
			Priority: model.PriorityLow, Status: model.StatusPending,
			CreatedByID: 5, AssignedToID: 5,
		}
		mockTasks.On("FindByID", mock.Anything, uint(1)).Return(task, nil)
		mockTasks.On("Update", mock.Anything, task).Return(nil)

		svc := NewTaskService(mockTasks, mockUsers)

		completed := model.StatusCompleted
		_, err := svc.UpdateTask(context.Background(), actor, 1, TaskUpdate{Status: &completed})
		assert.NoError(t, err)

		// Completed is not terminal: re-opening is allowed.
		pending := model.StatusPending
		updated, err := svc.UpdateTask(context.Background(), actor, 1, TaskUpdate{Status: &pending})
		assert.NoError(t, err)

		assert.Equal(t, model.StatusPending, updated.Status)
		assert.Equal(t, "T1", updated.Title)
		assert.Equal(t, "original", updated.Description)
		assert.Equal(t, mustDate(t, "2024-01-01"), updated.DueDate)
		assert.Equal(t, model.PriorityLow, updated.Priority)
	})

	t.Run("reassignment checks the new assignee exists", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		task := &model.Task{ID: 1, AssignedToID: 5}
		mockTasks.On("FindByID", mock.Anything, uint(1)).Return(task, nil)
		mockUsers.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTaskService(mockTasks, mockUsers)
		newAssignee := uint(42)
		_, err := svc.UpdateTask(context.Background(), actor, 1, TaskUpdate{AssignedToID: &newAssignee})
		assert.ErrorIs(t, err, apperrors.ErrAssigneeNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	actor := &model.User{ID: 5, Role: model.RoleUser, IsApproved: true}

	t.Run("unapproved actor is rejected", func(t *testing.T) {
		svc := NewTaskService(new(MockTaskRepository), new(MockUserRepository))
		pending := &model.User{ID: 9, Role: model.RoleUser, IsApproved: false}
		err := svc.DeleteTask(context.Background(), pending, 1)
		assert.ErrorIs(t, err, apperrors.ErrPendingApproval)
	})

	t.Run("not found", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		err := svc.DeleteTask(context.Background(), actor, 404)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("approved actor deletes", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("FindByID", mock.Anything, uint(1)).Return(&model.Task{ID: 1, CreatedByID: 7, AssignedToID: 8}, nil)
		mockTasks.On("Delete", mock.Anything, uint(1)).Return(nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		err := svc.DeleteTask(context.Background(), actor, 1)
		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})
}

func TestTaskService_GetTask(t *testing.T) {
	task := &model.Task{ID: 1, CreatedByID: 2, AssignedToID: 3}

	tests := []struct {
		name          string
		actor         *model.User
		expectedError error
	}{
		{name: "admin sees any task", actor: &model.User{ID: 9, Role: model.RoleAdmin}},
		{name: "creator sees it", actor: &model.User{ID: 2, Role: model.RoleUser}},
		{name: "assignee sees it", actor: &model.User{ID: 3, Role: model.RoleUser}},
		{name: "stranger does not", actor: &model.User{ID: 4, Role: model.RoleUser}, expectedError: apperrors.ErrTaskNotVisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			mockTasks.On("FindByID", mock.Anything, uint(1)).Return(task, nil)

			svc := NewTaskService(mockTasks, new(MockUserRepository))
			got, err := svc.GetTask(context.Background(), tt.actor, 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, task, got)
			}
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin, IsApproved: true}
	alice := &model.User{ID: 2, Role: model.RoleUser, IsApproved: true}

	fixture := []model.Task{
		{ID: 10, Title: "Report", Status: model.StatusPending, Priority: model.PriorityHigh,
			CreatedByID: 1, AssignedToID: 2, Creator: admin, Assignee: alice},
		{ID: 11, Title: "Budget", Status: model.StatusPending, Priority: model.PriorityLow,
			CreatedByID: 1, AssignedToID: 3, Creator: admin},
		{ID: 12, Title: "Wiki", Status: model.StatusCompleted, Priority: model.PriorityLow,
			CreatedByID: 3, AssignedToID: 3},
	}

	t.Run("admin default view is the full set", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything).Return(fixture, nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		got, err := svc.ListTasks(context.Background(), admin, "", TaskFilter{})
		assert.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("user default view hides unrelated user tasks", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything).Return(fixture, nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		got, err := svc.ListTasks(context.Background(), alice, "", TaskFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []uint{10, 11}, taskIDs(got))
	})

	t.Run("admin_others view excludes own assignments", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything).Return(fixture, nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		got, err := svc.ListTasks(context.Background(), alice, ViewAdminOthers, TaskFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []uint{11}, taskIDs(got))
	})

	t.Run("filter composes with the partition", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything).Return(fixture, nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		got, err := svc.ListTasks(context.Background(), alice, ViewMine, TaskFilter{Priority: model.PriorityHigh})
		assert.NoError(t, err)
		assert.Equal(t, []uint{10}, taskIDs(got))
	})

	t.Run("unknown view is a validation error", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything).Return(fixture, nil)

		svc := NewTaskService(mockTasks, new(MockUserRepository))
		_, err := svc.ListTasks(context.Background(), alice, "everything", TaskFilter{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
