package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler handles task endpoints, including the cascading user delete
// that lives under the tasks prefix.
type TaskHandler struct {
	taskService service.TaskService
	userService service.UserService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService, userService service.UserService) *TaskHandler {
	return &TaskHandler{taskService: taskService, userService: userService}
}

// CreateTaskRequest represents a task creation request. A supplied status is
// accepted but ignored: new tasks always start Pending.
type CreateTaskRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	DueDate      string `json:"due_date" validate:"required"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	AssignedToID uint   `json:"assigned_to_id"`
}

// UpdateTaskRequest represents a partial task update; absent fields keep
// their current value.
type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"due_date"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

// CreateTask godoc
// @Summary Create a task
// @Description Requires an approved user or an admin. Admins may assign anyone; users default to themselves.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.TaskJSON
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	dueDate, err := model.ParseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, service.TaskCreate{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dueDate,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, task.ToJSON())
}

// ListTasks godoc
// @Summary List tasks visible to the actor
// @Description Admins see every task. Users see their own tasks plus admin-created ones, or a single partition via view=mine|admin_others. q, priority and status narrow the result.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param view query string false "Partition: mine or admin_others"
// @Param q query string false "Free text over title and description"
// @Param priority query string false "Exact priority match"
// @Param status query string false "Exact status match"
// @Success 200 {array} model.TaskJSON
// @Failure 400 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	filter := service.TaskFilter{
		Query:    c.QueryParam("q"),
		Priority: c.QueryParam("priority"),
		Status:   c.QueryParam("status"),
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), actor, c.QueryParam("view"), filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	out := make([]model.TaskJSON, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].ToJSON())
	}
	return c.JSON(http.StatusOK, out)
}

// GetTask godoc
// @Summary Get a task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} model.TaskJSON
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, uint(taskID))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, task.ToJSON())
}

// UpdateTask godoc
// @Summary Update a task
// @Description Merges the provided fields into the task. Requires an approved user or an admin.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} model.TaskJSON
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var req UpdateTaskRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	update := service.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
	}
	if req.DueDate != nil {
		dueDate, err := model.ParseDate(*req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		update.DueDate = &dueDate
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, uint(taskID), update)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, task.ToJSON())
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, uint(taskID)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "task deleted successfully",
	})
}

// DeleteUser godoc
// @Summary Delete a user and their tasks
// @Description Admin only. Removes the user together with every task they created or were assigned, in one transaction.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/users/{id} [delete]
func (h *TaskHandler) DeleteUser(c echo.Context) error {
	actor, err := Actor(c)
	if err != nil {
		return err
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.userService.Delete(c.Request().Context(), actor, uint(userID)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "user and associated tasks deleted successfully",
	})
}
