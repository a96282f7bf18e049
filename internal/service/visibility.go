package service

import (
	"strings"

	"taskboard/internal/model"
)

// Task views a dashboard can request.
const (
	ViewMine        = "mine"
	ViewAdminOthers = "admin_others"
)

// TaskFilter is the secondary client filter: free text over title/description
// plus exact matches on priority and status. Empty fields match everything.
type TaskFilter struct {
	Query    string
	Priority string
	Status   string
}

// Mine returns the tasks assigned to or created by the actor.
func Mine(actor *model.User, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedToID == actor.ID || t.CreatedByID == actor.ID {
			out = append(out, t)
		}
	}
	return out
}

// AdminForOthers returns tasks an admin created for someone other than the
// actor. A task assigned to the actor never shows up here, so the view stays
// disjoint from the actor's own work.
func AdminForOthers(actor *model.User, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Creator != nil && t.Creator.IsAdmin() && t.AssignedToID != actor.ID {
			out = append(out, t)
		}
	}
	return out
}

// VisibleTo returns the default dashboard set for the actor: admins see every
// task, users see the union of their own tasks and admin-created ones.
func VisibleTo(actor *model.User, tasks []model.Task) []model.Task {
	if actor.IsAdmin() {
		return tasks
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedToID == actor.ID || t.CreatedByID == actor.ID ||
			(t.Creator != nil && t.Creator.IsAdmin()) {
			out = append(out, t)
		}
	}
	return out
}

// Apply narrows tasks to those matching the filter. It composes with the view
// partitions by AND and never widens visibility.
func (f TaskFilter) Apply(tasks []model.Task) []model.Task {
	if f.Query == "" && f.Priority == "" && f.Status == "" {
		return tasks
	}
	query := strings.ToLower(f.Query)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}
