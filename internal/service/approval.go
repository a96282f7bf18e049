package service

import "taskboard/internal/model"

// AnyApprovedActorMayMutateAnyTask controls whether task updates and deletes
// are restricted to the task's admin/assignee. The current product behavior is
// permissive: any approved actor may mutate any task.
const AnyApprovedActorMayMutateAnyTask = true

// CanAct reports whether the user may perform mutating task or user
// operations. Admins are always authorized regardless of their own approval
// flag; everyone else must be approved first. Callers must pass a freshly
// loaded user record, never one cached from a previous request.
func CanAct(user *model.User) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin() || user.IsApproved
}

// canTouchTask reports whether the actor may mutate this specific task under
// the current ownership policy.
func canTouchTask(actor *model.User, task *model.Task) bool {
	if AnyApprovedActorMayMutateAnyTask {
		return true
	}
	return actor.IsAdmin() || task.AssignedToID == actor.ID || task.CreatedByID == actor.ID
}
