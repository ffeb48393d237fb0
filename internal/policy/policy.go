// Package policy decides which task mutations an actor may perform.
// It is a pure decision layer: callers collect the set of fields a
// patch actually touches, ask the policy, and only then apply the
// mutation. The derived hoursSpent value is not a field at all from
// the policy's point of view; callers drop it before asking.
package policy

import (
	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldAssignedTo      = "assignedToId"
	FieldDepartment      = "departmentId"
	FieldStartDate       = "startDate"
	FieldWorkDescription = "workDescription"
)

// editableFields maps each role to the task fields it may change.
// ADMIN is handled as a full bypass in CanEdit and has no row here.
var editableFields = map[string]map[string]bool{
	models.RoleEmployee: {
		FieldStatus:          true,
		FieldStartDate:       true,
		FieldWorkDescription: true,
	},
}

// CanEdit reports whether the actor may change the given fields on a
// task currently assigned to assignedToID. Fields are checked in the
// order given, so callers passing them in declaration order get a
// deterministic first-offender in the error message.
func CanEdit(role, actorID, assignedToID string, fields []string) error {
	if role == models.RoleAdmin {
		return nil
	}

	if actorID != assignedToID {
		return apperr.Forbidden("not permitted to edit this task")
	}

	allowed := editableFields[role]
	for _, field := range fields {
		if !allowed[field] {
			return apperr.Forbidden("field %q not editable by %s", field, role)
		}
	}
	return nil
}

// CanCreate reports whether the actor's role may create tasks.
func CanCreate(role string) error {
	if role != models.RoleAdmin {
		return apperr.Forbidden("admin only")
	}
	return nil
}

// CanDelete reports whether the actor's role may delete tasks.
func CanDelete(role string) error {
	if role != models.RoleAdmin {
		return apperr.Forbidden("admin only")
	}
	return nil
}
