package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

func TestAdminEditsEverything(t *testing.T) {
	fields := []string{
		FieldTitle, FieldDescription, FieldStatus,
		FieldAssignedTo, FieldDepartment, FieldStartDate, FieldWorkDescription,
	}
	err := CanEdit(models.RoleAdmin, "admin-1", "employee-1", fields)
	if err != nil {
		t.Errorf("admin edit rejected: %v", err)
	}
}

func TestEmployeeEditableFieldsOnOwnTask(t *testing.T) {
	for _, field := range []string{FieldStatus, FieldStartDate, FieldWorkDescription} {
		err := CanEdit(models.RoleEmployee, "emp-1", "emp-1", []string{field})
		if err != nil {
			t.Errorf("employee edit of %s on own task rejected: %v", field, err)
		}
	}
}

func TestEmployeeForbiddenFields(t *testing.T) {
	// Never editable by an employee, even on their own task.
	for _, field := range []string{FieldTitle, FieldDescription, FieldAssignedTo, FieldDepartment} {
		err := CanEdit(models.RoleEmployee, "emp-1", "emp-1", []string{field})
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("employee edit of %s: got %v, want forbidden", field, err)
		}
		if err != nil && !strings.Contains(err.Error(), field) {
			t.Errorf("error %q should name the offending field %q", err.Error(), field)
		}
	}
}

func TestEmployeeCannotEditOthersTasks(t *testing.T) {
	err := CanEdit(models.RoleEmployee, "emp-1", "emp-2", []string{FieldStatus})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("got %v, want forbidden", err)
	}
}

func TestFirstOffendingFieldReported(t *testing.T) {
	err := CanEdit(models.RoleEmployee, "emp-1", "emp-1",
		[]string{FieldStatus, FieldTitle, FieldDescription})
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), FieldTitle) {
		t.Errorf("error %q should name the first disallowed field %q", err.Error(), FieldTitle)
	}
}

func TestStatusValuesUnrestricted(t *testing.T) {
	// The policy gates the field, not the value: backward status
	// transitions remain allowed for anyone who may edit status.
	if err := CanEdit(models.RoleEmployee, "emp-1", "emp-1", []string{FieldStatus}); err != nil {
		t.Errorf("status edit rejected: %v", err)
	}
}

func TestCreateAndDeleteAdminOnly(t *testing.T) {
	if err := CanCreate(models.RoleAdmin); err != nil {
		t.Errorf("admin create rejected: %v", err)
	}
	if err := CanDelete(models.RoleAdmin); err != nil {
		t.Errorf("admin delete rejected: %v", err)
	}
	if err := CanCreate(models.RoleEmployee); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("employee create: got %v, want forbidden", err)
	}
	if err := CanDelete(models.RoleEmployee); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("employee delete: got %v, want forbidden", err)
	}
}
