package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/jvaldemoro/timetrack/internal/policy"
)

func TestTouchedFieldsOrder(t *testing.T) {
	title := "x"
	status := "DONE"
	start := time.Now()
	patch := TaskPatch{
		Title:     &title,
		Status:    &status,
		StartDate: &start,
	}

	got := touchedFields(patch)
	want := []string{policy.FieldTitle, policy.FieldStatus, policy.FieldStartDate}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("touchedFields = %v, want %v", got, want)
	}
}

func TestTouchedFieldsEmptyPatch(t *testing.T) {
	if got := touchedFields(TaskPatch{}); len(got) != 0 {
		t.Errorf("empty patch touched %v", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"PENDING", "IN_PROGRESS", "DONE"} {
		if !validStatus(status) {
			t.Errorf("validStatus(%q) = false", status)
		}
	}
	for _, status := range []string{"", "done", "ARCHIVED"} {
		if validStatus(status) {
			t.Errorf("validStatus(%q) = true", status)
		}
	}
}
