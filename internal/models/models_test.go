package models

import (
	"reflect"
	"testing"
)

func TestNormalizeLabels(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"dedupes case variants", []string{"Bug", "bug", "BUG"}, []string{"bug"}},
		{"trims and drops empties", []string{" auth ", "", "  "}, []string{"auth"}},
		{"sorts the result", []string{"zeta", "alpha", "zeta"}, []string{"alpha", "zeta"}},
		{"nil input", nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeLabels(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("NormalizeLabels(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestHasLabel(t *testing.T) {
	task := Task{Labels: []string{"bug", "tested"}}
	if !task.HasLabel("tested") {
		t.Fatal("expected tested label to be present")
	}
	if task.HasLabel("frontend") {
		t.Fatal("did not expect frontend label")
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Project_Manager ")
	if err != nil {
		t.Fatalf("parse role: %v", err)
	}
	if role != RoleProjectManager {
		t.Fatalf("expected project_manager, got %q", role)
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, raw := range []string{"todo", "progress", "review", "done"} {
		if _, err := ParseTaskStatus(raw); err != nil {
			t.Fatalf("parse status %q: %v", raw, err)
		}
	}
	if _, err := ParseTaskStatus("doing"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseTaskPriority(t *testing.T) {
	if _, err := ParseTaskPriority("urgent"); err != nil {
		t.Fatalf("urgent is a valid task priority: %v", err)
	}
	// Projects have no urgent tier.
	if _, err := ParseProjectPriority("urgent"); err == nil {
		t.Fatal("expected error: projects have no urgent priority")
	}
}
