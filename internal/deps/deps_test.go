package deps_test

import (
	"testing"

	"vidmux/internal/deps"
)

func TestCheckBinariesFindsShell(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Shell", Command: "sh", Description: "always present on POSIX"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected sh to be available: %+v", statuses[0])
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Nope", Command: "definitely-not-a-binary-xyz"},
		{Name: "Empty", Command: "  "},
	})
	for _, status := range statuses {
		if status.Available {
			t.Fatalf("expected %s to be unavailable", status.Name)
		}
		if status.Detail == "" {
			t.Fatalf("expected detail for %s", status.Name)
		}
	}
}

func TestAllRequiredAvailableIgnoresOptional(t *testing.T) {
	statuses := []deps.Status{
		{Name: "a", Available: true},
		{Name: "b", Optional: true, Available: false},
	}
	if !deps.AllRequiredAvailable(statuses) {
		t.Fatal("optional misses should not fail the check")
	}
	statuses[0].Available = false
	if deps.AllRequiredAvailable(statuses) {
		t.Fatal("required miss should fail the check")
	}
}
