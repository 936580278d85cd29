package operations

import (
	"testing"

	"github.com/arthur-debert/archport/pkg/archport/provider"
)

func TestPlanEntriesLeadup(t *testing.T) {
	files := []*provider.Entry{
		{Name: "a/b/c/deep.txt"},
		{Name: "a/b/other.txt"},
		{Name: "root.txt"},
		{Name: "z/last.txt"},
	}

	plan, skipped, err := planEntries(files, true)
	if err != nil {
		t.Fatalf("planEntries failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("Expected nothing skipped, got %v", skipped)
	}

	position := make(map[string]int)
	for i, p := range plan {
		if _, dup := position[p.Name]; dup {
			t.Errorf("Duplicate record %q", p.Name)
		}
		position[p.Name] = i
	}

	expectedDirs := []string{"a", "a/b", "a/b/c", "z"}
	for _, dir := range expectedDirs {
		i, ok := position[dir]
		if !ok {
			t.Fatalf("Missing directory record %q", dir)
		}
		if !plan[i].Dir {
			t.Errorf("Expected %q to be a directory record", dir)
		}
	}

	before := [][2]string{
		{"a", "a/b"},
		{"a/b", "a/b/c"},
		{"a/b/c", "a/b/c/deep.txt"},
		{"a/b", "a/b/other.txt"},
		{"z", "z/last.txt"},
	}
	for _, pair := range before {
		if position[pair[0]] >= position[pair[1]] {
			t.Errorf("Expected %q before %q", pair[0], pair[1])
		}
	}

	if _, ok := position["root.txt"]; !ok {
		t.Errorf("Expected top-level file to be planned")
	}
	if len(plan) != 8 {
		t.Errorf("Expected 8 records, got %d", len(plan))
	}
}

func TestPlanEntriesFlat(t *testing.T) {
	files := []*provider.Entry{
		{Name: "x/readme"},
		{Name: "y/readme"},
		{Name: "y/notes"},
	}

	plan, skipped, err := planEntries(files, false)
	if err != nil {
		t.Fatalf("planEntries failed: %v", err)
	}
	if len(plan) != 2 || plan[0].Name != "readme" || plan[1].Name != "notes" {
		t.Errorf("Unexpected plan %+v", plan)
	}
	if len(skipped) != 1 || skipped[0] != "y/readme" {
		t.Errorf("Expected y/readme to be skipped, got %v", skipped)
	}
}
