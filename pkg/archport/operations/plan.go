package operations

import (
	"fmt"
	"path"

	"github.com/gammazero/toposort"

	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// plannedEntry is one record of an archive being written.
type plannedEntry struct {
	Name  string
	Dir   bool
	Entry *provider.Entry
}

// planEntries orders the records of an export. With leadup every ancestor
// directory of a file gets its own record and parents are written before
// their children. Without leadup files are stored by base name and a later
// file with an already used name is reported as skipped.
func planEntries(files []*provider.Entry, leadup bool) ([]plannedEntry, []string, error) {
	if !leadup {
		var plan []plannedEntry
		var skipped []string
		used := make(map[string]bool)
		for _, f := range files {
			name := f.Base()
			if used[name] {
				skipped = append(skipped, f.Name)
				continue
			}
			used[name] = true
			plan = append(plan, plannedEntry{Name: name, Entry: f})
		}
		return plan, skipped, nil
	}

	byName := make(map[string]plannedEntry)
	var order []string
	record := func(p plannedEntry) {
		if _, ok := byName[p.Name]; !ok {
			order = append(order, p.Name)
		}
		byName[p.Name] = p
	}

	// Edge is [2]interface{} where element 0 comes before element 1
	edges := make([]toposort.Edge, 0)
	linked := make(map[[2]string]bool)
	for _, f := range files {
		record(plannedEntry{Name: f.Name, Entry: f})
		child := f.Name
		for dir := path.Dir(child); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if _, ok := byName[dir]; !ok {
				record(plannedEntry{Name: dir, Dir: true})
			}
			if !linked[[2]string{dir, child}] {
				linked[[2]string{dir, child}] = true
				edges = append(edges, toposort.Edge{dir, child})
			}
			child = dir
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to order archive entries: %w", err)
	}

	plan := make([]plannedEntry, 0, len(byName))
	added := make(map[string]bool)
	for _, item := range sorted {
		name, ok := item.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected type in topological sort result: %T", item)
		}
		if !added[name] {
			added[name] = true
			plan = append(plan, byName[name])
		}
	}
	// Top-level files take part in no edge.
	for _, name := range order {
		if !added[name] {
			added[name] = true
			plan = append(plan, byName[name])
		}
	}
	return plan, nil, nil
}
