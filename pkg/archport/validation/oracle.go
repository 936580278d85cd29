package validation

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ConflictOracle knows which locations are reserved or managed by the
// surrounding workspace.
type ConflictOracle interface {
	// FindReservedConflict returns the name of the reserved location that
	// path collides with.
	FindReservedConflict(path string) (string, bool)
	// FindOverlappingManagedContainer returns the name of a managed
	// container that path lies inside of.
	FindOverlappingManagedContainer(path string) (string, bool)
}

// Project is a managed container with a location on disk.
type Project struct {
	Name     string
	Location string
}

// WorkspaceOracle implements ConflictOracle for a workspace directory and
// the projects it manages.
//
// The workspace root itself is reserved, and so is any top-level entry of
// the root whose name does not start with a letter or digit (metadata
// directories such as ".metadata"). Any path inside a project location
// overlaps that project.
type WorkspaceOracle struct {
	Root     string
	Projects []Project
}

func normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// relativeTo returns p relative to base when p is base or lies below it.
func relativeTo(base, p string) (string, bool) {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func (o *WorkspaceOracle) FindReservedConflict(path string) (string, bool) {
	if o == nil || o.Root == "" || path == "" {
		return "", false
	}
	root := normalize(o.Root)
	rel, ok := relativeTo(root, normalize(path))
	if !ok {
		return "", false
	}
	if rel == "." {
		return filepath.Base(root), true
	}

	first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	r, _ := utf8.DecodeRuneInString(first)
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return first, true
	}
	return "", false
}

func (o *WorkspaceOracle) FindOverlappingManagedContainer(path string) (string, bool) {
	if o == nil || path == "" {
		return "", false
	}
	target := normalize(path)
	for _, project := range o.Projects {
		if project.Location == "" {
			continue
		}
		if _, ok := relativeTo(normalize(project.Location), target); ok {
			return project.Name, true
		}
	}
	return "", false
}
