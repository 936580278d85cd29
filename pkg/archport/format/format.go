// Package format maps archive path suffixes to archive formats and rewrites
// destination paths when the selected format changes.
package format

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// SuffixRule maps a set of literal path suffixes to a format. Canonical is the
// suffix written when the format is selected.
type SuffixRule struct {
	Format    core.ArchiveFormat
	Canonical string
	Suffixes  []string
}

// Rules lists the recognized suffixes. Compound suffixes come first so that
// ".tar.gz" wins over a naive parse of the last '.' segment.
var Rules = []SuffixRule{
	{Format: core.ArchiveFormatTarGzip, Canonical: ".tar.gz", Suffixes: []string{".tar.gz"}},
	{Format: core.ArchiveFormatTarBzip2, Canonical: ".tar.bz2", Suffixes: []string{".tar.bz2"}},
	{Format: core.ArchiveFormatTar, Canonical: ".tar", Suffixes: []string{".tar"}},
	{Format: core.ArchiveFormatZip, Canonical: ".zip", Suffixes: []string{".zip"}},
	{Format: core.ArchiveFormatTarGzip, Canonical: ".tar.gz", Suffixes: []string{".tgz"}},
	{Format: core.ArchiveFormatTarBzip2, Canonical: ".tar.bz2", Suffixes: []string{".tbz", ".tbz2"}},
}

// ImportMask is the file filter offered when choosing an archive to import.
var ImportMask = []string{"*.jar;*.zip;*.tar;*.tar.gz;*.tgz;*.tar.bz2;*.tbz;*.tbz2", "*.*"}

// ExportMask is the file filter offered when choosing an export destination.
var ExportMask = []string{"*.zip;*.tar.gz;*.tar;*.tar.bz2", "*.*"}

// match returns the rule and suffix matching the tail of path.
func match(path string) (SuffixRule, string, bool) {
	for _, rule := range Rules {
		for _, suffix := range rule.Suffixes {
			if strings.HasSuffix(path, suffix) {
				return rule, suffix, true
			}
		}
	}
	return SuffixRule{}, "", false
}

// Classify determines the format from the trailing characters of path.
// Matching is case-sensitive.
func Classify(path string) (core.ArchiveFormat, bool) {
	rule, _, ok := match(path)
	if !ok {
		return -1, false
	}
	return rule.Format, true
}

// ClassifySource is Classify plus the ".jar" suffix, which is only accepted
// for archives being read.
func ClassifySource(path string) (core.ArchiveFormat, bool) {
	if f, ok := Classify(path); ok {
		return f, true
	}
	if strings.HasSuffix(path, ".jar") {
		return core.ArchiveFormatZip, true
	}
	return -1, false
}

// CanonicalSuffix returns the suffix written for format.
func CanonicalSuffix(format core.ArchiveFormat) string {
	switch format {
	case core.ArchiveFormatZip:
		return ".zip"
	case core.ArchiveFormatTarGzip:
		return ".tar.gz"
	case core.ArchiveFormatTarBzip2:
		return ".tar.bz2"
	default:
		return ".tar"
	}
}

// SuffixIndex returns the index at which the recognized suffix of path
// starts, or -1.
func SuffixIndex(path string) int {
	_, suffix, ok := match(path)
	if !ok {
		return -1
	}
	return len(path) - len(suffix)
}

// WithResolvedSuffix rewrites the suffix of a destination path.
//
// A path that is empty or ends with a separator is returned unchanged. A path
// without any '.' gets the canonical suffix of active appended. Otherwise the
// recognized suffix is replaced, or the ideal suffix appended when there is
// none. When switched is false an already recognized suffix keeps its own
// format; when switched is true the path is always re-stamped with active.
func WithResolvedSuffix(path string, active core.ArchiveFormat, switched bool) string {
	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return path
	}

	ideal := CanonicalSuffix(active)
	if !strings.Contains(path, ".") {
		return path + ideal
	}

	if !switched {
		if existing, ok := Classify(path); ok {
			ideal = CanonicalSuffix(existing)
		}
	}

	if idx := SuffixIndex(path); idx != -1 {
		return path[:idx] + ideal
	}
	return path + ideal
}

// SyncFromDestination returns the format a destination path selects by its
// suffix, so that typing "backup.tgz" switches the active format to gzip.
func SyncFromDestination(path string) (core.ArchiveFormat, bool) {
	return Classify(path)
}
