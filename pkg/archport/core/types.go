package core

import (
	"fmt"
	"strings"
)

// ArchiveFormat defines the container format of an archive, including its
// outer compression layer.
type ArchiveFormat int

const (
	// ArchiveFormatZip represents a .zip archive.
	ArchiveFormatZip ArchiveFormat = iota
	// ArchiveFormatTar represents an uncompressed .tar archive.
	ArchiveFormatTar
	// ArchiveFormatTarGzip represents a gzip-compressed tar archive.
	ArchiveFormatTarGzip
	// ArchiveFormatTarBzip2 represents a bzip2-compressed tar archive.
	ArchiveFormatTarBzip2
)

// String returns the string representation of the archive format.
func (af ArchiveFormat) String() string {
	switch af {
	case ArchiveFormatZip:
		return "zip"
	case ArchiveFormatTar:
		return "tar"
	case ArchiveFormatTarGzip:
		return "tar.gz"
	case ArchiveFormatTarBzip2:
		return "tar.bz2"
	default:
		return "unknown"
	}
}

// IsTar reports whether the format belongs to the tar family.
func (af ArchiveFormat) IsTar() bool {
	return af == ArchiveFormatTar || af == ArchiveFormatTarGzip || af == ArchiveFormatTarBzip2
}

// ParseArchiveFormat parses the names accepted on the command line and in
// configuration files.
func ParseArchiveFormat(s string) (ArchiveFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "zip", "jar":
		return ArchiveFormatZip, nil
	case "tar":
		return ArchiveFormatTar, nil
	case "tar.gz", "tgz", "gzip", "gz":
		return ArchiveFormatTarGzip, nil
	case "tar.bz2", "tbz", "tbz2", "bzip2", "bz2":
		return ArchiveFormatTarBzip2, nil
	default:
		return -1, fmt.Errorf("unknown archive format %q", s)
	}
}

// OperationStatus indicates the terminal status of an import or export run.
type OperationStatus string

const (
	// StatusSuccess indicates the operation completed successfully
	StatusSuccess OperationStatus = "SUCCESS"
	// StatusFailure indicates the operation reported a failure
	StatusFailure OperationStatus = "FAILURE"
	// StatusCancelled indicates the operation stopped because its context was cancelled
	StatusCancelled OperationStatus = "CANCELLED"
)

// Default values for written files and directories
const (
	// DefaultFileMode is the default mode for files (0644)
	DefaultFileMode = 0644
	// DefaultDirMode is the default mode for directories (0755)
	DefaultDirMode = 0755
)
