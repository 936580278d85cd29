package format

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mholt/archives"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// Probe identifies the archive format of a stream from its leading bytes.
// It is the fallback for paths whose suffix is missing or not recognized.
func Probe(ctx context.Context, r io.Reader) (core.ArchiveFormat, error) {
	identified, _, err := archives.Identify(ctx, "", r)
	if err != nil {
		if errors.Is(err, archives.NoMatch) {
			return -1, core.ErrFormatUnrecognized
		}
		return -1, fmt.Errorf("failed to probe archive content: %w", err)
	}

	// Extension reports the combined layers, e.g. ".tar.gz" for a gzip
	// compressed tar stream and ".gz" for bare gzip data.
	if f, ok := Classify(identified.Extension()); ok {
		return f, nil
	}
	return -1, fmt.Errorf("%w: content looks like %s", core.ErrFormatUnrecognized, identified.Extension())
}

// Resolve determines the format of the archive at path, trying the suffix
// first and then the file content.
func Resolve(ctx context.Context, path string) (core.ArchiveFormat, error) {
	if f, ok := ClassifySource(path); ok {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return -1, fmt.Errorf("failed to open %s for probing: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Probe(ctx, file)
}
