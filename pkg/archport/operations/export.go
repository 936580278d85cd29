package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/filesystem"
	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// ExportOperation writes the selected entries of a source into a new
// archive at the request destination.
type ExportOperation struct {
	Format core.ArchiveFormat
	// Compress selects deflate over store for zip output. Tar output is
	// compressed according to Format.
	Compress bool
	// Output creates and removes the archive file. When nil the host file
	// system is used.
	Output filesystem.HostFS
	Logger core.Logger
}

// NewExportOperation creates an export writing format to the host file
// system.
func NewExportOperation(format core.ArchiveFormat, compress bool, logger core.Logger) *ExportOperation {
	return &ExportOperation{Format: format, Compress: compress, Logger: logger}
}

func (op *ExportOperation) Name() string { return "export" }

func (op *ExportOperation) logger() core.Logger {
	if op.Logger == nil {
		return core.NopLogger()
	}
	return op.Logger
}

// Run writes the archive. A cancelled or failed run removes the partial
// archive.
func (op *ExportOperation) Run(ctx context.Context, req Request) Result {
	log := op.logger()

	cp, err := contentProvider(req.Provider)
	if err != nil {
		return failed(err, nil, nil)
	}
	output := op.Output
	if output == nil {
		output = filesystem.NewHostFileSystem()
	}

	files, err := Expand(cp, req.Selected)
	if err != nil {
		return failed(err, nil, nil)
	}
	plan, skipped, err := planEntries(files, req.CreateLeadup)
	if err != nil {
		return failed(err, nil, nil)
	}

	log.Info().
		Str("destination", req.Destination).
		Stringer("format", op.Format).
		Bool("compress", op.Compress).
		Int("entries", len(plan)).
		Msg("export started")

	out, err := output.Create(req.Destination)
	if err != nil {
		return failed(fmt.Errorf("failed to create archive: %w", err), nil, skipped)
	}
	aw, err := newArchiveWriter(out, op.Format, op.Compress)
	if err != nil {
		_ = out.Close()
		op.discard(output, req.Destination)
		return failed(err, nil, skipped)
	}

	abort := func() {
		_ = aw.Close()
		_ = out.Close()
		op.discard(output, req.Destination)
	}

	now := time.Now()
	var written []string
	for _, p := range plan {
		if ctx.Err() != nil {
			abort()
			log.Info().Int("written", len(written)).Msg("export cancelled")
			return cancelled(nil, skipped)
		}

		if p.Dir {
			if err := aw.WriteDir(p.Name, now); err != nil {
				abort()
				return failed(fmt.Errorf("failed to add directory %s: %w", p.Name, err), nil, skipped)
			}
			continue
		}

		if err := op.writeEntry(cp, aw, p); err != nil {
			abort()
			log.Error().Str("entry", p.Entry.Name).Err(err).Msg("export failed")
			return failed(err, nil, skipped)
		}
		written = append(written, p.Name)
	}

	if err := aw.Close(); err != nil {
		_ = out.Close()
		op.discard(output, req.Destination)
		return failed(fmt.Errorf("failed to finish archive: %w", err), nil, skipped)
	}
	if err := out.Close(); err != nil {
		op.discard(output, req.Destination)
		return failed(fmt.Errorf("failed to close archive: %w", err), nil, skipped)
	}

	log.Info().
		Int("written", len(written)).
		Int("skipped", len(skipped)).
		Msg("export finished")
	return Result{Status: core.StatusSuccess, Written: written, Skipped: skipped}
}

func (op *ExportOperation) writeEntry(cp provider.ContentProvider, aw archiveWriter, p plannedEntry) error {
	src, err := cp.Open(p.Entry)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p.Entry.Name, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			op.logger().Warn().Str("entry", p.Entry.Name).Err(err).Msg("failed to close entry reader")
		}
	}()

	mode := p.Entry.Mode.Perm()
	if mode == 0 {
		mode = core.DefaultFileMode
	}
	modTime := p.Entry.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}
	if err := aw.WriteFile(p.Name, mode, modTime, p.Entry.Size, src); err != nil {
		return fmt.Errorf("failed to add %s: %w", p.Name, err)
	}
	op.logger().Trace().Str("entry", p.Name).Int64("bytes", p.Entry.Size).Msg("entry added")
	return nil
}

func (op *ExportOperation) discard(output filesystem.HostFS, path string) {
	if err := output.Remove(path); err != nil {
		op.logger().Warn().Str("path", path).Err(err).Msg("failed to remove partial archive")
	}
}
