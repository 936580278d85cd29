package operations

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/filesystem"
	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// ImportOperation extracts the selected entries of an archive into a
// directory.
type ImportOperation struct {
	// Target receives the files. When nil, an OS file system rooted at the
	// request destination is used.
	Target filesystem.FullFileSystem
	Logger core.Logger
}

// NewImportOperation creates an import into the request destination.
func NewImportOperation(logger core.Logger) *ImportOperation {
	return &ImportOperation{Logger: logger}
}

func (op *ImportOperation) Name() string { return "import" }

func (op *ImportOperation) logger() core.Logger {
	if op.Logger == nil {
		return core.NopLogger()
	}
	return op.Logger
}

// Run extracts every selected file. Existing files are left alone unless
// req.Overwrite is set, and entry names that would escape the target are
// skipped.
func (op *ImportOperation) Run(ctx context.Context, req Request) Result {
	log := op.logger()

	cp, err := contentProvider(req.Provider)
	if err != nil {
		return failed(err, nil, nil)
	}
	target := op.Target
	if target == nil {
		target = filesystem.NewOSFileSystem(req.Destination)
	}

	leaves, err := Expand(cp, req.Selected)
	if err != nil {
		return failed(err, nil, nil)
	}

	log.Info().
		Str("destination", req.Destination).
		Int("entries", len(leaves)).
		Bool("overwrite", req.Overwrite).
		Bool("create_leadup", req.CreateLeadup).
		Msg("import started")

	if err := target.MkdirAll(".", core.DefaultDirMode); err != nil {
		return failed(fmt.Errorf("failed to create destination: %w", err), nil, nil)
	}

	var written, skipped []string
	for _, entry := range leaves {
		if err := ctx.Err(); err != nil {
			log.Info().Int("written", len(written)).Msg("import cancelled")
			return cancelled(written, skipped)
		}

		name := entry.Name
		if !req.CreateLeadup {
			name = entry.Base()
		}
		if !fs.ValidPath(name) || name == "." {
			log.Warn().Str("entry", entry.Name).Msg("skipping entry with unsafe path")
			skipped = append(skipped, entry.Name)
			continue
		}

		if info, err := target.Stat(name); err == nil {
			if info.IsDir() || !req.Overwrite {
				log.Debug().Str("path", name).Bool("is_dir", info.IsDir()).Msg("skipping existing target")
				skipped = append(skipped, name)
				continue
			}
		}

		if err := op.extract(cp, target, entry, name); err != nil {
			log.Error().Str("entry", entry.Name).Err(err).Msg("import failed")
			return failed(err, written, skipped)
		}
		written = append(written, name)
	}

	log.Info().
		Int("written", len(written)).
		Int("skipped", len(skipped)).
		Msg("import finished")
	return Result{Status: core.StatusSuccess, Written: written, Skipped: skipped}
}

func (op *ImportOperation) extract(cp provider.ContentProvider, target filesystem.FullFileSystem, entry *provider.Entry, name string) error {
	if dir := path.Dir(name); dir != "." {
		if err := target.MkdirAll(dir, core.DefaultDirMode); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	src, err := cp.Open(entry)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", entry.Name, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			op.logger().Warn().Str("entry", entry.Name).Err(err).Msg("failed to close entry reader")
		}
	}()

	dst, err := target.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", name, err)
	}
	return nil
}
