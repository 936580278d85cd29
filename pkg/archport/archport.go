// Package archport imports and exports zip and tar archives.
//
// A transfer runs through a session: the source is opened lazily, the
// selection and destination are validated, and the operation is committed.
// The functions here drive a whole session in one call.
//
// Example - Import two entries of an archive:
//
//	report, err := archport.Import(ctx, archport.ImportOptions{
//		Source:       "release.tar.gz",
//		Destination:  "out",
//		Entries:      []string{"docs", "main.go"},
//		CreateLeadup: true,
//	})
//
// Example - Export a directory as a bzip2 tarball:
//
//	report, err := archport.Export(ctx, archport.ExportOptions{
//		Source:      "project",
//		Destination: "backup",
//		Format:      core.ArchiveFormatTarBzip2,
//		Confirm:     validation.AlwaysConfirm,
//	})
//	// report.Destination is "backup.tar.bz2"
package archport

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/filesystem"
	"github.com/arthur-debert/archport/pkg/archport/operations"
	"github.com/arthur-debert/archport/pkg/archport/provider"
	"github.com/arthur-debert/archport/pkg/archport/session"
	"github.com/arthur-debert/archport/pkg/archport/tree"
	"github.com/arthur-debert/archport/pkg/archport/validation"
)

// ImportOptions describes an archive import.
type ImportOptions struct {
	Source      string
	Destination string
	// Entries are slash separated paths inside the archive. Empty selects
	// everything.
	Entries      []string
	Overwrite    bool
	CreateLeadup bool
}

// ExportOptions describes a directory export.
type ExportOptions struct {
	Source      string
	Destination string
	// Paths are slash separated paths below Source. Empty selects everything.
	Paths  []string
	Format core.ArchiveFormat
	// SwitchFormat re-stamps Destination with the suffix of Format. When
	// false a recognized suffix on Destination picks the format instead.
	SwitchFormat bool
	Compress     bool
	CreateLeadup bool
	Oracle       validation.ConflictOracle
	Confirm      validation.Confirmer
	Host         filesystem.HostFS
}

// Report summarizes a committed transfer.
type Report struct {
	Destination string
	Format      core.ArchiveFormat
	// Outcome is the merged validation result; it carries any advisory.
	Outcome core.Outcome
	Result  operations.Result
}

// Import extracts entries of an archive into a directory.
func Import(ctx context.Context, opts ImportOptions) (*Report, error) {
	log := componentLogger("import")
	c := session.New(session.WithLogger(log))
	c.SetSource(opts.Source)

	if o := c.CheckSource(ctx); o.IsBlocked() {
		return nil, &core.BlockedError{Path: opts.Source, Outcome: o}
	}
	if err := c.Open(ctx); err != nil {
		return nil, err
	}

	selected, err := selectEntries(c, opts.Entries)
	if err != nil {
		c.Fail(err)
		return nil, err
	}

	dest := core.OK()
	if strings.TrimSpace(opts.Destination) == "" {
		dest = core.Blocked(validation.MsgDestinationEmpty)
	}
	outcome := c.Validate(selected, dest)
	if outcome.IsBlocked() {
		c.Cancel()
		return nil, &core.BlockedError{Path: opts.Destination, Outcome: outcome}
	}

	result, err := c.Commit(ctx, operations.NewImportOperation(log), operations.Request{
		Destination:  opts.Destination,
		Selected:     selected,
		Overwrite:    opts.Overwrite,
		CreateLeadup: opts.CreateLeadup,
	})
	if err != nil {
		return nil, err
	}
	return &Report{Destination: opts.Destination, Outcome: outcome, Result: result}, nil
}

// Export writes a directory, or part of it, into a new archive.
func Export(ctx context.Context, opts ExportOptions) (*Report, error) {
	log := componentLogger("export")
	host := opts.Host
	if host == nil {
		host = filesystem.NewHostFileSystem()
	}

	c := session.New(
		session.WithLogger(log),
		session.WithOpener(provider.OpenDir),
		session.WithFormat(opts.Format),
	)
	v := validation.New(
		validation.WithOracle(opts.Oracle),
		validation.WithHost(host),
		validation.WithLogger(log),
	)

	var dest string
	if opts.SwitchFormat {
		dest = c.SwitchFormat(opts.Format, opts.Destination)
	} else {
		dest = c.ResolveDestination(opts.Destination)
	}

	destOutcome := v.ValidateDestination(dest)
	if destOutcome.IsBlocked() {
		return nil, &core.BlockedError{Path: dest, Outcome: destOutcome}
	}

	c.SetSource(opts.Source)
	if err := c.Open(ctx); err != nil {
		return nil, err
	}

	selected, err := selectEntries(c, opts.Paths)
	if err != nil {
		c.Fail(err)
		return nil, err
	}

	outcome := c.Validate(selected, destOutcome)
	if outcome.IsBlocked() {
		c.Cancel()
		return nil, &core.BlockedError{Path: dest, Outcome: outcome}
	}

	target := v.EnsureTargetIsValid(dest, opts.Confirm)
	if target.IsBlocked() {
		c.Cancel()
		return nil, &core.BlockedError{Path: dest, Outcome: target}
	}
	outcome = core.Merge(outcome, target)

	op := &operations.ExportOperation{
		Format:   c.Format(),
		Compress: opts.Compress,
		Output:   host,
		Logger:   log,
	}
	result, err := c.Commit(ctx, op, operations.Request{
		Destination:  dest,
		Selected:     selected,
		Overwrite:    true,
		CreateLeadup: opts.CreateLeadup,
	})
	if err != nil {
		return nil, err
	}
	return &Report{Destination: dest, Format: op.Format, Outcome: outcome, Result: result}, nil
}

// selectEntries returns the handles for paths, or everything when paths is
// empty.
func selectEntries(c *session.Coordinator, paths []string) ([]*provider.Entry, error) {
	if len(paths) == 0 {
		return c.SelectAll()
	}

	t, p := c.Tree(), c.Provider()
	selected := make([]*provider.Entry, 0, len(paths))
	for _, want := range paths {
		id, err := lookup(t, p, want)
		if err != nil {
			return nil, err
		}
		selected = append(selected, t.Node(id).Entry())
	}
	return selected, nil
}

// lookup walks the tree one label at a time, populating only the nodes on
// the way to want.
func lookup(t *tree.Tree, p provider.StructureProvider, want string) (tree.NodeID, error) {
	cur := t.ArchiveRoot()
	for _, label := range strings.Split(strings.Trim(want, "/"), "/") {
		if label == "" || label == "." {
			continue
		}
		children, err := t.Children(cur, p)
		if err != nil {
			return tree.NoNode, err
		}
		next := tree.NoNode
		for _, child := range children {
			if t.Node(child).Label() == label {
				next = child
				break
			}
		}
		if next == tree.NoNode {
			return tree.NoNode, fmt.Errorf("%s: %w", want, os.ErrNotExist)
		}
		cur = next
	}
	return cur, nil
}

// Listing is one row of List.
type Listing struct {
	Path    string
	Dir     bool
	Size    int64
	ModTime time.Time
	Depth   int
}

// List opens source, an archive or a directory, and returns its entries
// down to depth levels. A depth of zero or less lists everything.
func List(ctx context.Context, source string, depth int) ([]Listing, error) {
	opener := provider.OpenArchive
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		opener = provider.OpenDir
	}

	c := session.New(session.WithLogger(componentLogger("list")), session.WithOpener(opener))
	c.SetSource(source)
	if err := c.Open(ctx); err != nil {
		return nil, err
	}
	defer c.Cancel()

	t, p := c.Tree(), c.Provider()
	var rows []Listing
	var visit func(id tree.NodeID, level int) error
	visit = func(id tree.NodeID, level int) error {
		if depth > 0 && level > depth {
			return nil
		}
		children, err := t.Children(id, p)
		if err != nil {
			return err
		}
		for _, child := range children {
			n := t.Node(child)
			e := n.Entry()
			rows = append(rows, Listing{
				Path:    t.Path(child),
				Dir:     n.IsContainer(),
				Size:    e.Size,
				ModTime: e.ModTime,
				Depth:   level,
			})
			if n.IsContainer() {
				if err := visit(child, level+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := visit(t.ArchiveRoot(), 1); err != nil {
		return nil, err
	}
	return rows, nil
}
