// Package operations carries out an import or export once a session has
// validated it. Operations read entries through a provider and never decide
// whether a transfer is allowed.
package operations

import (
	"context"
	"fmt"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// Request is what a session hands to an operation on commit.
type Request struct {
	// Destination is the target directory for an import or the archive
	// path for an export.
	Destination string
	Selected    []*provider.Entry
	Provider    provider.StructureProvider
	Overwrite   bool
	// CreateLeadup keeps the directory prefix of each entry.
	CreateLeadup bool
}

// Result reports how a run ended.
type Result struct {
	Status  core.OperationStatus
	Err     error
	Written []string
	Skipped []string
}

// Operation is a single blocking transfer.
type Operation interface {
	Name() string
	Run(ctx context.Context, req Request) Result
}

func failed(err error, written, skipped []string) Result {
	return Result{Status: core.StatusFailure, Err: err, Written: written, Skipped: skipped}
}

func cancelled(written, skipped []string) Result {
	return Result{Status: core.StatusCancelled, Err: core.ErrCancelled, Written: written, Skipped: skipped}
}

func contentProvider(p provider.StructureProvider) (provider.ContentProvider, error) {
	if p == nil {
		return nil, fmt.Errorf("no provider")
	}
	cp, ok := p.(provider.ContentProvider)
	if !ok {
		return nil, fmt.Errorf("provider %T cannot read entry content", p)
	}
	return cp, nil
}

// Expand turns a selection into the file entries it covers. A container
// contributes all of its descendant files. Duplicates are dropped and the
// order of first appearance is kept.
func Expand(p provider.StructureProvider, selected []*provider.Entry) ([]*provider.Entry, error) {
	seen := make(map[string]bool)
	var result []*provider.Entry

	var visit func(e *provider.Entry) error
	visit = func(e *provider.Entry) error {
		if !p.IsContainer(e) {
			if !seen[e.Name] {
				seen[e.Name] = true
				result = append(result, e)
			}
			return nil
		}
		children, err := p.Children(e)
		if err != nil {
			return fmt.Errorf("failed to list %q: %w", e.Name, err)
		}
		for _, c := range children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}

	for _, e := range selected {
		if err := visit(e); err != nil {
			return nil, err
		}
	}
	return result, nil
}
