// Package validation decides whether a transfer may start. Every check
// returns a core.Outcome; nothing here returns an error to the caller.
package validation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/filesystem"
	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// Messages shown for the outcomes of the fixed pipelines.
const (
	MsgDestinationEmpty = "destination is empty"
	MsgSourceEmpty      = "source is empty"
	MsgBadArchive       = "cannot read archive / bad format"
	MsgNothingSelected  = "nothing selected"
)

// Confirmer asks the user a yes/no question.
type Confirmer func(question string) bool

// AlwaysConfirm answers yes to every question.
func AlwaysConfirm(string) bool { return true }

// NeverConfirm answers no to every question.
func NeverConfirm(string) bool { return false }

// Validator runs the destination, target and source pipelines.
type Validator struct {
	oracle ConflictOracle
	host   filesystem.HostFS
	opener provider.Opener
	logger core.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithOracle sets the conflict oracle. Without one no location is reserved.
func WithOracle(o ConflictOracle) Option {
	return func(v *Validator) { v.oracle = o }
}

// WithHost sets the file system used for target checks.
func WithHost(h filesystem.HostFS) Option {
	return func(v *Validator) { v.host = h }
}

// WithOpener sets how sources are opened for the readability check.
func WithOpener(o provider.Opener) Option {
	return func(v *Validator) { v.opener = o }
}

// WithLogger sets the logger.
func WithLogger(l core.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// New creates a Validator. By default it checks the real file system and
// opens sources as archives.
func New(opts ...Option) *Validator {
	v := &Validator{
		host:   filesystem.NewHostFileSystem(),
		opener: provider.OpenArchive,
		logger: core.NopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) report(check, path string, o core.Outcome) core.Outcome {
	event := v.logger.Debug()
	if o.IsBlocked() {
		event = v.logger.Warn()
	}
	event.
		Str("check", check).
		Str("path", path).
		Stringer("outcome", o.Kind).
		Str("message", o.Message).
		Msg("validation finished")
	return o
}

// ValidateDestination checks an export destination against the workspace.
func (v *Validator) ValidateDestination(dest string) core.Outcome {
	if strings.TrimSpace(dest) == "" {
		return v.report("destination", dest, core.Blocked(MsgDestinationEmpty))
	}
	if v.oracle != nil {
		if name, ok := v.oracle.FindReservedConflict(dest); ok {
			return v.report("destination", dest,
				core.Blocked(fmt.Sprintf("path conflicts with reserved location %s", name)))
		}
		if name, ok := v.oracle.FindOverlappingManagedContainer(dest); ok {
			return v.report("destination", dest,
				core.Advisory(fmt.Sprintf("writing here may affect %s", name)))
		}
	}
	return v.report("destination", dest, core.OK())
}

// EnsureTargetIsValid runs the commit-time checks for an export target: the
// parent directory first, then the target file itself.
func (v *Validator) EnsureTargetIsValid(target string, confirm Confirmer) core.Outcome {
	if o := v.EnsureTargetDirectoryIsValid(target, confirm); o.IsBlocked() {
		return o
	}
	return v.EnsureTargetFileIsValid(target, confirm)
}

// EnsureTargetDirectoryIsValid makes sure the directory that will hold
// target exists, offering to create it. A target without any separator lives
// in the working directory and is not checked.
func (v *Validator) EnsureTargetDirectoryIsValid(target string, confirm Confirmer) core.Outcome {
	if !strings.ContainsAny(target, "/"+string(filepath.Separator)) {
		return core.OK()
	}
	dir := filepath.Dir(target)

	info, err := v.host.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return v.report("target-directory", dir, core.Blocked(fmt.Sprintf("%s is not a directory", dir)))
	case err == nil:
		return core.OK()
	case !errors.Is(err, fs.ErrNotExist):
		return v.report("target-directory", dir, core.Blocked(fmt.Sprintf("cannot access %s: %v", dir, err)))
	}

	if confirm == nil || !confirm(fmt.Sprintf("Target directory %s does not exist. Create it?", dir)) {
		return v.report("target-directory", dir, core.Blocked(fmt.Sprintf("target directory %s does not exist", dir)))
	}
	if err := v.host.MkdirAll(dir, core.DefaultDirMode); err != nil {
		return v.report("target-directory", dir, core.Blocked(fmt.Sprintf("cannot create target directory %s: %v", dir, err)))
	}
	v.logger.Info().Str("path", dir).Msg("created target directory")
	return core.OK()
}

// EnsureTargetFileIsValid checks what currently occupies target. An existing
// writable file needs confirmation to be overwritten.
func (v *Validator) EnsureTargetFileIsValid(target string, confirm Confirmer) core.Outcome {
	info, err := v.host.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return core.OK()
	}
	if err != nil {
		return v.report("target", target, core.Blocked(fmt.Sprintf("cannot access %s: %v", target, err)))
	}
	if info.IsDir() {
		return v.report("target", target, core.Blocked(fmt.Sprintf("target %s is an existing directory", target)))
	}
	if !v.host.Writable(target) {
		return v.report("target", target, core.Blocked(fmt.Sprintf("target %s exists and is not writable", target)))
	}
	if confirm == nil || !confirm(fmt.Sprintf("%s already exists. Overwrite it?", target)) {
		return v.report("target", target, core.Blocked(fmt.Sprintf("%s exists and was not overwritten", target)))
	}
	return v.report("target", target, core.Advisory(fmt.Sprintf("%s will be overwritten", target)))
}

// ValidateSource checks that src can be opened as an archive. The opened
// provider is closed before returning.
func (v *Validator) ValidateSource(ctx context.Context, src string) core.Outcome {
	if strings.TrimSpace(src) == "" {
		return v.report("source", src, core.Blocked(MsgSourceEmpty))
	}

	p, err := v.opener(ctx, src)
	if err != nil {
		v.logger.Debug().Str("path", src).Err(err).Msg("source did not open")
		return v.report("source", src, core.Blocked(MsgBadArchive))
	}
	if err := p.Close(); err != nil {
		v.logger.Warn().Str("path", src).Err(err).Msg("failed to close probe provider")
	}
	return v.report("source", src, core.OK())
}

// ValidateSelection blocks a transfer with nothing selected.
func ValidateSelection(n int) core.Outcome {
	if n == 0 {
		return core.Blocked(MsgNothingSelected)
	}
	return core.OK()
}
