// Package session drives one import or export from choosing a source to
// committing the transfer. A Coordinator owns at most one open provider and
// closes it on every path out of the session.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/format"
	"github.com/arthur-debert/archport/pkg/archport/operations"
	"github.com/arthur-debert/archport/pkg/archport/provider"
	"github.com/arthur-debert/archport/pkg/archport/tree"
	"github.com/arthur-debert/archport/pkg/archport/validation"
)

// Coordinator is the transfer state machine. It is not safe for concurrent
// use.
type Coordinator struct {
	state     State
	source    string
	format    core.ArchiveFormat
	opener    provider.Opener
	validator *validation.Validator
	provider  provider.StructureProvider
	tree      *tree.Tree
	logger    core.Logger
	lastErr   error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithOpener sets how the source is opened. The default opens archives.
func WithOpener(o provider.Opener) Option {
	return func(c *Coordinator) { c.opener = o }
}

// WithValidator sets the validator used for source checks.
func WithValidator(v *validation.Validator) Option {
	return func(c *Coordinator) { c.validator = v }
}

// WithLogger sets the logger.
func WithLogger(l core.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithFormat sets the initially active export format.
func WithFormat(f core.ArchiveFormat) Option {
	return func(c *Coordinator) { c.format = f }
}

// New creates an idle Coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		format: core.ArchiveFormatZip,
		opener: provider.OpenArchive,
		logger: core.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = validation.New(validation.WithOpener(c.opener), validation.WithLogger(c.logger))
	}
	return c
}

func (c *Coordinator) State() State                         { return c.state }
func (c *Coordinator) Source() string                       { return c.source }
func (c *Coordinator) Format() core.ArchiveFormat           { return c.format }
func (c *Coordinator) Tree() *tree.Tree                     { return c.tree }
func (c *Coordinator) Provider() provider.StructureProvider { return c.provider }

// LastError returns the error recorded by the most recent failure.
func (c *Coordinator) LastError() error {
	return c.lastErr
}

func (c *Coordinator) transition(to State) {
	c.logger.Debug().
		Stringer("from", c.state).
		Stringer("to", to).
		Str("source", c.source).
		Msg("session state change")
	c.state = to
}

// closeProvider releases the open provider, if any. It is the only place a
// provider is closed.
func (c *Coordinator) closeProvider() {
	if c.provider == nil {
		return
	}
	if err := c.provider.Close(); err != nil {
		c.logger.Warn().Str("source", c.source).Err(err).Msg("failed to close provider")
	} else {
		c.logger.Info().Str("source", c.source).Msg("provider closed")
	}
	c.provider = nil
	c.tree = nil
}

func (c *Coordinator) reset() {
	c.source = ""
	c.transition(StateIdle)
}

// SetSource chooses the source to open. Setting the path that is already
// open is a no-op; any other path closes the current provider first.
func (c *Coordinator) SetSource(path string) {
	if path == c.source && c.provider != nil {
		return
	}
	c.closeProvider()
	c.source = path
	c.transition(StateSourceSpecified)
}

// CheckSource runs the source validation pipeline without keeping anything
// open.
func (c *Coordinator) CheckSource(ctx context.Context) core.Outcome {
	return c.validator.ValidateSource(ctx, c.source)
}

// Open opens the source and builds the browsable tree. On failure nothing is
// left open and the session stays in StateSourceSpecified.
func (c *Coordinator) Open(ctx context.Context) error {
	if c.state != StateSourceSpecified {
		return &core.StateError{Action: "open", State: c.state.String()}
	}

	p, err := c.opener(ctx, c.source)
	if err != nil {
		c.logger.Warn().Str("source", c.source).Err(err).Msg("failed to open source")
		return asOpenError(c.source, err)
	}

	t, err := tree.New(p)
	if err != nil {
		if cerr := p.Close(); cerr != nil {
			c.logger.Warn().Str("source", c.source).Err(cerr).Msg("failed to close provider")
		}
		c.logger.Warn().Str("source", c.source).Err(err).Msg("failed to read source structure")
		return asOpenError(c.source, err)
	}

	c.provider = p
	c.tree = t
	c.logger.Info().Str("source", c.source).Msg("provider opened")
	c.transition(StateProviderOpen)
	return nil
}

func asOpenError(path string, err error) error {
	var openErr *core.OpenError
	if errors.As(err, &openErr) {
		return err
	}
	return &core.OpenError{Path: path, Err: err}
}

// SelectAll returns every file of the open source.
func (c *Coordinator) SelectAll() ([]*provider.Entry, error) {
	if !c.state.hasProvider() {
		return nil, &core.StateError{Action: "select", State: c.state.String()}
	}
	return c.tree.SelectAll(c.tree.ArchiveRoot(), c.provider)
}

// Validate merges the selection check with the given outcomes. Unless the
// result is blocking the session becomes StateValidated. A blocked result
// leaves the provider open.
func (c *Coordinator) Validate(selected []*provider.Entry, checks ...core.Outcome) core.Outcome {
	if c.state != StateProviderOpen && c.state != StateValidated {
		return core.Blocked((&core.StateError{Action: "validate", State: c.state.String()}).Error())
	}

	outcome := core.Merge(append([]core.Outcome{validation.ValidateSelection(len(selected))}, checks...)...)
	if outcome.IsBlocked() {
		c.logger.Debug().Str("message", outcome.Message).Msg("validation blocked")
		if c.state == StateValidated {
			c.transition(StateProviderOpen)
		}
		return outcome
	}
	c.transition(StateValidated)
	return outcome
}

// Commit runs op on the selection of a validated session. The provider is
// closed exactly once whatever the result, and the session returns to
// StateIdle. A cancelled run is not an error.
func (c *Coordinator) Commit(ctx context.Context, op operations.Operation, req operations.Request) (operations.Result, error) {
	if !c.state.hasProvider() || c.state == StateCommitting {
		return operations.Result{}, &core.StateError{Action: "commit", State: c.state.String()}
	}
	if o := validation.ValidateSelection(len(req.Selected)); o.IsBlocked() {
		return operations.Result{}, &core.BlockedError{Path: req.Destination, Outcome: o}
	}
	if c.state != StateValidated {
		return operations.Result{}, &core.StateError{Action: "commit", State: c.state.String()}
	}

	req.Provider = c.provider
	c.transition(StateCommitting)
	result := c.run(ctx, op, req)

	switch result.Status {
	case core.StatusSuccess:
		c.transition(StateClosed)
		c.reset()
		return result, nil
	case core.StatusCancelled:
		c.logger.Info().Str("operation", op.Name()).Msg("transfer cancelled")
		c.reset()
		return result, nil
	default:
		err := &core.OperationError{Op: op.Name(), Path: req.Destination, Err: result.Err}
		c.lastErr = err
		c.transition(StateFailed)
		c.reset()
		return result, err
	}
}

// run executes op and releases the provider. A panicking operation is
// reported as a failed run.
func (c *Coordinator) run(ctx context.Context, op operations.Operation, req operations.Request) (result operations.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Str("operation", op.Name()).Str("panic", fmt.Sprint(r)).Msg("operation panicked")
			result = operations.Result{Status: core.StatusFailure, Err: fmt.Errorf("%s panicked: %v", op.Name(), r)}
		}
		c.closeProvider()
	}()
	return op.Run(ctx, req)
}

// Cancel abandons the session from any state.
func (c *Coordinator) Cancel() {
	c.closeProvider()
	c.reset()
}

// Fail records err and abandons the session from any state.
func (c *Coordinator) Fail(err error) {
	c.lastErr = err
	c.transition(StateFailed)
	c.closeProvider()
	c.reset()
}

// SwitchFormat makes f the active format and re-stamps dest with its suffix.
func (c *Coordinator) SwitchFormat(f core.ArchiveFormat, dest string) string {
	c.format = f
	return format.WithResolvedSuffix(dest, f, true)
}

// ResolveDestination adopts the format named by the suffix of dest, if any,
// and returns dest with a well-formed suffix.
func (c *Coordinator) ResolveDestination(dest string) string {
	if f, ok := format.SyncFromDestination(dest); ok {
		c.format = f
	}
	return format.WithResolvedSuffix(dest, c.format, false)
}
