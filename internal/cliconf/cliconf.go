// Package cliconf defines the uniform configuration protocol contract
// every device adapter satisfies: read and write configuration, run
// arbitrary commands, report capabilities and facts, and finalize
// candidate configuration with commit or discard — regardless of the
// vendor CLI dialect underneath.
package cliconf

import (
	"context"

	"github.com/kestrelnet/cliconf/internal/executor"
)

// Config sources accepted by GetConfig.
const (
	SourceRunning = "running"
	SourceStartup = "startup"
)

// Cliconf is the adapter contract consumed by automation callers. One
// adapter instance owns exactly one device connection for its
// lifetime; none of the methods are safe for concurrent use.
type Cliconf interface {
	// GetConfig returns the device configuration from the given
	// source ("running" or "startup"), optionally narrowed by a
	// vendor filter expression. Always a fresh device read.
	GetConfig(ctx context.Context, source, filter string) (string, error)

	// EditConfig loads a candidate configuration. Depending on the
	// platform the candidate is applied directly or staged in an
	// isolated session and then committed or discarded. Returns the
	// device diff when the platform can produce one.
	EditConfig(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error)

	// Run executes one arbitrary command and returns its response.
	Run(ctx context.Context, cmd executor.Command) (string, error)

	// GetCapabilities reports what this device supports. Computed on
	// first call, cached for the connection lifetime.
	GetCapabilities(ctx context.Context) (Capabilities, error)

	// GetFacts returns the device identity facts (os, version, model,
	// hostname). Cached after the first successful read.
	GetFacts(ctx context.Context) (map[string]string, error)

	// Commit activates pending changes on platforms with an explicit
	// commit model; others return an unsupported-operation error.
	Commit(ctx context.Context, comment string) error

	// Discard throws away pending changes. A no-op when nothing is
	// pending.
	Discard(ctx context.Context) error

	// History returns the audit log of every command executed on this
	// connection, in order.
	History() []executor.Entry

	// Close releases the device connection.
	Close() error
}
