// Package platforms provides the shared building blocks for vendor
// device adapters. Each vendor package composes Base with a load
// strategy from the session package and registers itself under its
// network_os name.
package platforms

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

// Base carries the state common to every adapter: the command
// executor bound to this connection, the logger, and the lazily
// populated fact and capability caches. Caches live as long as the
// connection; reconnecting (a new adapter) is the only refresh path.
type Base struct {
	Exec *executor.Executor
	Log  zerolog.Logger
	OS   string

	FactsCache map[string]string
	CapsCache  *cliconf.Capabilities
}

// NewBase wires a base adapter to its transport.
func NewBase(os string, t transport.Transport, logger zerolog.Logger) Base {
	log := logger.With().Str("network_os", os).Logger()
	return Base{
		Exec: executor.New(t, log),
		Log:  log,
		OS:   os,
	}
}

// Run executes one arbitrary command and returns its response.
func (b *Base) Run(ctx context.Context, cmd executor.Command) (string, error) {
	return b.Exec.Run(ctx, cmd)
}

// Commit is unsupported as a standalone operation; platforms with a
// commit model finalize inside EditConfig.
func (b *Base) Commit(ctx context.Context, comment string) error {
	return utils.NewUnsupportedError(b.OS, "commit", "")
}

// Discard is unsupported as a standalone operation.
func (b *Base) Discard(ctx context.Context) error {
	return utils.NewUnsupportedError(b.OS, "discard_changes", "")
}

// History returns the audit log for this connection.
func (b *Base) History() []executor.Entry {
	return b.Exec.History()
}

// Close releases the device connection.
func (b *Base) Close() error {
	return b.Exec.Close()
}

// CachedFacts returns a copy of the fact cache, or nil when facts have
// not been computed yet.
func (b *Base) CachedFacts() map[string]string {
	if b.FactsCache == nil {
		return nil
	}
	out := make(map[string]string, len(b.FactsCache))
	for k, v := range b.FactsCache {
		out[k] = v
	}
	return out
}

// InfoFromFacts maps a fact set onto the capability device_info block.
func InfoFromFacts(facts map[string]string) cliconf.DeviceInfo {
	return cliconf.DeviceInfo{
		OS:       facts["network_os"],
		Version:  facts["network_os_version"],
		Model:    facts["network_os_model"],
		Hostname: facts["network_os_hostname"],
	}
}
