// Package generic implements the cliconf contract for monitoring-only
// connections where the platform is unknown or untrusted: arbitrary
// commands and capability reporting work, configuration reads and
// writes are rejected.
package generic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/platforms"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

const defaultOS = "generic"

// Adapter is a monitoring-only device adapter.
type Adapter struct {
	platforms.Base
}

// New builds an adapter for an unknown platform.
func New(t transport.Transport, logger zerolog.Logger) *Adapter {
	return NewWithOS(defaultOS, t, logger)
}

// NewWithOS builds a monitoring-only adapter that reports the given
// network_os name in facts and errors.
func NewWithOS(os string, t transport.Transport, logger zerolog.Logger) *Adapter {
	return &Adapter{Base: platforms.NewBase(os, t, logger)}
}

// GetConfig implements cliconf.Cliconf; always unsupported.
func (a *Adapter) GetConfig(ctx context.Context, source, filter string) (string, error) {
	return "", utils.NewUnsupportedError(a.OS, "get_config", "configuration access is not supported on this connection")
}

// EditConfig implements cliconf.Cliconf; always unsupported.
func (a *Adapter) EditConfig(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	return "", utils.NewUnsupportedError(a.OS, "edit_config", "configuration access is not supported on this connection")
}

// GetFacts implements cliconf.Cliconf. Without a known platform only
// the OS name is reported; no device query is issued.
func (a *Adapter) GetFacts(ctx context.Context) (map[string]string, error) {
	if cached := a.CachedFacts(); cached != nil {
		return cached, nil
	}
	a.FactsCache = map[string]string{"network_os": a.OS}
	return a.CachedFacts(), nil
}

// GetCapabilities implements cliconf.Cliconf.
func (a *Adapter) GetCapabilities(ctx context.Context) (cliconf.Capabilities, error) {
	if a.CapsCache != nil {
		return *a.CapsCache, nil
	}
	facts, err := a.GetFacts(ctx)
	if err != nil {
		return cliconf.Capabilities{}, err
	}
	caps := cliconf.Capabilities{
		NetworkAPI: cliconf.NetworkAPI,
		RPC:        []string{"get_capabilities", "get"},
		DeviceInfo: platforms.InfoFromFacts(facts),
		Operations: cliconf.Operations{},
	}
	a.CapsCache = &caps
	return caps, nil
}

func init() {
	cliconf.Register(cliconf.PlatformInfo{
		Name:        defaultOS,
		Description: "Monitoring-only connection (no configuration access)",
		Factory: func(t transport.Transport, logger zerolog.Logger) cliconf.Cliconf {
			return New(t, logger)
		},
	})
}

var _ cliconf.Cliconf = (*Adapter)(nil)
