// Package asa implements the cliconf contract for Cisco ASA
// firewalls. Like IOS, ASA applies configuration directly with no
// commit, replace or diff support; the fact patterns differ.
package asa

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/platforms"
	"github.com/kestrelnet/cliconf/internal/session"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

const osName = "asa"

var (
	versionRe  = regexp.MustCompile(`Version (\S+),`)
	modelRe    = regexp.MustCompile(`(?m)^Model Id:\s+(.+) \(revision`)
	hostnameRe = regexp.MustCompile(`(?m)^(.+) up`)
)

// Adapter is the ASA device adapter.
type Adapter struct {
	platforms.Base
	direct session.Direct
}

// New builds an adapter bound to the given transport.
func New(t transport.Transport, logger zerolog.Logger) *Adapter {
	base := platforms.NewBase(osName, t, logger)
	return &Adapter{
		Base: base,
		direct: session.Direct{
			Exec:  base.Exec,
			OS:    osName,
			Enter: "configure terminal",
			End:   "end",
		},
	}
}

// GetConfig implements cliconf.Cliconf.
func (a *Adapter) GetConfig(ctx context.Context, source, filter string) (string, error) {
	lookup := map[string]string{
		cliconf.SourceRunning: "running-config",
		cliconf.SourceStartup: "startup-config",
	}
	name, ok := lookup[source]
	if !ok {
		return "", utils.NewInvalidArgument("source", fmt.Sprintf("fetching configuration from %q is not supported", source))
	}
	if err := cliconf.EnsureEnableMode(ctx, a.Exec, osName, "get_config"); err != nil {
		return "", err
	}

	cmd := strings.TrimSpace("show " + name + " " + filter)
	resp, err := a.Exec.Run(ctx, executor.Command{Command: cmd})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// EditConfig implements cliconf.Cliconf via the direct-apply strategy.
func (a *Adapter) EditConfig(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	if err := cliconf.EnsureEnableMode(ctx, a.Exec, osName, "edit_config"); err != nil {
		return "", err
	}
	return a.direct.Edit(ctx, candidate, commit, replace)
}

// GetFacts implements cliconf.Cliconf.
func (a *Adapter) GetFacts(ctx context.Context) (map[string]string, error) {
	if cached := a.CachedFacts(); cached != nil {
		return cached, nil
	}

	resp, err := a.Exec.Run(ctx, executor.Command{Command: "show version"})
	if err != nil {
		return nil, err
	}
	data := strings.TrimSpace(resp)

	facts := map[string]string{"network_os": osName}
	if m := versionRe.FindStringSubmatch(data); m != nil {
		facts["network_os_version"] = m[1]
	}
	if m := modelRe.FindStringSubmatch(data); m != nil {
		facts["network_os_model"] = m[1]
	}
	if m := hostnameRe.FindStringSubmatch(data); m != nil {
		facts["network_os_hostname"] = m[1]
	}

	a.FactsCache = facts
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
	caps := cliconf.NewCapabilities(platforms.InfoFromFacts(facts), cliconf.Operations{})
	a.CapsCache = &caps
	return caps, nil
}

func init() {
	cliconf.Register(cliconf.PlatformInfo{
		Name:        osName,
		Description: "Cisco ASA (direct apply)",
		Factory: func(t transport.Transport, logger zerolog.Logger) cliconf.Cliconf {
			return New(t, logger)
		},
	})
}

var _ cliconf.Cliconf = (*Adapter)(nil)
