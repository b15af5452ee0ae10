// Package vyos implements the cliconf contract for VyOS routers. VyOS
// always stages changes: "configure" opens a working copy, "compare"
// diffs it against the running configuration, and "commit" or
// "exit discard" finalizes. Replace is not supported. Configuration
// mode is reachable from the operational prompt, so no privilege
// guard applies.
package vyos

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

const osName = "vyos"

var (
	versionRe = regexp.MustCompile(`Version:\s*(\S+)`)
	modelRe   = regexp.MustCompile(`HW model:\s*(\S+)`)
)

// Adapter is the VyOS device adapter.
type Adapter struct {
	platforms.Base
	staged session.Staged
}

// New builds an adapter bound to the given transport.
func New(t transport.Transport, logger zerolog.Logger) *Adapter {
	base := platforms.NewBase(osName, t, logger)
	return &Adapter{
		Base: base,
		staged: session.Staged{
			Exec: base.Exec,
			OS:   osName,
			Log:  base.Log,
			Cmds: session.CommandSet{
				Start:  "configure",
				Diff:   "compare",
				Commit: "commit",
				Abort:  "exit discard",
			},
		},
	}
}

// GetConfig implements cliconf.Cliconf. VyOS has a single
// configuration view; the source argument is accepted for contract
// compatibility but both values read the active configuration.
func (a *Adapter) GetConfig(ctx context.Context, source, filter string) (string, error) {
	if source != cliconf.SourceRunning && source != cliconf.SourceStartup {
		return "", utils.NewInvalidArgument("source", fmt.Sprintf("fetching configuration from %q is not supported", source))
	}
	cmd := strings.TrimSpace("show configuration " + filter)
	resp, err := a.Exec.Run(ctx, executor.Command{Command: cmd})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// EditConfig implements cliconf.Cliconf via the staged strategy.
func (a *Adapter) EditConfig(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	return a.staged.Edit(ctx, candidate, commit, replace)
}

// GetFacts implements cliconf.Cliconf.
func (a *Adapter) GetFacts(ctx context.Context) (map[string]string, error) {
	if cached := a.CachedFacts(); cached != nil {
		return cached, nil
	}

	facts := map[string]string{"network_os": osName}

	resp, err := a.Exec.Run(ctx, executor.Command{Command: "show version"})
	if err != nil {
		return nil, err
	}
	data := strings.TrimSpace(resp)
	if m := versionRe.FindStringSubmatch(data); m != nil {
		facts["network_os_version"] = m[1]
	}
	if m := modelRe.FindStringSubmatch(data); m != nil {
		facts["network_os_model"] = m[1]
	}

	resp, err = a.Exec.Run(ctx, executor.Command{Command: "show host name"})
	if err != nil {
		return nil, err
	}
	facts["network_os_hostname"] = strings.TrimSpace(resp)

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
	ops := cliconf.Operations{Commit: true, Replace: false, Diff: true}
	caps := cliconf.NewCapabilities(platforms.InfoFromFacts(facts), ops)
	a.CapsCache = &caps
	return caps, nil
}

func init() {
	cliconf.Register(cliconf.PlatformInfo{
		Name:        osName,
		Description: "VyOS (staged configure mode)",
		Factory: func(t transport.Transport, logger zerolog.Logger) cliconf.Cliconf {
			return New(t, logger)
		},
	})
}

var _ cliconf.Cliconf = (*Adapter)(nil)
