// Package eos implements the cliconf contract for Arista EOS. EOS
// stages configuration in named sessions when the image supports
// them; the adapter probes for session support once per connection
// and falls back to a direct merge when the probe fails.
package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/platforms"
	"github.com/kestrelnet/cliconf/internal/session"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

const osName = "eos"

// sessionProbe is a harmless query whose failure indicates the image
// has no configuration session support.
const sessionProbe = "show configuration sessions"

// Adapter is the EOS device adapter.
type Adapter struct {
	platforms.Base
	staged session.Staged

	// sessions is the cached probe result; nil until the first
	// capability computation.
	sessions *bool
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
				Start:    "configure session %s",
				Rollback: "rollback clean-config",
				Diff:     "show session-config diffs",
				Commit:   "commit",
				Abort:    "abort",
				End:      "end",
			},
		},
	}
}

// supportsSessions probes the device once and caches the result. The
// probe outcome alone decides session support, deterministically.
func (a *Adapter) supportsSessions(ctx context.Context) (bool, error) {
	if a.sessions != nil {
		return *a.sessions, nil
	}
	resp, err := a.Exec.Run(ctx, executor.Command{Command: sessionProbe})
	if err != nil {
		return false, err
	}
	supported := !strings.Contains(strings.ToLower(resp), "error")
	a.sessions = &supported
	a.Log.Debug().Bool("sessions", supported).Msg("configuration session probe")
	return supported, nil
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

// EditConfig implements cliconf.Cliconf. With session support the
// candidate is staged, diffed and committed or aborted; without it
// the adapter degrades to an immediate merge that requires commit and
// cannot replace.
func (a *Adapter) EditConfig(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	if err := cliconf.EnsureEnableMode(ctx, a.Exec, osName, "edit_config"); err != nil {
		return "", err
	}
	sessions, err := a.supportsSessions(ctx)
	if err != nil {
		return "", err
	}

	if !sessions {
		if replace {
			return "", utils.NewUnsupportedError(osName, "edit_config", "config replace requires configuration sessions")
		}
		if !commit {
			return "", utils.NewUnsupportedError(osName, "edit_config", "cannot discard changes without configuration sessions")
		}
		direct := session.Direct{Exec: a.Exec, OS: osName, Enter: "configure", End: "end"}
		return direct.Edit(ctx, candidate, false, false)
	}

	return a.staged.Edit(ctx, candidate, commit, replace)
}

// GetFacts implements cliconf.Cliconf. EOS reports structured facts,
// so version and model come from JSON output rather than regexes.
func (a *Adapter) GetFacts(ctx context.Context) (map[string]string, error) {
	if cached := a.CachedFacts(); cached != nil {
		return cached, nil
	}

	facts := map[string]string{"network_os": osName}

	resp, err := a.Exec.Run(ctx, executor.Command{Command: "show version | json"})
	if err != nil {
		return nil, err
	}
	var version struct {
		Version   string `json:"version"`
		ModelName string `json:"modelName"`
	}
	if err := json.Unmarshal([]byte(resp), &version); err != nil {
		return nil, utils.NewRemoteCommandError(osName, "show version | json", err)
	}
	facts["network_os_version"] = version.Version
	facts["network_os_model"] = version.ModelName

	resp, err = a.Exec.Run(ctx, executor.Command{Command: "show hostname | json"})
	if err != nil {
		return nil, err
	}
	var host struct {
		Hostname string `json:"hostname"`
	}
	if err := json.Unmarshal([]byte(resp), &host); err != nil {
		return nil, utils.NewRemoteCommandError(osName, "show hostname | json", err)
	}
	facts["network_os_hostname"] = host.Hostname

	a.FactsCache = facts
	return a.CachedFacts(), nil
}

// GetCapabilities implements cliconf.Cliconf. Commit, replace and
// diff support all follow the session probe.
func (a *Adapter) GetCapabilities(ctx context.Context) (cliconf.Capabilities, error) {
	if a.CapsCache != nil {
		return *a.CapsCache, nil
	}
	sessions, err := a.supportsSessions(ctx)
	if err != nil {
		return cliconf.Capabilities{}, err
	}
	facts, err := a.GetFacts(ctx)
	if err != nil {
		return cliconf.Capabilities{}, err
	}
	ops := cliconf.Operations{Commit: sessions, Replace: sessions, Diff: sessions}
	caps := cliconf.NewCapabilities(platforms.InfoFromFacts(facts), ops)
	a.CapsCache = &caps
	return caps, nil
}

func init() {
	cliconf.Register(cliconf.PlatformInfo{
		Name:            osName,
		Description:     "Arista EOS (staged sessions)",
		ScrapliPlatform: "arista_eos",
		Factory: func(t transport.Transport, logger zerolog.Logger) cliconf.Cliconf {
			return New(t, logger)
		},
	})
}

var _ cliconf.Cliconf = (*Adapter)(nil)
