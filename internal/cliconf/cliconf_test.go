package cliconf_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/testutil"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

func TestEnsureEnableModeAcceptsPrivilegedPrompt(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Prompt = "router01# "
	exec := executor.New(mock, zerolog.Nop())

	err := cliconf.EnsureEnableMode(context.Background(), exec, "ios", "get_config")
	assert.NoError(t, err)
}

func TestEnsureEnableModeRejectsUserPrompt(t *testing.T) {
	mock := testutil.NewUnprivilegedMockTransport()
	exec := executor.New(mock, zerolog.Nop())

	err := cliconf.EnsureEnableMode(context.Background(), exec, "ios", "edit_config")

	var privilege *utils.PrivilegeError
	require.ErrorAs(t, err, &privilege)
	assert.Equal(t, "ios", privilege.OS)
	assert.Equal(t, "edit_config", privilege.Operation)
	assert.Zero(t, mock.SendCount, "the guard only queries the prompt")
}

func TestParseCandidate(t *testing.T) {
	text := "\ninterface Ethernet1\n description test\nend\n\n"
	candidate := cliconf.ParseCandidate(text)

	require.Len(t, candidate, 3)
	assert.Equal(t, "interface Ethernet1", candidate[0].Command)
	assert.Equal(t, " description test", candidate[1].Command, "interior indentation is preserved")
	assert.Equal(t, "end", candidate[2].Command)
}

func TestParseCandidateEmpty(t *testing.T) {
	assert.Nil(t, cliconf.ParseCandidate(""))
	assert.Nil(t, cliconf.ParseCandidate("  \n \n"))
}

func TestCapabilitiesWireShape(t *testing.T) {
	caps := cliconf.NewCapabilities(
		cliconf.DeviceInfo{OS: "eos", Version: "4.20.10M", Model: "vEOS", Hostname: "sw01"},
		cliconf.Operations{Commit: true, Replace: true, Diff: true},
	)

	out, err := caps.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "cliconf", decoded["network_api"])
	info := decoded["device_info"].(map[string]any)
	assert.Equal(t, "eos", info["network_os"])
	assert.Equal(t, "4.20.10M", info["network_os_version"])
	ops := decoded["operations"].(map[string]any)
	assert.Equal(t, true, ops["commit"])

	rpc := decoded["rpc"].([]any)
	assert.Contains(t, rpc, "get_config")
	assert.Contains(t, rpc, "edit_config")
	assert.Contains(t, rpc, "get_capabilities")
	assert.Contains(t, rpc, "get")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := cliconf.NewPlatformRegistry()
	factory := func(tr transport.Transport, l zerolog.Logger) cliconf.Cliconf { return nil }

	require.NoError(t, registry.Register(cliconf.PlatformInfo{Name: "testos", Factory: factory}))

	info, ok := registry.Get("testos")
	require.True(t, ok)
	assert.Equal(t, "testos", info.Name)

	_, ok = registry.Get("unknown")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicatesAndInvalid(t *testing.T) {
	registry := cliconf.NewPlatformRegistry()
	factory := func(tr transport.Transport, l zerolog.Logger) cliconf.Cliconf { return nil }

	require.NoError(t, registry.Register(cliconf.PlatformInfo{Name: "testos", Factory: factory}))
	assert.Error(t, registry.Register(cliconf.PlatformInfo{Name: "testos", Factory: factory}))
	assert.Error(t, registry.Register(cliconf.PlatformInfo{Name: "", Factory: factory}))
	assert.Error(t, registry.Register(cliconf.PlatformInfo{Name: "nofactory"}))
}

func TestRegistryListIsSorted(t *testing.T) {
	registry := cliconf.NewPlatformRegistry()
	factory := func(tr transport.Transport, l zerolog.Logger) cliconf.Cliconf { return nil }

	for _, name := range []string{"vyos", "asa", "ios"} {
		require.NoError(t, registry.Register(cliconf.PlatformInfo{Name: name, Factory: factory}))
	}
	assert.Equal(t, []string{"asa", "ios", "vyos"}, registry.List())
}
