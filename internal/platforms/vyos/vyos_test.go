package vyos

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/testutil"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

const showVersionVyOS = `Version:      VyOS 1.1.8
Built by:     maintainers@vyos.net
Built on:     Sat Nov 11 13:44:36 UTC 2017
HW model:     VMware7,1
HW S/N:       VMware-42
`

func TestGetConfigIgnoresSourceDistinction(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("show configuration", "interfaces {\n}")
	adapter := New(mock, zerolog.Nop())

	for _, source := range []string{"running", "startup"} {
		out, err := adapter.GetConfig(context.Background(), source, "")
		require.NoError(t, err)
		assert.Equal(t, "interfaces {\n}", out)
	}
}

func TestGetConfigRejectsUnknownSource(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.GetConfig(context.Background(), "bogus", "")

	var invalid *utils.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, mock.SendCount)
}

func TestEditConfigCommitFlow(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("compare", "+ set system host-name r2")
	adapter := New(mock, zerolog.Nop())

	diff, err := adapter.EditConfig(context.Background(),
		[]executor.Command{{Command: "set system host-name r2"}}, true, false)
	require.NoError(t, err)
	assert.Equal(t, "+ set system host-name r2", diff)

	assert.Equal(t, []string{
		"configure",
		"set system host-name r2",
		"compare",
		"commit",
	}, mock.Commands())
}

func TestEditConfigDiscardFlow(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("compare", "+ set system host-name r2")
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.EditConfig(context.Background(),
		[]executor.Command{{Command: "set system host-name r2"}}, false, false)
	require.NoError(t, err)

	commands := mock.Commands()
	assert.Equal(t, "exit discard", commands[len(commands)-1])
	assert.NotContains(t, commands, "commit")
}

func TestEditConfigRejectsReplace(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.EditConfig(context.Background(),
		[]executor.Command{{Command: "set system host-name r2"}}, true, true)

	var unsupported *utils.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Zero(t, mock.SendCount)
}

func TestEditConfigDiscardsOnLoadFailure(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("set bogus", "Invalid input: bogus")
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.EditConfig(context.Background(), []executor.Command{
		{Command: "set system host-name r2"},
		{Command: "set bogus"},
	}, true, false)

	var remote *utils.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	commands := mock.Commands()
	assert.Equal(t, "exit discard", commands[len(commands)-1])
}

func TestGetFacts(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("show version", showVersionVyOS)
	mock.Respond("show host name", "r1\n")
	adapter := New(mock, zerolog.Nop())

	facts, err := adapter.GetFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vyos", facts["network_os"])
	assert.Equal(t, "VyOS", facts["network_os_version"])
	assert.Equal(t, "VMware7,1", facts["network_os_model"])
	assert.Equal(t, "r1", facts["network_os_hostname"])
}

func TestGetCapabilities(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("show version", showVersionVyOS)
	mock.Respond("show host name", "r1\n")
	adapter := New(mock, zerolog.Nop())

	caps, err := adapter.GetCapabilities(context.Background())
	require.NoError(t, err)
	assert.True(t, caps.Operations.Commit)
	assert.False(t, caps.Operations.Replace)
	assert.True(t, caps.Operations.Diff)
}
