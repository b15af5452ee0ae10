package asa

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

const showVersionASA = `Cisco Adaptive Security Appliance Software Version 9.8(2),
Compiled on Sun 27-Aug-17 12:44 PDT by builders

fw01 up 214 days 10 hours

Model Id:   ASA5506 (revision 1.0)
Hardware:   ASA5506, 4096 MB RAM, CPU Atom C2000 series
`

func TestGetFactsParsesShowVersion(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("show version", showVersionASA)
	adapter := New(mock, zerolog.Nop())

	facts, err := adapter.GetFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "asa", facts["network_os"])
	assert.Equal(t, "9.8(2)", facts["network_os_version"])
	assert.Equal(t, "ASA5506", facts["network_os_model"])
	assert.Equal(t, "fw01", facts["network_os_hostname"])
}

func TestEditConfigRejectsCommitAndReplace(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := New(mock, zerolog.Nop())
	candidate := []executor.Command{{Command: "hostname fw02"}}

	var unsupported *utils.UnsupportedError
	_, err := adapter.EditConfig(context.Background(), candidate, true, false)
	require.ErrorAs(t, err, &unsupported)
	_, err = adapter.EditConfig(context.Background(), candidate, false, true)
	require.ErrorAs(t, err, &unsupported)
	assert.Zero(t, mock.SendCount)
}

func TestEditConfigStreamsDirectly(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.EditConfig(context.Background(), []executor.Command{
		{Command: "object network web-server"},
		{Command: "! provisioned"},
		{Command: "host 10.1.1.10"},
		{Command: "end"},
	}, false, false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"configure terminal",
		"object network web-server",
		"host 10.1.1.10",
		"end",
	}, mock.Commands())
}

func TestGetConfigRequiresEnableMode(t *testing.T) {
	mock := testutil.NewUnprivilegedMockTransport()
	adapter := New(mock, zerolog.Nop())

	_, err := adapter.GetConfig(context.Background(), "running", "")

	var privilege *utils.PrivilegeError
	require.ErrorAs(t, err, &privilege)
	assert.Equal(t, "asa", privilege.OS)
}
