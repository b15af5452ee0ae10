package generic

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

func TestConfigAccessUnsupported(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := NewWithOS("linux", mock, zerolog.Nop())

	var unsupported *utils.UnsupportedError

	_, err := adapter.GetConfig(context.Background(), "running", "")
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "linux", unsupported.OS)

	_, err = adapter.EditConfig(context.Background(),
		[]executor.Command{{Command: "hostname x"}}, false, false)
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "linux", unsupported.OS)

	assert.Zero(t, mock.SendCount, "rejected operations must not touch the device")
}

func TestRunStillWorks(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("uptime", " 10:02:11 up 4 days")
	adapter := New(mock, zerolog.Nop())

	out, err := adapter.Run(context.Background(), executor.Command{Command: "uptime"})
	require.NoError(t, err)
	assert.Equal(t, " 10:02:11 up 4 days", out)
	require.Len(t, adapter.History(), 1)
}

func TestCapabilitiesWithoutDeviceProbe(t *testing.T) {
	mock := testutil.NewMockTransport()
	adapter := NewWithOS("linux", mock, zerolog.Nop())

	caps, err := adapter.GetCapabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cliconf", caps.NetworkAPI)
	assert.Equal(t, "linux", caps.DeviceInfo.OS)
	assert.NotContains(t, caps.RPC, "edit_config")
	assert.Zero(t, mock.SendCount, "no device query is needed for a generic connection")
}
