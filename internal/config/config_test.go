package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeInventory(t, `
devices:
  core-sw1:
    host: 192.0.2.10
    platform: eos
    transport: ssh
    username: admin
    password: secret
    timeout: 45s
  edge-fw:
    host: 192.0.2.20
    platform: asa
    transport: telnet
    username: admin
    password: secret
`)

	inv, err := Load(path)
	require.NoError(t, err)

	dev, err := inv.Get("core-sw1")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", dev.Host)
	assert.Equal(t, "eos", dev.Platform)
	assert.Equal(t, 45*time.Second, dev.Timeout.Std())

	_, err = inv.Get("missing")
	assert.Error(t, err)
}

func TestLoadRejectsMissingHost(t *testing.T) {
	path := writeInventory(t, `
devices:
  broken:
    platform: ios
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	path := writeInventory(t, `
devices:
  broken:
    host: 192.0.2.30
    platform: ios
    transport: serial
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
