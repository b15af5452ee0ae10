package cliconf

import (
	"encoding/json"

	"github.com/kestrelnet/cliconf/internal/executor"
)

// NetworkAPI identifies this protocol layer in capability reports.
const NetworkAPI = "cliconf"

// DeviceInfo holds the static identity facts of a connected device.
type DeviceInfo struct {
	OS       string `json:"network_os"`
	Version  string `json:"network_os_version,omitempty"`
	Model    string `json:"network_os_model,omitempty"`
	Hostname string `json:"network_os_hostname,omitempty"`
}

// Operations records which optional configuration features the
// connected device supports.
type Operations struct {
	Commit  bool `json:"commit"`
	Replace bool `json:"replace"`
	Diff    bool `json:"diff"`
}

// Capabilities is the per-connection capability record. It is computed
// once and cached for the connection's lifetime; reconnecting is the
// only way to refresh it.
type Capabilities struct {
	NetworkAPI string     `json:"network_api"`
	RPC        []string   `json:"rpc"`
	DeviceInfo DeviceInfo `json:"device_info"`
	Operations Operations `json:"operations"`
}

// NewCapabilities assembles a capability record with the universal rpc
// set plus any platform-specific additions.
func NewCapabilities(info DeviceInfo, ops Operations, extraRPC ...string) Capabilities {
	rpc := executor.BaseOperations()
	rpc = append(rpc, extraRPC...)
	return Capabilities{
		NetworkAPI: NetworkAPI,
		RPC:        rpc,
		DeviceInfo: info,
		Operations: ops,
	}
}

// JSON renders the capability record in its wire shape.
func (c Capabilities) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
