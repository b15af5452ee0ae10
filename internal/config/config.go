// Package config loads the device inventory consumed by the cliconf
// command-line tool.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts human-readable timeouts ("45s", "2m") in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Device describes how to reach one network device.
type Device struct {
	Host      string   `yaml:"host"`
	Port      int      `yaml:"port"`
	Platform  string   `yaml:"platform"`
	Transport string   `yaml:"transport"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Timeout   Duration `yaml:"timeout"`
}

// Inventory is the full device inventory file.
type Inventory struct {
	Devices map[string]Device `yaml:"devices"`
}

// Load reads and validates an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}

	for name, dev := range inv.Devices {
		if err := validate(name, dev); err != nil {
			return nil, err
		}
	}
	return &inv, nil
}

// Get returns the named device.
func (i *Inventory) Get(name string) (Device, error) {
	dev, ok := i.Devices[name]
	if !ok {
		return Device{}, fmt.Errorf("device %q not found in inventory", name)
	}
	return dev, nil
}

func validate(name string, dev Device) error {
	if dev.Host == "" {
		return fmt.Errorf("device %q: host is required", name)
	}
	if dev.Platform == "" {
		return fmt.Errorf("device %q: platform is required", name)
	}
	switch dev.Transport {
	case "", "ssh", "telnet", "scrapli":
	default:
		return fmt.Errorf("device %q: transport %q is not one of ssh, telnet, scrapli", name, dev.Transport)
	}
	return nil
}
