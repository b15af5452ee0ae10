package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/config"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/transfer"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/duallog"

	// Platform adapters register themselves on import.
	_ "github.com/kestrelnet/cliconf/internal/platforms/asa"
	_ "github.com/kestrelnet/cliconf/internal/platforms/eos"
	_ "github.com/kestrelnet/cliconf/internal/platforms/generic"
	_ "github.com/kestrelnet/cliconf/internal/platforms/ios"
	_ "github.com/kestrelnet/cliconf/internal/platforms/vyos"
)

var (
	debugMode bool
	traceMode bool
)

var rootCmd = &cobra.Command{
	Use:   "cliconf",
	Short: "Network device configuration tool",
	Long:  "Reads and writes device configuration over interactive CLI sessions, with one contract across vendor platforms.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := zerolog.InfoLevel
		if traceMode {
			logLevel = zerolog.TraceLevel
		} else if debugMode {
			logLevel = zerolog.DebugLevel
		}
		duallog.Setup(logLevel)

		if cmd.Name() == "cliconf" {
			return nil
		}
		inventory, _ := cmd.Flags().GetString("inventory")
		device, _ := cmd.Flags().GetString("device")
		if inventory == "" || device == "" {
			return fmt.Errorf("--inventory and --device are required")
		}
		return nil
	},
}

var getConfigCmd = &cobra.Command{
	Use:   "get-config",
	Short: "Read the device configuration",
	RunE:  runGetConfig,
}

var editConfigCmd = &cobra.Command{
	Use:   "edit-config",
	Short: "Load a candidate configuration and commit or discard it",
	RunE:  runEditConfig,
}

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Execute one arbitrary command",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeneric,
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Report device capabilities as JSON",
	RunE:  runCapabilities,
}

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Report device identity facts",
	RunE:  runFacts,
}

var copyFileCmd = &cobra.Command{
	Use:   "copy-file <source> <destination>",
	Short: "Upload a file to the device (scp/sftp)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCopyFile,
}

var getFileCmd = &cobra.Command{
	Use:   "get-file <source> <destination>",
	Short: "Download a file from the device (scp/sftp)",
	Args:  cobra.ExactArgs(2),
	RunE:  runGetFile,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().String("inventory", "", "Path to the device inventory file")
	rootCmd.PersistentFlags().String("device", "", "Device name from the inventory")
	rootCmd.PersistentFlags().String("timeout", "30s", "Command timeout")

	getConfigCmd.Flags().String("source", cliconf.SourceRunning, "Configuration source (running or startup)")
	getConfigCmd.Flags().String("filter", "", "Vendor filter appended to the show command")

	editConfigCmd.Flags().String("file", "", "Path to the candidate configuration file")
	editConfigCmd.Flags().Bool("commit", false, "Activate the candidate instead of discarding it")
	editConfigCmd.Flags().Bool("replace", false, "Replace the configuration instead of merging")
	editConfigCmd.MarkFlagRequired("file")

	copyFileCmd.Flags().String("protocol", transfer.ProtocolSCP, "Transfer protocol (scp or sftp)")
	getFileCmd.Flags().String("protocol", transfer.ProtocolSCP, "Transfer protocol (scp or sftp)")

	rootCmd.AddCommand(getConfigCmd, editConfigCmd, runCmd, capabilitiesCmd, factsCmd, copyFileCmd, getFileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect resolves the device from the inventory and opens transport
// and adapter.
func connect(cmd *cobra.Command) (cliconf.Cliconf, transport.Transport, error) {
	inventoryPath, _ := cmd.Flags().GetString("inventory")
	deviceName, _ := cmd.Flags().GetString("device")
	timeoutStr, _ := cmd.Flags().GetString("timeout")

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --timeout: %w", err)
	}

	inv, err := config.Load(inventoryPath)
	if err != nil {
		return nil, nil, err
	}
	dev, err := inv.Get(deviceName)
	if err != nil {
		return nil, nil, err
	}
	if dev.Timeout != 0 {
		timeout = dev.Timeout.Std()
	}

	info, ok := cliconf.DefaultRegistry.Get(dev.Platform)
	if !ok {
		return nil, nil, fmt.Errorf("unknown platform %q, known: %v", dev.Platform, cliconf.DefaultRegistry.List())
	}

	logger := duallog.Logger()
	var t transport.Transport
	switch dev.Transport {
	case "telnet":
		t, err = transport.DialTelnet(transport.TelnetConfig{
			Host: dev.Host, Port: dev.Port,
			Username: dev.Username, Password: dev.Password,
			Timeout: timeout,
		}, logger)
	case "scrapli":
		if info.ScrapliPlatform == "" {
			return nil, nil, fmt.Errorf("platform %q has no scrapli platform mapping", dev.Platform)
		}
		t, err = transport.DialScrapli(transport.ScrapliConfig{
			Host: dev.Host, Port: dev.Port, Platform: info.ScrapliPlatform,
			Username: dev.Username, Password: dev.Password,
			Timeout: timeout,
		}, logger)
	default:
		t, err = transport.DialSSH(transport.SSHConfig{
			Host: dev.Host, Port: dev.Port,
			Username: dev.Username, Password: dev.Password,
			Timeout: timeout,
		}, logger)
	}
	if err != nil {
		return nil, nil, err
	}

	return info.Factory(t, logger), t, nil
}

func runGetConfig(cmd *cobra.Command, args []string) error {
	adapter, _, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	source, _ := cmd.Flags().GetString("source")
	filter, _ := cmd.Flags().GetString("filter")

	text, err := adapter.GetConfig(context.Background(), source, filter)
	if err != nil {
		return err
	}
	duallog.Result(text)
	return nil
}

// editResult is the machine-readable outcome of edit-config.
type editResult struct {
	Changed bool   `json:"changed"`
	Diff    string `json:"diff,omitempty"`
}

func runEditConfig(cmd *cobra.Command, args []string) error {
	adapter, _, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	file, _ := cmd.Flags().GetString("file")
	commit, _ := cmd.Flags().GetBool("commit")
	replace, _ := cmd.Flags().GetBool("replace")

	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	candidate := cliconf.ParseCandidate(string(content))

	ctx := context.Background()
	caps, err := adapter.GetCapabilities(ctx)
	if err != nil {
		return err
	}
	if replace && !caps.Operations.Replace {
		return fmt.Errorf("config replace is not supported on this device")
	}

	diff, err := adapter.EditConfig(ctx, candidate, commit, replace)
	if err != nil {
		return err
	}

	result := editResult{Diff: diff}
	if caps.Operations.Diff {
		result.Changed = diff != ""
	} else {
		// Without diff support there is no way to tell; assume the
		// load changed something.
		zlog.Warn().Msg("config diff is not supported on this device, statically setting changed flag to true")
		result.Changed = true
	}

	out, err := json.Marshal(result)
	if err != nil {
		return err
	}
	duallog.Result(string(out))
	return nil
}

func runGeneric(cmd *cobra.Command, args []string) error {
	adapter, _, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	resp, err := adapter.Run(context.Background(), executor.Command{Command: args[0]})
	if err != nil {
		return err
	}
	duallog.Result(resp)
	return nil
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	adapter, _, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	caps, err := adapter.GetCapabilities(context.Background())
	if err != nil {
		return err
	}
	out, err := caps.JSON()
	if err != nil {
		return err
	}
	duallog.Result(out)
	return nil
}

func runFacts(cmd *cobra.Command, args []string) error {
	adapter, _, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	facts, err := adapter.GetFacts(context.Background())
	if err != nil {
		return err
	}
	out, err := json.Marshal(facts)
	if err != nil {
		return err
	}
	duallog.Result(string(out))
	return nil
}

func runCopyFile(cmd *cobra.Command, args []string) error {
	return runTransfer(cmd, args, transfer.CopyFile)
}

func runGetFile(cmd *cobra.Command, args []string) error {
	return runTransfer(cmd, args, transfer.GetFile)
}

func runTransfer(cmd *cobra.Command, args []string, fn func(client *ssh.Client, source, destination, protocol string) error) error {
	adapter, t, err := connect(cmd)
	if err != nil {
		return err
	}
	defer adapter.Close()

	sshTransport, ok := t.(*transport.SSHTransport)
	if !ok {
		return fmt.Errorf("file transfer requires the ssh transport")
	}
	protocol, _ := cmd.Flags().GetString("protocol")
	return fn(sshTransport.Client(), args[0], args[1], protocol)
}
