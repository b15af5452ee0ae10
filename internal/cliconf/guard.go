package cliconf

import (
	"context"
	"strings"

	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

// enableMarker terminates the prompt of a device in privileged
// (enable) mode across the platforms this layer supports.
const enableMarker = "#"

// EnsureEnableMode fails fast with a privilege error unless the
// current device prompt indicates privileged mode. Called at the top
// of every operation that reads or writes configuration.
func EnsureEnableMode(ctx context.Context, exec *executor.Executor, os, operation string) error {
	prompt, err := exec.GetPrompt(ctx)
	if err != nil {
		return utils.NewConnectionError(os, err)
	}
	if !strings.HasSuffix(strings.TrimSpace(prompt), enableMarker) {
		return utils.NewPrivilegeError(os, operation, prompt)
	}
	return nil
}
