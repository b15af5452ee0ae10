package session

import (
	"context"
	"errors"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

// Direct applies a candidate configuration with no staging: every
// accepted line is immediately live. There is nothing to commit,
// replace against, or diff.
type Direct struct {
	Exec *executor.Executor
	OS   string

	// Enter is an optional command that puts the CLI into
	// configuration mode before the candidate is streamed.
	Enter string

	// End leaves configuration mode after a successful load.
	End string
}

// Edit validates the request and streams the candidate. Direct-apply
// platforms reject commit and replace outright; the only legal call
// shape is a non-empty candidate with both flags false.
func (d *Direct) Edit(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	if commit {
		return "", utils.NewUnsupportedError(d.OS, "edit_config", "commit is not supported on this platform")
	}
	if replace {
		return "", utils.NewUnsupportedError(d.OS, "edit_config", "replace is not supported on this platform")
	}
	if len(candidate) == 0 {
		return "", utils.NewInvalidArgument("candidate", "must provide a candidate config to load")
	}

	if d.Enter != "" {
		if err := d.run(ctx, executor.Command{Command: d.Enter}); err != nil {
			return "", err
		}
	}
	if err := d.load(ctx, candidate); err != nil {
		return "", err
	}
	if err := d.run(ctx, executor.Command{Command: d.End}); err != nil {
		return "", err
	}
	return "", nil
}

// load streams candidate lines in order, skipping terminator and
// comment lines, failing fast on the first rejected command.
func (d *Direct) load(ctx context.Context, candidate []executor.Command) error {
	for _, line := range candidate {
		if cliconf.SkipLine(line) {
			continue
		}
		if err := d.run(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (d *Direct) run(ctx context.Context, cmd executor.Command) error {
	resp, err := d.Exec.Run(ctx, cmd)
	if err != nil {
		var invalid *utils.InvalidArgumentError
		if errors.As(err, &invalid) {
			return err
		}
		return utils.NewRemoteCommandError(d.OS, cmd.Command, err)
	}
	if IsErrorResponse(resp) {
		return utils.NewRemoteCommandError(d.OS, cmd.Command, errors.New(firstErrorLine(resp)))
	}
	return nil
}
