package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/cliconf"
	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

// CommandSet is the vendor vocabulary driving the staged strategy.
// Start may contain a %s placeholder for the generated session name.
// Empty optional fields (Rollback, Diff, End) skip the corresponding
// step.
type CommandSet struct {
	Start    string
	Rollback string
	Diff     string
	Commit   string
	Abort    string
	End      string
}

// Staged loads a candidate configuration into an isolated vendor-side
// session and finalizes it with commit or abort. A session exists only
// for the duration of one Edit call and is never left open on the
// device after an error.
type Staged struct {
	Exec *executor.Executor
	OS   string
	Cmds CommandSet
	Log  zerolog.Logger

	// Now supplies the timestamp used to derive session names; nil
	// means time.Now.
	Now func() time.Time
}

// SessionName derives a per-call session identifier. Timestamp-based
// names avoid collisions across concurrent automation runs against
// the same device.
func (s *Staged) SessionName() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return fmt.Sprintf("cliconf_%d", now().Unix())
}

// Edit runs the full staged state machine: start session, optional
// clean-slate rollback, load, diff, commit or abort, then return the
// main CLI to its top-level prompt.
func (s *Staged) Edit(ctx context.Context, candidate []executor.Command, commit, replace bool) (string, error) {
	if len(candidate) == 0 {
		return "", utils.NewInvalidArgument("candidate", "must provide a candidate config to load")
	}
	if replace && s.Cmds.Rollback == "" {
		return "", utils.NewUnsupportedError(s.OS, "edit_config", "config replace is not supported on this platform")
	}

	start := s.Cmds.Start
	if strings.Contains(start, "%s") {
		start = fmt.Sprintf(start, s.SessionName())
	}
	if err := s.run(ctx, executor.Command{Command: start}); err != nil {
		return "", err
	}

	if replace {
		if err := s.run(ctx, executor.Command{Command: s.Cmds.Rollback}); err != nil {
			s.abortAfter(ctx, err)
			return "", err
		}
	}

	for _, line := range candidate {
		if cliconf.SkipLine(line) {
			continue
		}
		if err := s.run(ctx, line); err != nil {
			s.abortAfter(ctx, err)
			return "", err
		}
	}

	var diff string
	if s.Cmds.Diff != "" {
		out, err := s.Exec.Run(ctx, executor.Command{Command: s.Cmds.Diff})
		if err != nil {
			wrapped := utils.NewRemoteCommandError(s.OS, s.Cmds.Diff, err)
			s.abortAfter(ctx, wrapped)
			return "", wrapped
		}
		diff = trimDiff(out)
	}

	final := s.Cmds.Abort
	if commit {
		final = s.Cmds.Commit
	}
	if err := s.run(ctx, executor.Command{Command: final}); err != nil {
		return "", err
	}

	if s.Cmds.End != "" {
		if err := s.run(ctx, executor.Command{Command: s.Cmds.End}); err != nil {
			return "", err
		}
	}
	return diff, nil
}

// abortAfter discards the session after a mid-load failure so it is
// not left open on the device. A timed-out connection is assumed dead
// and gets no further commands.
func (s *Staged) abortAfter(ctx context.Context, cause error) {
	if errors.Is(cause, transport.ErrTimeout) || ctx.Err() != nil {
		s.Log.Warn().Err(cause).Msg("skipping session abort on dead connection")
		return
	}
	if _, err := s.Exec.Run(ctx, executor.Command{Command: s.Cmds.Abort}); err != nil {
		s.Log.Warn().Err(err).Msg("session abort failed after load error")
	}
}

func (s *Staged) run(ctx context.Context, cmd executor.Command) error {
	resp, err := s.Exec.Run(ctx, cmd)
	if err != nil {
		var invalid *utils.InvalidArgumentError
		if errors.As(err, &invalid) {
			return err
		}
		return utils.NewRemoteCommandError(s.OS, cmd.Command, err)
	}
	if IsErrorResponse(resp) {
		return utils.NewRemoteCommandError(s.OS, cmd.Command, errors.New(firstErrorLine(resp)))
	}
	return nil
}
