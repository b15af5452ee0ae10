package executor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelnet/cliconf/internal/executor"
	"github.com/kestrelnet/cliconf/internal/testutil"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

func TestRunRecordsHistoryInOrder(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("show version", "Cisco IOS Software, Version 15.2(4)M7,")
	mock.Respond("show clock", "10:00:00.000 UTC Mon Jan 1 2024")
	exec := executor.New(mock, zerolog.Nop())

	commands := []string{"show version", "show clock", "show users"}
	for _, cmd := range commands {
		_, err := exec.Run(context.Background(), executor.Command{Command: cmd})
		require.NoError(t, err)
	}

	history := exec.History()
	require.Len(t, history, len(commands))
	for i, cmd := range commands {
		assert.Equal(t, cmd, history[i].Command)
	}
	assert.Equal(t, "Cisco IOS Software, Version 15.2(4)M7,", history[0].Response)
}

func TestRunRedactsHistoryWhenNoLog(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Respond("enable secret s3cret", "")
	exec := executor.New(mock, zerolog.Nop())

	_, err := exec.Run(context.Background(), executor.Command{Command: "enable secret s3cret", NoLog: true})
	require.NoError(t, err)

	history := exec.History()
	require.Len(t, history, 1)
	assert.Equal(t, executor.Redacted, history[0].Command)
	assert.Equal(t, executor.Redacted, history[0].Response)

	// The command still reached the device untouched.
	assert.Equal(t, "enable secret s3cret", mock.LastCommand())
}

func TestRunRecordsFailedCommands(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.FailOn("show broken", errors.New("channel error"))
	exec := executor.New(mock, zerolog.Nop())

	_, err := exec.Run(context.Background(), executor.Command{Command: "show broken"})
	require.Error(t, err)
	require.Len(t, exec.History(), 1)
}

func TestRunRejectsEmptyCommand(t *testing.T) {
	mock := testutil.NewMockTransport()
	exec := executor.New(mock, zerolog.Nop())

	_, err := exec.Run(context.Background(), executor.Command{Command: "   "})

	var invalid *utils.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, mock.SendCount, "validation failures must not reach the transport")
	assert.Empty(t, exec.History())
}

func TestRunRejectsAnswerWithoutPrompt(t *testing.T) {
	mock := testutil.NewMockTransport()
	exec := executor.New(mock, zerolog.Nop())

	_, err := exec.Run(context.Background(), executor.Command{Command: "reload", Answer: "yes"})

	var invalid *utils.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, mock.SendCount)
}

func TestRunForwardsInteractionOptions(t *testing.T) {
	mock := testutil.NewMockTransport()
	exec := executor.New(mock, zerolog.Nop())

	_, err := exec.Run(context.Background(), executor.Command{
		Command: "reload",
		Prompt:  "Proceed with reload?",
		Answer:  "y",
	})
	require.NoError(t, err)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "Proceed with reload?", mock.Sent[0].Opts.Prompt)
	assert.Equal(t, "y", mock.Sent[0].Opts.Answer)
}

func TestBaseOperations(t *testing.T) {
	ops := executor.BaseOperations()
	assert.ElementsMatch(t, []string{"get_config", "edit_config", "get_capabilities", "get"}, ops)
}
