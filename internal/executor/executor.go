package executor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kestrelnet/cliconf/internal/transport"
	"github.com/kestrelnet/cliconf/pkg/utils"
)

// Redacted replaces both halves of a history entry when the caller
// opted out of logging for a command (credentials, key material).
const Redacted = "*redacted*"

// Command is one instruction for the device CLI: either a bare command
// string or a command with interaction hints attached.
type Command struct {
	Command string

	// Prompt is an extra prompt the command is expected to trigger;
	// Answer is sent when it appears. Answer without Prompt is an
	// argument error.
	Prompt string
	Answer string

	// SendOnly fires the command without reading a response.
	SendOnly bool

	// NoNewline suppresses the trailing newline.
	NoNewline bool

	// PromptRetry re-reads once when the response did not end on a
	// known prompt.
	PromptRetry bool

	// NoLog stores a redaction marker in history instead of the
	// literal command and response.
	NoLog bool
}

// Entry is one audit record: a command as sent and the response as
// received. History grows by exactly one entry per executed command,
// session-management commands included.
type Entry struct {
	Command  string
	Response string
}

// Executor runs commands against a single device transport and keeps
// the append-only audit history for the life of the connection.
type Executor struct {
	transport transport.Transport
	log       zerolog.Logger
	history   []Entry
}

// New wires an executor to its transport.
func New(t transport.Transport, logger zerolog.Logger) *Executor {
	return &Executor{
		transport: t,
		log:       logger.With().Str("component", "executor").Logger(),
	}
}

// Run validates, encodes and executes a single command, records it in
// history and returns the raw response text.
func (e *Executor) Run(ctx context.Context, cmd Command) (string, error) {
	if strings.TrimSpace(cmd.Command) == "" {
		return "", utils.NewInvalidArgument("command", "must not be empty")
	}
	if cmd.Answer != "" && cmd.Prompt == "" {
		return "", utils.NewInvalidArgument("answer", "requires a prompt to answer to")
	}

	opts := transport.SendOptions{
		Prompt:      cmd.Prompt,
		Answer:      cmd.Answer,
		SendOnly:    cmd.SendOnly,
		NoNewline:   cmd.NoNewline,
		PromptRetry: cmd.PromptRetry,
	}

	response, err := e.transport.Send(ctx, cmd.Command, opts)
	e.record(cmd, response)
	if err != nil {
		return "", err
	}

	if cmd.NoLog {
		e.log.Debug().Msg("command executed (redacted)")
	} else {
		e.log.Debug().Str("command", cmd.Command).Int("response_len", len(response)).Msg("command executed")
	}
	return response, nil
}

// GetPrompt passes through to the transport.
func (e *Executor) GetPrompt(ctx context.Context) (string, error) {
	return e.transport.GetPrompt(ctx)
}

// Close passes through to the transport.
func (e *Executor) Close() error {
	return e.transport.Close()
}

// History returns a copy of the audit log in execution order.
func (e *Executor) History() []Entry {
	out := make([]Entry, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Executor) record(cmd Command, response string) {
	entry := Entry{Command: cmd.Command, Response: response}
	if cmd.NoLog {
		entry = Entry{Command: Redacted, Response: Redacted}
	}
	e.history = append(e.history, entry)
}

// BaseOperations lists the operations every adapter of this protocol
// layer exposes regardless of platform.
func BaseOperations() []string {
	return []string{"get_config", "edit_config", "get_capabilities", "get"}
}
