package transport

import (
	"context"
	"time"
)

// SendOptions carries the per-command knobs a caller may set when
// sending a single CLI command over an interactive channel.
type SendOptions struct {
	// Prompt is an additional prompt pattern the device is expected to
	// print in response to the command (e.g. a confirmation question).
	Prompt string

	// Answer is the text sent when Prompt is seen.
	Answer string

	// SendOnly writes the command without waiting for any output.
	SendOnly bool

	// NoNewline suppresses the trailing newline after the command.
	NoNewline bool

	// PromptRetry re-reads the channel once if the first read did not
	// terminate on a known prompt.
	PromptRetry bool
}

// Transport is a synchronous byte channel to exactly one network
// device. Implementations track the device prompt and enforce command
// timeouts; a timeout is fatal to the connection.
type Transport interface {
	// Send writes a command and returns the device output with the
	// echoed command and trailing prompt stripped.
	Send(ctx context.Context, command string, opts SendOptions) (string, error)

	// GetPrompt returns the current device prompt line.
	GetPrompt(ctx context.Context) (string, error)

	// Close tears down the channel. Safe to call more than once.
	Close() error
}

const (
	// DefaultTimeout bounds a single command round trip.
	DefaultTimeout = 30 * time.Second

	readChunkSize = 4096
)
