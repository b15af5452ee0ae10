// Package testutil provides the fake device transport used across the
// adapter and state-machine tests.
package testutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/kestrelnet/cliconf/internal/transport"
)

// SentCommand records one Send call with the options it carried.
type SentCommand struct {
	Command string
	Opts    transport.SendOptions
}

// MockTransport is a scripted in-memory device. Responses maps exact
// command strings to canned output; unmatched commands return
// DefaultResponse. Errors maps commands to injected failures. Every
// Send increments SendCount, which the capability-cache tests use to
// prove a probe ran exactly once.
type MockTransport struct {
	Prompt          string
	Responses       map[string]string
	Errors          map[string]error
	DefaultResponse string

	Sent        []SentCommand
	SendCount   int
	PromptCalls int
	Closed      bool
}

// NewMockTransport creates a mock device sitting at a privileged
// prompt.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Prompt:    "switch01#",
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

// NewUnprivilegedMockTransport creates a mock device at a user-mode
// prompt, for exercising the privilege guard.
func NewUnprivilegedMockTransport() *MockTransport {
	m := NewMockTransport()
	m.Prompt = "switch01>"
	return m
}

// Respond registers canned output for a command.
func (m *MockTransport) Respond(command, response string) *MockTransport {
	m.Responses[command] = response
	return m
}

// FailOn injects an error for a command.
func (m *MockTransport) FailOn(command string, err error) *MockTransport {
	m.Errors[command] = err
	return m
}

// Send implements transport.Transport.
func (m *MockTransport) Send(ctx context.Context, command string, opts transport.SendOptions) (string, error) {
	if m.Closed {
		return "", errors.New("transport is closed")
	}
	m.SendCount++
	m.Sent = append(m.Sent, SentCommand{Command: command, Opts: opts})

	if err, ok := m.Errors[command]; ok {
		return "", err
	}
	if resp, ok := m.Responses[command]; ok {
		return resp, nil
	}
	return m.DefaultResponse, nil
}

// GetPrompt implements transport.Transport.
func (m *MockTransport) GetPrompt(ctx context.Context) (string, error) {
	if m.Closed {
		return "", errors.New("transport is closed")
	}
	m.PromptCalls++
	return m.Prompt, nil
}

// Close implements transport.Transport.
func (m *MockTransport) Close() error {
	m.Closed = true
	return nil
}

// Commands returns the commands sent so far, in order.
func (m *MockTransport) Commands() []string {
	out := make([]string, len(m.Sent))
	for i, s := range m.Sent {
		out[i] = s.Command
	}
	return out
}

// LastCommand returns the most recently sent command.
func (m *MockTransport) LastCommand() string {
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Command
}

// String aids debugging failed order assertions.
func (m *MockTransport) String() string {
	return fmt.Sprintf("MockTransport{prompt: %q, sent: %v}", m.Prompt, m.Commands())
}

var _ transport.Transport = (*MockTransport)(nil)
