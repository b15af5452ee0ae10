package utils

import (
	"fmt"
)

// PrivilegeError indicates a privileged operation was attempted while
// the device prompt showed unprivileged mode. Never retried.
type PrivilegeError struct {
	OS        string
	Operation string
	Prompt    string
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("privilege required (%s): %s needs enable mode, current prompt %q", e.OS, e.Operation, e.Prompt)
}

// NewPrivilegeError creates a new privilege error
func NewPrivilegeError(os, operation, prompt string) *PrivilegeError {
	return &PrivilegeError{OS: os, Operation: operation, Prompt: prompt}
}

// UnsupportedError indicates the device OS or its capability set does
// not support the requested feature.
type UnsupportedError struct {
	OS        string
	Operation string
	Reason    string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported operation (%s): %s: %s", e.OS, e.Operation, e.Reason)
	}
	return fmt.Sprintf("unsupported operation (%s): %s", e.OS, e.Operation)
}

// NewUnsupportedError creates a new unsupported-operation error
func NewUnsupportedError(os, operation, reason string) *UnsupportedError {
	return &UnsupportedError{OS: os, Operation: operation, Reason: reason}
}

// InvalidArgumentError indicates caller input that fails validation
// before any device interaction is attempted.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

// NewInvalidArgument creates a new invalid-argument error
func NewInvalidArgument(argument, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Reason: reason}
}

// RemoteCommandError indicates the device rejected a submitted
// command.
type RemoteCommandError struct {
	OS         string
	Command    string
	Underlying error
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("remote command error (%s) running %q: %v", e.OS, e.Command, e.Underlying)
}

func (e *RemoteCommandError) Unwrap() error {
	return e.Underlying
}

// NewRemoteCommandError creates a new remote command error
func NewRemoteCommandError(os, command string, err error) *RemoteCommandError {
	return &RemoteCommandError{OS: os, Command: command, Underlying: err}
}

// ConnectionError represents connection-related errors, timeouts
// included. Fatal to the current connection.
type ConnectionError struct {
	Target     string
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Target, e.Underlying)
}

func (e *ConnectionError) Unwrap() error {
	return e.Underlying
}

// NewConnectionError creates a new connection error
func NewConnectionError(target string, err error) *ConnectionError {
	return &ConnectionError{Target: target, Underlying: err}
}
