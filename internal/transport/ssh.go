package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// ErrTimeout is returned (wrapped) when the device did not produce a
// recognizable prompt within the command timeout. The transport closes
// itself before returning it; the channel state is unknown at that
// point and no further commands may be issued.
var ErrTimeout = errors.New("timed out waiting for device prompt")

// promptPattern matches the trailing prompt line of common network
// operating systems (hostname plus >, #, $ or VyOS-style :~$).
var promptPattern = regexp.MustCompile(`(?m)^[\w.@()/:~\-]+\s?[>#\$]\s*$`)

// SSHConfig holds the settings needed to open an interactive SSH
// channel to a device.
type SSHConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SSHTransport drives an interactive shell over SSH. It requests a pty
// so the device presents the same prompts an operator would see.
type SSHTransport struct {
	cfg     SSHConfig
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	reader  *bufio.Reader
	netConn net.Conn
	prompt  string
	log     zerolog.Logger
}

// DialSSH opens the connection, starts a shell and waits for the
// initial prompt.
func DialSSH(cfg SSHConfig, logger zerolog.Logger) (*SSHTransport, error) {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.Timeout,
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	rawConn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sshConfig)
	if err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	client := ssh.NewClient(clientConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		rawConn.Close()
		return nil, fmt.Errorf("open ssh session on %s: %w", addr, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 80, 512, modes); err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return nil, fmt.Errorf("request pty on %s: %w", addr, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return nil, fmt.Errorf("stdin pipe on %s: %w", addr, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return nil, fmt.Errorf("stdout pipe on %s: %w", addr, err)
	}
	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		rawConn.Close()
		return nil, fmt.Errorf("start shell on %s: %w", addr, err)
	}

	t := &SSHTransport{
		cfg:     cfg,
		client:  client,
		session: session,
		stdin:   stdin,
		reader:  bufio.NewReader(stdout),
		netConn: rawConn,
		log:     logger.With().Str("transport", "ssh").Str("host", cfg.Host).Logger(),
	}

	banner, err := t.readUntilPrompt(context.Background(), "")
	if err != nil {
		t.Close()
		return nil, err
	}
	t.prompt = lastLine(banner)
	t.log.Debug().Str("prompt", t.prompt).Msg("ssh channel ready")
	return t, nil
}

// Send implements Transport.
func (t *SSHTransport) Send(ctx context.Context, command string, opts SendOptions) (string, error) {
	if t.session == nil {
		return "", errors.New("ssh transport is closed")
	}

	payload := command
	if !opts.NoNewline {
		payload += "\n"
	}
	if _, err := t.stdin.Write([]byte(payload)); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}
	t.log.Trace().Str("command", command).Msg("sent")

	if opts.SendOnly {
		return "", nil
	}

	output, err := t.readUntilPrompt(ctx, opts.Prompt)
	if err != nil {
		return "", err
	}

	if opts.Prompt != "" && strings.Contains(output, opts.Prompt) {
		if _, err := t.stdin.Write([]byte(opts.Answer + "\n")); err != nil {
			return "", fmt.Errorf("write answer: %w", err)
		}
		rest, err := t.readUntilPrompt(ctx, "")
		if err != nil {
			return "", err
		}
		output += rest
	}

	if opts.PromptRetry && !promptPattern.MatchString(output) {
		rest, err := t.readUntilPrompt(ctx, "")
		if err != nil {
			return "", err
		}
		output += rest
	}

	t.prompt = lastLine(output)
	return stripEcho(command, output), nil
}

// GetPrompt implements Transport. It nudges the device with a bare
// newline so mode changes (config mode, sessions) are reflected.
func (t *SSHTransport) GetPrompt(ctx context.Context) (string, error) {
	if t.session == nil {
		return "", errors.New("ssh transport is closed")
	}
	if _, err := t.stdin.Write([]byte("\n")); err != nil {
		return "", fmt.Errorf("write newline: %w", err)
	}
	output, err := t.readUntilPrompt(ctx, "")
	if err != nil {
		return "", err
	}
	t.prompt = lastLine(output)
	return t.prompt, nil
}

// Close implements Transport.
func (t *SSHTransport) Close() error {
	if t.session != nil {
		t.session.Close()
		t.session = nil
	}
	if t.client != nil {
		t.client.Close()
		t.client = nil
	}
	if t.netConn != nil {
		t.netConn.Close()
		t.netConn = nil
	}
	t.stdin = nil
	t.reader = nil
	return nil
}

// Client exposes the underlying SSH client for collaborators that run
// their own sessions over the same connection (file transfer).
func (t *SSHTransport) Client() *ssh.Client {
	return t.client
}

// readUntilPrompt accumulates output until the device prompt (or the
// extra expected prompt) shows up, the timeout fires, or ctx is done.
// A timeout closes the transport: the channel may hold half-read
// output and cannot be trusted afterwards.
func (t *SSHTransport) readUntilPrompt(ctx context.Context, extra string) (string, error) {
	buffer := make([]byte, readChunkSize)
	var raw []byte
	deadline := time.Now().Add(t.cfg.Timeout)

	for {
		if err := ctx.Err(); err != nil {
			t.Close()
			return "", err
		}
		if t.netConn != nil {
			_ = t.netConn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		}

		n, err := t.reader.Read(buffer)
		if n > 0 {
			raw = append(raw, buffer[:n]...)
			text := decodeResponse(raw)
			if promptPattern.MatchString(text) {
				return text, nil
			}
			if extra != "" && strings.Contains(text, extra) {
				return text, nil
			}
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if time.Now().After(deadline) {
					t.Close()
					return "", fmt.Errorf("%w after %s", ErrTimeout, t.cfg.Timeout)
				}
				continue
			}
			t.Close()
			return "", fmt.Errorf("read channel: %w", err)
		}
		if time.Now().After(deadline) {
			t.Close()
			return "", fmt.Errorf("%w after %s", ErrTimeout, t.cfg.Timeout)
		}
	}
}

// stripEcho removes the echoed command line and the trailing prompt
// from a raw response block.
func stripEcho(command, output string) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if len(lines) > 0 && strings.Contains(lines[0], strings.TrimSpace(command)) {
		lines = lines[1:]
	}
	if len(lines) > 0 && promptPattern.MatchString(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n"), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Transport = (*SSHTransport)(nil)
