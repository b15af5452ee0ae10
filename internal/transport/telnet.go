package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ziutek/telnet"
)

// AuthPrompt is one step of an interactive telnet login sequence:
// wait for WaitFor, then send SendCmd.
type AuthPrompt struct {
	WaitFor string
	SendCmd string
}

// TelnetConfig holds the settings for a telnet channel. Auth is the
// login sequence; when empty a conventional username/password exchange
// is used.
type TelnetConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Auth     []AuthPrompt
}

// TelnetTransport drives a device CLI over a raw telnet connection.
// Telnet survives on out-of-band console servers and lab gear, so the
// layer above never needs to care which of the two it got.
type TelnetTransport struct {
	cfg    TelnetConfig
	conn   *telnet.Conn
	prompt string
	log    zerolog.Logger
}

// DialTelnet opens the connection and walks the login sequence.
func DialTelnet(cfg TelnetConfig, logger zerolog.Logger) (*TelnetTransport, error) {
	if cfg.Port == 0 {
		cfg.Port = 23
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	conn, err := telnet.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	t := &TelnetTransport{
		cfg:  cfg,
		conn: conn,
		log:  logger.With().Str("transport", "telnet").Str("host", cfg.Host).Logger(),
	}

	auth := cfg.Auth
	if len(auth) == 0 {
		auth = []AuthPrompt{
			{WaitFor: "sername:", SendCmd: cfg.Username + "\n"},
			{WaitFor: "assword:", SendCmd: cfg.Password + "\n"},
		}
	}
	for _, step := range auth {
		if _, err := t.readUntil(context.Background(), step.WaitFor); err != nil {
			conn.Close()
			return nil, fmt.Errorf("login step %q: %w", step.WaitFor, err)
		}
		if step.SendCmd != "" {
			if _, err := conn.Write([]byte(step.SendCmd)); err != nil {
				conn.Close()
				return nil, fmt.Errorf("login write: %w", err)
			}
		}
	}

	banner, err := t.readUntilPrompt(context.Background(), "")
	if err != nil {
		conn.Close()
		return nil, err
	}
	t.prompt = lastLine(banner)
	t.log.Debug().Str("prompt", t.prompt).Msg("telnet channel ready")
	return t, nil
}

// Send implements Transport.
func (t *TelnetTransport) Send(ctx context.Context, command string, opts SendOptions) (string, error) {
	if t.conn == nil {
		return "", errors.New("telnet transport is closed")
	}

	payload := command
	if !opts.NoNewline {
		payload += "\n"
	}
	if _, err := t.conn.Write([]byte(payload)); err != nil {
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
		if _, err := t.conn.Write([]byte(opts.Answer + "\n")); err != nil {
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

// GetPrompt implements Transport.
func (t *TelnetTransport) GetPrompt(ctx context.Context) (string, error) {
	if t.conn == nil {
		return "", errors.New("telnet transport is closed")
	}
	if _, err := t.conn.Write([]byte("\n")); err != nil {
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
func (t *TelnetTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *TelnetTransport) readUntilPrompt(ctx context.Context, extra string) (string, error) {
	return t.read(ctx, func(text string) bool {
		if promptPattern.MatchString(text) {
			return true
		}
		return extra != "" && strings.Contains(text, extra)
	})
}

func (t *TelnetTransport) readUntil(ctx context.Context, pattern string) (string, error) {
	return t.read(ctx, func(text string) bool {
		return strings.Contains(text, pattern)
	})
}

func (t *TelnetTransport) read(ctx context.Context, done func(string) bool) (string, error) {
	buffer := make([]byte, readChunkSize)
	var raw []byte
	deadline := time.Now().Add(t.cfg.Timeout)

	for {
		if err := ctx.Err(); err != nil {
			t.Close()
			return "", err
		}
		_ = t.conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))

		n, err := t.conn.Read(buffer)
		if n > 0 {
			raw = append(raw, buffer[:n]...)
			if text := decodeResponse(raw); done(text) {
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

var _ Transport = (*TelnetTransport)(nil)
