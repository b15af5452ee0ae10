package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/scrapli/scrapligo/channel"
	"github.com/scrapli/scrapligo/driver/network"
	"github.com/scrapli/scrapligo/driver/options"
	"github.com/scrapli/scrapligo/platform"
)

// ScrapliConfig holds the settings for a scrapli-backed channel.
// Platform is a scrapli platform name such as "cisco_iosxe" or
// "arista_eos".
type ScrapliConfig struct {
	Host     string
	Port     int
	Platform string
	Username string
	Password string
	Timeout  time.Duration
}

// ScrapliTransport adapts a scrapligo network driver to the Transport
// contract. scrapli already knows per-platform prompt patterns and
// paging, which makes it the preferred backend when the platform is
// one it supports.
type ScrapliTransport struct {
	cfg     ScrapliConfig
	driver  *network.Driver
	channel *channel.Channel
	log     zerolog.Logger
}

// DialScrapli builds the platform driver and opens the connection.
func DialScrapli(cfg ScrapliConfig, logger zerolog.Logger) (*ScrapliTransport, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	p, err := platform.NewPlatform(
		cfg.Platform,
		cfg.Host,
		options.WithAuthNoStrictKey(),
		options.WithAuthUsername(cfg.Username),
		options.WithAuthPassword(cfg.Password),
		options.WithTimeoutOps(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create scrapli platform %q: %w", cfg.Platform, err)
	}

	driver, err := p.GetNetworkDriver()
	if err != nil {
		return nil, fmt.Errorf("get network driver: %w", err)
	}
	if err := driver.Open(); err != nil {
		return nil, fmt.Errorf("open connection to %s: %w", cfg.Host, err)
	}

	return &ScrapliTransport{
		cfg:     cfg,
		driver:  driver,
		channel: driver.Channel,
		log:     logger.With().Str("transport", "scrapli").Str("host", cfg.Host).Logger(),
	}, nil
}

// Send implements Transport.
func (t *ScrapliTransport) Send(ctx context.Context, command string, opts SendOptions) (string, error) {
	if t.driver == nil {
		return "", errors.New("scrapli transport is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.log.Trace().Str("command", command).Msg("sent")

	switch {
	case opts.SendOnly:
		input := []byte(command)
		if !opts.NoNewline {
			input = append(input, '\n')
		}
		if err := t.channel.WriteAndReturn(input, false); err != nil {
			t.Close()
			return "", fmt.Errorf("write command: %w", err)
		}
		return "", nil

	case opts.Prompt != "":
		events := []*channel.SendInteractiveEvent{
			{ChannelInput: command, ChannelResponse: opts.Prompt, HideInput: false},
			{ChannelInput: opts.Answer, ChannelResponse: "", HideInput: false},
		}
		raw, err := t.channel.SendInteractive(events)
		if err != nil {
			t.Close()
			return "", fmt.Errorf("interactive command failed: %w", err)
		}
		return decodeResponse(raw), nil

	default:
		resp, err := t.driver.SendCommand(command)
		if err != nil {
			t.Close()
			return "", fmt.Errorf("command failed: %w", err)
		}
		return resp.Result, nil
	}
}

// GetPrompt implements Transport.
func (t *ScrapliTransport) GetPrompt(ctx context.Context) (string, error) {
	if t.driver == nil {
		return "", errors.New("scrapli transport is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.driver.GetPrompt()
}

// Close implements Transport.
func (t *ScrapliTransport) Close() error {
	if t.driver == nil {
		return nil
	}
	err := t.driver.Close()
	t.driver = nil
	t.channel = nil
	return err
}

var _ Transport = (*ScrapliTransport)(nil)
