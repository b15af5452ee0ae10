package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptPattern(t *testing.T) {
	matching := []string{
		"switch01#",
		"switch01>",
		"router(config)#",
		"router(config-if)#",
		"vyos@r1:~$",
		"fw01/pri/act# ",
	}
	for _, line := range matching {
		assert.True(t, promptPattern.MatchString(line), "expected prompt match: %q", line)
	}

	nonMatching := []string{
		"% Invalid input detected at '^' marker.",
		"Building configuration...",
		"interface GigabitEthernet0/1",
		"",
	}
	for _, line := range nonMatching {
		assert.False(t, promptPattern.MatchString(line), "unexpected prompt match: %q", line)
	}
}

func TestStripEcho(t *testing.T) {
	raw := "show version\r\nCisco IOS Software, Version 15.6(2)T\r\nswitch01#"
	assert.Equal(t, "Cisco IOS Software, Version 15.6(2)T",
		stripEcho("show version", raw))
}

func TestStripEchoWithoutEcho(t *testing.T) {
	raw := "Cisco IOS Software, Version 15.6(2)T\nswitch01#"
	assert.Equal(t, "Cisco IOS Software, Version 15.6(2)T",
		stripEcho("show version", raw))
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "switch01#", lastLine("show clock\r\n12:00:00 UTC\r\nswitch01#\r\n"))
	assert.Equal(t, "switch01>", lastLine("switch01>"))
	assert.Equal(t, "", lastLine(""))
}

func TestDecodeResponse(t *testing.T) {
	assert.Equal(t, "plain ascii", decodeResponse([]byte("plain ascii")))

	// Latin-1 banner byte for "é" is invalid UTF-8 on its own.
	assert.Equal(t, "café", decodeResponse([]byte{'c', 'a', 'f', 0xE9}))
}
