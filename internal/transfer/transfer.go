// Package transfer moves files to and from devices over an existing
// SSH connection. It is a thin pass-through at the edge of the
// protocol layer: no cliconf logic lives here.
package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/kestrelnet/cliconf/pkg/utils"
)

// Supported transfer protocols.
const (
	ProtocolSCP  = "scp"
	ProtocolSFTP = "sftp"
)

// CopyFile uploads a local file to the device.
func CopyFile(client *ssh.Client, source, destination, protocol string) error {
	switch protocol {
	case ProtocolSFTP:
		return sftpCopy(client, source, destination)
	case ProtocolSCP:
		return scpCopy(client, source, destination)
	default:
		return utils.NewInvalidArgument("protocol", fmt.Sprintf("%q is not one of scp, sftp", protocol))
	}
}

// GetFile downloads a file from the device.
func GetFile(client *ssh.Client, source, destination, protocol string) error {
	switch protocol {
	case ProtocolSFTP:
		return sftpGet(client, source, destination)
	case ProtocolSCP:
		return scpGet(client, source, destination)
	default:
		return utils.NewInvalidArgument("protocol", fmt.Sprintf("%q is not one of scp, sftp", protocol))
	}
}

func sftpCopy(client *ssh.Client, source, destination string) error {
	sc, err := sftp.NewClient(client)
	if err != nil {
		return fmt.Errorf("open sftp subsystem: %w", err)
	}
	defer sc.Close()

	local, err := os.Open(source)
	if err != nil {
		return err
	}
	defer local.Close()

	remote, err := sc.Create(destination)
	if err != nil {
		return fmt.Errorf("create %s on device: %w", destination, err)
	}
	defer remote.Close()

	if _, err := io.Copy(remote, local); err != nil {
		return fmt.Errorf("copy to %s: %w", destination, err)
	}
	return nil
}

func sftpGet(client *ssh.Client, source, destination string) error {
	sc, err := sftp.NewClient(client)
	if err != nil {
		return fmt.Errorf("open sftp subsystem: %w", err)
	}
	defer sc.Close()

	remote, err := sc.Open(source)
	if err != nil {
		return fmt.Errorf("open %s on device: %w", source, err)
	}
	defer remote.Close()

	local, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer local.Close()

	if _, err := io.Copy(local, remote); err != nil {
		return fmt.Errorf("copy from %s: %w", source, err)
	}
	return nil
}

// scpCopy speaks the scp sink protocol: one C-record header, the file
// bytes, and a zero byte, each acknowledged by the remote side.
func scpCopy(client *ssh.Client, source, destination string) error {
	local, err := os.Open(source)
	if err != nil {
		return err
	}
	defer local.Close()

	info, err := local.Stat()
	if err != nil {
		return err
	}

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open scp session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		return err
	}

	if err := session.Start(fmt.Sprintf("scp -t %s", destination)); err != nil {
		return fmt.Errorf("start remote scp: %w", err)
	}

	reader := bufio.NewReader(stdout)
	if err := scpAck(reader); err != nil {
		return err
	}

	header := fmt.Sprintf("C0644 %d %s\n", info.Size(), path.Base(destination))
	if _, err := io.WriteString(stdin, header); err != nil {
		return err
	}
	if err := scpAck(reader); err != nil {
		return err
	}
	if _, err := io.Copy(stdin, local); err != nil {
		return err
	}
	if _, err := stdin.Write([]byte{0}); err != nil {
		return err
	}
	if err := scpAck(reader); err != nil {
		return err
	}
	stdin.Close()
	return session.Wait()
}

// scpGet speaks the scp source protocol for a single file.
func scpGet(client *ssh.Client, source, destination string) error {
	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open scp session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		return err
	}

	if err := session.Start(fmt.Sprintf("scp -f %s", source)); err != nil {
		return fmt.Errorf("start remote scp: %w", err)
	}

	reader := bufio.NewReader(stdout)
	if _, err := stdin.Write([]byte{0}); err != nil {
		return err
	}

	header, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read scp header: %w", err)
	}
	if !strings.HasPrefix(header, "C") {
		return fmt.Errorf("unexpected scp header %q", strings.TrimSpace(header))
	}
	fields := strings.SplitN(strings.TrimSpace(header), " ", 3)
	if len(fields) != 3 {
		return fmt.Errorf("malformed scp header %q", strings.TrimSpace(header))
	}
	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed scp size in %q", strings.TrimSpace(header))
	}

	if _, err := stdin.Write([]byte{0}); err != nil {
		return err
	}

	local, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer local.Close()

	if _, err := io.CopyN(local, reader, size); err != nil {
		return fmt.Errorf("copy from %s: %w", source, err)
	}
	if err := scpAck(reader); err != nil {
		return err
	}
	if _, err := stdin.Write([]byte{0}); err != nil {
		return err
	}
	stdin.Close()
	return session.Wait()
}

// scpAck reads one status byte; 1 and 2 prefix a textual error line.
func scpAck(reader *bufio.Reader) error {
	code, err := reader.ReadByte()
	if err != nil {
		return fmt.Errorf("read scp ack: %w", err)
	}
	if code == 0 {
		return nil
	}
	msg, _ := reader.ReadString('\n')
	return fmt.Errorf("scp error: %s", strings.TrimSpace(msg))
}
