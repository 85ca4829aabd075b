// Package bus carries the control protocol between the s2t CLI and daemon:
// single-letter commands with an optional argument on a unix socket, one
// request per connection, response delimited by EOF so multi-line payloads
// like the transcript fit.
package bus

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const SockName = "control.sock"
const PidName = "s2t.pid"
const ProtoVer = "1.0"

// Control commands.
const (
	CmdStart      byte = 'r'
	CmdStop       byte = 'p'
	CmdToggle     byte = 't'
	CmdStatus     byte = 's'
	CmdTranscript byte = 'g'
	CmdEdit       byte = 'm'
	CmdClear      byte = 'x'
	CmdCopy       byte = 'c'
	CmdExport     byte = 'e'
	CmdLanguage   byte = 'l'
	CmdLanguages  byte = 'L'
	CmdVersion    byte = 'v'
	CmdQuit       byte = 'q'
)

// ~/.cache/s2t/control.sock
func SockPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "s2t", SockName), nil
}

// ~/.cache/s2t/s2t.pid
func PidPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "s2t", PidName), nil
}

func Listen() (net.Listener, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(sp), 0o700); err != nil {
		return nil, err
	}
	_ = os.Remove(sp) // stale socket from last run
	return net.Listen("unix", sp)
}

func Dial() (net.Conn, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	return net.Dial("unix", sp)
}

// SendCommand sends one command plus optional argument and reads the full
// response; the daemon closes the connection after answering. Newlines in the
// argument are flattened to spaces because the request is one line.
func SendCommand(cmd byte, arg string) (string, error) {
	c, err := Dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	line := string(cmd)
	if arg != "" {
		arg = strings.ReplaceAll(arg, "\n", " ")
		line += " " + arg
	}
	if _, err := c.Write([]byte(line + "\n")); err != nil {
		return "", err
	}

	resp, err := io.ReadAll(c)
	return string(resp), err
}

// ParseRequest splits a request line into command byte and argument.
func ParseRequest(line string) (byte, string, error) {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return 0, "", fmt.Errorf("empty request")
	}
	cmd := line[0]
	arg := ""
	if len(line) > 1 {
		arg = strings.TrimPrefix(line[1:], " ")
	}
	return cmd, arg, nil
}

func CheckExistingDaemon() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}

	pidData, err := os.ReadFile(pidPath)
	if os.IsNotExist(err) {
		return nil // no existing daemon
	}
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(string(pidData))
	if err != nil {
		return nil // invalid pid file, assume stale
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}

	// Try to signal the process to check if it's alive
	if err := proc.Signal(os.Signal(nil)); err != nil {
		return nil // process not alive, stale pid file
	}

	return fmt.Errorf("daemon already running with PID %d", pid)
}

func CreatePidFile() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(pidPath), 0o700); err != nil {
		return err
	}

	pid := os.Getpid()
	return os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), 0o600)
}

func RemovePidFile() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}
	return os.Remove(pidPath)
}
