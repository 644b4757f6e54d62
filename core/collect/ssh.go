package collect

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

const defaultSSHPort = 22

// SSHTransport implements CommandTransport over SSH with password
// authentication. Every Run opens a fresh connection and session; network
// devices commonly cap session reuse, so no pooling happens here.
type SSHTransport struct {
	timeout time.Duration
}

// NewSSHTransport builds the transport with the configured per-device
// timeout.
func NewSSHTransport(cfg Config) *SSHTransport {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SSHTransport{timeout: timeout}
}

// Run executes one command on the target and returns its output.
func (t *SSHTransport) Run(ctx context.Context, target DeviceTarget, command string) (string, error) {
	if target.Username == "" {
		return "", fmt.Errorf("target %q has no ssh username", target.Name)
	}

	port := target.Port
	if port == 0 {
		port = defaultSSHPort
	}
	addr := net.JoinHostPort(target.Address(), fmt.Sprintf("%d", port))

	config := &ssh.ClientConfig{
		User:            target.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(target.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         t.timeout,
	}

	dialer := net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("ssh session on %s: %w", addr, err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return "", fmt.Errorf("command %q on %s: %w", command, target.Name, err)
	}
	return string(output), nil
}
