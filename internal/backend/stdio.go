// ABOUTME: Spawns the backend process and wires its stdin/stdout to a stream transport
// ABOUTME: Backend stderr is forwarded line by line to the debug log

package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mauromedda/fossintosh-go/internal/log"
)

// stopGrace is how long Close waits for the backend to exit after its
// stdin is closed before killing it.
const stopGrace = 3 * time.Second

// StdioTransport is a StreamTransport bound to a spawned backend process.
type StdioTransport struct {
	*StreamTransport
	cmd *exec.Cmd
}

// NewStdioTransport starts command with args and extra env entries
// ("KEY=value") appended to the current environment.
func NewStdioTransport(ctx context.Context, command string, args []string, env []string) (*StdioTransport, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("backend command is empty")
	}

	cmd := exec.CommandContext(ctx, command, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting backend %q: %w", command, err)
	}
	log.Info("backend: started %q (pid %d)", command, cmd.Process.Pid)

	go forwardStderr(stderr)

	t := &StdioTransport{cmd: cmd}
	t.StreamTransport = newStreamTransport(stdout, stdin, t.wait)
	return t, nil
}

// wait reaps the process, killing it when it ignores the closed stdin.
func (t *StdioTransport) wait() error {
	exited := make(chan error, 1)
	go func() { exited <- t.cmd.Wait() }()

	select {
	case err := <-exited:
		return exitErr(err)
	case <-time.After(stopGrace):
		log.Warn("backend: did not exit within %s, killing", stopGrace)
		_ = t.cmd.Process.Kill()
		return exitErr(<-exited)
	}
}

func exitErr(err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) && !ee.Exited() {
		// Killed by a signal during shutdown.
		return nil
	}
	if err != nil {
		return fmt.Errorf("backend exited: %w", err)
	}
	return nil
}

func forwardStderr(r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		log.Debug("backend stderr: %s", s.Text())
	}
}
