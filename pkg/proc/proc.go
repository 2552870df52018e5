// Package proc is a small subprocess helper: spawn, feed stdin, collect
// buffered stdout/stderr until exit. Callers that need to react to output as
// it streams hook OnStdout.
package proc

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Request describes one subprocess invocation.
type Request struct {
	Path  string
	Args  []string
	Dir   string
	Stdin string

	// OnStdout observes stdout chunks as they arrive, before exit. May be
	// nil. Called from the reader goroutine; the callback must not block.
	OnStdout func(chunk []byte)
}

// Result is the outcome of a finished subprocess.
//
// A spawn failure (binary missing, permission denied) is reported as a
// normal Result with ExitCode -1 and Err set, never as a panic, so callers
// handle every outcome through one path.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Process is a running (or already failed) subprocess. Wait blocks until it
// finishes and is safe to call once; Signal may be called at any time.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu     sync.Mutex
	result Result
}

// Start launches the subprocess, writes Stdin to it, and begins collecting
// output. It never returns an error: spawn failures surface through Wait.
func Start(req Request) *Process {
	p := &Process{done: make(chan struct{})}

	cmd := exec.Command(req.Path, req.Args...)
	cmd.Dir = req.Dir
	p.cmd = cmd

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		p.finish(Result{ExitCode: -1, Err: err})
		return p
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		p.finish(Result{ExitCode: -1, Err: err})
		return p
	}

	if err := cmd.Start(); err != nil {
		logrus.WithField("path", req.Path).WithError(err).Debug("proc: spawn failed")
		p.finish(Result{ExitCode: -1, Err: err})
		return p
	}

	go func() {
		_, _ = io.WriteString(stdin, req.Stdin)
		_ = stdin.Close()
	}()

	go func() {
		var out strings.Builder
		buf := make([]byte, 32*1024)
		for {
			n, rerr := stdout.Read(buf)
			if n > 0 {
				out.Write(buf[:n])
				if req.OnStdout != nil {
					req.OnStdout(buf[:n])
				}
			}
			if rerr != nil {
				break
			}
		}

		werr := cmd.Wait()
		code := 0
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		var resultErr error
		if werr != nil {
			if _, ok := werr.(*exec.ExitError); !ok {
				resultErr = werr
			}
		}
		logrus.WithFields(logrus.Fields{"path": req.Path, "exit": code}).Debug("proc: exited")
		p.finish(Result{ExitCode: code, Stdout: out.String(), Stderr: stderr.String(), Err: resultErr})
	}()

	return p
}

// Run is the blocking convenience wrapper over Start and Wait.
func Run(req Request) Result {
	return Start(req).Wait()
}

// Wait blocks until the process exits and returns its Result.
func (p *Process) Wait() Result {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Signal asks the process to stop. Best effort: an ignored signal is not
// escalated to a kill.
func (p *Process) Signal() {
	select {
	case <-p.done:
		return
	default:
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(os.Interrupt)
	}
}

func (p *Process) finish(r Result) {
	p.mu.Lock()
	p.result = r
	p.mu.Unlock()
	close(p.done)
}
