// Package ai drives external AI CLI binaries as multi-turn conversational
// sessions. Callers start a session, send one turn at a time, and poll
// ReadOutput to drain replies; the manager never pushes.
package ai

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tableflip.dev/daybook/pkg/proc"
)

var (
	ErrSessionNotFound = errors.New("ai: session not found")
	ErrSessionEnded    = errors.New("ai: session ended")
	ErrSessionBusy     = errors.New("ai: session busy")
)

// Handle is a running subprocess turn as the manager sees it.
type Handle interface {
	Wait() proc.Result
	Signal()
}

// Runner launches one subprocess turn. Swapped for a fake in tests.
type Runner func(proc.Request) Handle

// Output is the snapshot returned by ReadOutput: the drained text plus the
// session state flags the poller steers by.
type Output struct {
	Chunk    string
	Alive    bool
	Busy     bool
	ExitCode int
	Error    string
}

// Manager owns the session registry. All session mutation happens under its
// lock; subprocess turns run on their own goroutine and report back through
// completeTurn.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	runner   Runner
	log      *logrus.Entry
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		runner:   func(req proc.Request) Handle { return proc.Start(req) },
		log:      logrus.WithField("component", "ai"),
	}
}

// NewManagerWithRunner is NewManager with the subprocess launcher swapped
// out. Lets callers and tests script turns without spawning anything.
func NewManagerWithRunner(r Runner) *Manager {
	m := NewManager()
	if r != nil {
		m.runner = r
	}
	return m
}

// Start registers a new session for the given CLI binary. No subprocess is
// spawned; the first Send configures the session instead of running a turn.
func (m *Manager) Start(cliPath string) (string, error) {
	if strings.TrimSpace(cliPath) == "" {
		return "", errors.New("ai: cli path required")
	}

	s := &session{
		id:             uuid.NewString(),
		cliPath:        cliPath,
		flavor:         DetectFlavor(cliPath),
		needsBootstrap: true,
		alive:          true,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"session": s.id, "flavor": s.flavor.String()}).Debug("session started")
	return s.id, nil
}

// Send submits one turn. The first call after Start captures the system
// instruction and returns without spawning anything. Turns are strictly
// serialized per session: callers must see busy=false from ReadOutput before
// sending again.
func (m *Manager) Send(sessionID, input string) (bool, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return false, ErrSessionNotFound
	}
	if !s.alive {
		m.mu.Unlock()
		return false, ErrSessionEnded
	}
	if s.busy {
		m.mu.Unlock()
		return false, ErrSessionBusy
	}

	if s.needsBootstrap {
		s.instruction = input
		s.needsBootstrap = false
		m.mu.Unlock()
		return true, nil
	}

	s.busy = true
	req := s.buildRequest(input)
	m.mu.Unlock()

	sc := &eventScanner{}
	if s.flavor == FlavorSession {
		req.OnStdout = sc.Feed
	}

	h := m.runner(req)

	m.mu.Lock()
	if cur, registered := m.sessions[sessionID]; !registered || cur != s || !s.alive {
		// Stopped while spawning; don't leak the process.
		m.mu.Unlock()
		h.Signal()
		go h.Wait()
		return false, ErrSessionEnded
	}
	s.running = h
	m.mu.Unlock()

	go m.completeTurn(s, input, sc, h)
	return true, nil
}

// completeTurn waits for a turn's subprocess and applies the outcome. The
// resume-token candidate is committed only here, never mid-stream, so a
// token from a failed turn is never kept.
func (m *Manager) completeTurn(s *session, input string, sc *eventScanner, h Handle) {
	res := h.Wait()
	sc.Flush()
	answer := s.answer(res, sc)

	m.mu.Lock()
	defer m.mu.Unlock()

	s.busy = false
	s.running = nil
	s.lastExitCode = res.ExitCode
	s.lastError = ""
	if res.Err != nil {
		s.lastError = res.Err.Error()
	}

	if res.ExitCode == 0 && res.Err == nil && answer != "" {
		s.history = append(s.history, turn{user: input, assistant: answer})
		s.queue = append(s.queue, answer)
		if s.flavor == FlavorSession {
			if tid := sc.ThreadID(); tid != "" {
				s.resumeToken = tid
			}
		}
		m.log.WithFields(logrus.Fields{"session": s.id, "exit": res.ExitCode}).Debug("turn complete")
		return
	}

	// Soft failure: the session survives, the next turn starts a fresh
	// context, and the caller sees a diagnostic instead of an answer.
	s.resumeToken = ""
	diag := strings.TrimSpace(res.Stderr)
	if diag == "" {
		diag = strings.TrimSpace(res.Stdout)
	}
	if diag == "" {
		diag = fmt.Sprintf("ai: turn failed with exit code %d", res.ExitCode)
	}
	s.queue = append(s.queue, diag)
	m.log.WithFields(logrus.Fields{"session": s.id, "exit": res.ExitCode}).Debug("turn soft-failed")
}

// ReadOutput atomically drains the session's pending output and returns it
// with the current state flags. Designed to be polled on a short interval.
func (m *Manager) ReadOutput(sessionID string) (Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return Output{}, ErrSessionNotFound
	}

	chunk := strings.Join(s.queue, "\n")
	s.queue = nil

	return Output{
		Chunk:    chunk,
		Alive:    s.alive,
		Busy:     s.busy,
		ExitCode: s.lastExitCode,
		Error:    s.lastError,
	}, nil
}

// Stop ends a session: any running turn gets a best-effort termination
// signal and the session leaves the registry.
func (m *Manager) Stop(sessionID string) (bool, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return false, ErrSessionNotFound
	}
	s.alive = false
	s.busy = false
	h := s.running
	s.running = nil
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if h != nil {
		h.Signal()
	}
	m.log.WithField("session", sessionID).Debug("session stopped")
	return true, nil
}

// Shutdown signals every live session's subprocess and clears the registry
// so no orphan processes survive the host.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	var handles []Handle
	for id, s := range m.sessions {
		s.alive = false
		s.busy = false
		if s.running != nil {
			handles = append(handles, s.running)
			s.running = nil
		}
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, h := range handles {
		h.Signal()
	}
}
