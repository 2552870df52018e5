package ai

import (
	"strings"

	"tableflip.dev/daybook/pkg/proc"
)

// historyWindow bounds how many completed turns a rebuilt prompt carries.
const historyWindow = 12

type turn struct {
	user      string
	assistant string
}

// session is one conversation with an external AI CLI. All mutable fields
// are guarded by the owning Manager's lock; at most one subprocess runs per
// session at a time.
type session struct {
	id      string
	cliPath string
	flavor  Flavor

	instruction    string
	needsBootstrap bool

	alive bool
	busy  bool

	resumeToken string
	history     []turn
	queue       []string

	lastExitCode int
	lastError    string

	running Handle
}

// buildRequest assembles the subprocess invocation for one turn. With a
// valid resume token only the new input is sent and the process is asked to
// pick up its server-side thread; otherwise the prompt is rebuilt from the
// instruction and a bounded window of recent history.
func (s *session) buildRequest(input string) proc.Request {
	req := proc.Request{Path: s.cliPath}

	switch s.flavor {
	case FlavorPrint:
		req.Args = []string{"-p"}
		req.Stdin = s.prompt(input)
	default:
		req.Args = []string{"-p", "--output-format", "stream-json", "--verbose"}
		if s.resumeToken != "" {
			req.Args = append(req.Args, "--resume", s.resumeToken)
			req.Stdin = input
		} else {
			req.Stdin = s.prompt(input)
		}
	}
	return req
}

// prompt concatenates the system instruction, recent history oldest first,
// and the new input into one payload.
func (s *session) prompt(input string) string {
	var b strings.Builder
	if s.instruction != "" {
		b.WriteString(s.instruction)
		b.WriteString("\n\n")
	}
	hist := s.history
	if len(hist) > historyWindow {
		hist = hist[len(hist)-historyWindow:]
	}
	for _, t := range hist {
		b.WriteString("User: ")
		b.WriteString(t.user)
		b.WriteString("\nAssistant: ")
		b.WriteString(t.assistant)
		b.WriteString("\n\n")
	}
	b.WriteString(input)
	return b.String()
}

// answer extracts the reply text from a finished turn.
func (s *session) answer(res proc.Result, sc *eventScanner) string {
	if s.flavor == FlavorSession {
		if r := sc.Result(); r != "" {
			return strings.TrimSpace(r)
		}
		if sc.SawEvent() {
			return ""
		}
	}
	return strings.TrimSpace(res.Stdout)
}
