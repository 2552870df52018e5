package ai

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
)

// eventScanner watches a structured CLI's stdout for newline-delimited JSON
// events as the chunks stream in. It cares about two of them: the init event
// carrying the resumable thread identifier, and the result event carrying
// the final answer text. Everything else is ignored.
type eventScanner struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	threadID string
	result   string
	sawEvent bool
}

type streamEvent struct {
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	SessionID string `json:"session_id"`
	Result    string `json:"result"`
	IsError   bool   `json:"is_error"`
}

// Feed appends a stdout chunk and scans any lines it completed. Safe to call
// from the runner's reader goroutine.
func (sc *eventScanner) Feed(chunk []byte) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.buf.Write(chunk)
	for {
		line, err := sc.buf.ReadString('\n')
		if err != nil {
			// Partial line; put it back and wait for the next chunk.
			sc.buf.WriteString(line)
			return
		}
		sc.scanLine(line)
	}
}

// Flush scans whatever is left after the stream closed.
func (sc *eventScanner) Flush() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.buf.Len() > 0 {
		sc.scanLine(sc.buf.String())
		sc.buf.Reset()
	}
}

func (sc *eventScanner) scanLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return
	}
	var ev streamEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return
	}
	sc.sawEvent = true
	switch {
	case ev.Type == "system" && ev.Subtype == "init" && ev.SessionID != "":
		sc.threadID = ev.SessionID
	case ev.Type == "result" && !ev.IsError:
		sc.result = ev.Result
	}
}

// ThreadID returns the captured resume-token candidate, if any.
func (sc *eventScanner) ThreadID() string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.threadID
}

// Result returns the answer text from the result event, if one was seen.
func (sc *eventScanner) Result() string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.result
}

// SawEvent reports whether any well-formed JSON event was decoded, which
// distinguishes a structured stream with no result from plain-text output.
func (sc *eventScanner) SawEvent() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sawEvent
}
