package chat

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/ai"
	"tableflip.dev/daybook/pkg/proc"
)

type doneHandle struct{ res proc.Result }

func (h doneHandle) Wait() proc.Result { return h.res }
func (h doneHandle) Signal()           {}

func TestChatLoop(t *testing.T) {
	var reqs []proc.Request
	m := ai.NewManagerWithRunner(func(req proc.Request) ai.Handle {
		reqs = append(reqs, req)
		return doneHandle{res: proc.Result{ExitCode: 0, Stdout: "hi there\n"}}
	})

	var out bytes.Buffer
	c := Chat{
		CLIPath:      "/usr/bin/mockcli",
		Instruction:  "you are concise",
		PollInterval: 5 * time.Millisecond,
		Manager:      m,
		In:           strings.NewReader("hello\n/quit\n"),
		Out:          &out,
	}

	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}

	// One subprocess turn: the bootstrap send configures, it never spawns.
	if len(reqs) != 1 {
		t.Fatalf("expected 1 subprocess turn, got %d", len(reqs))
	}
	if !strings.Contains(reqs[0].Stdin, "you are concise") || !strings.Contains(reqs[0].Stdin, "hello") {
		t.Fatalf("prompt = %q", reqs[0].Stdin)
	}
	if !strings.Contains(out.String(), "hi there") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestChatRequiresManager(t *testing.T) {
	c := Chat{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	if err := c.Do(context.Background()); err == nil {
		t.Fatal("expected an error without a manager")
	}
}
