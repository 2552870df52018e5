package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tableflip.dev/daybook/pkg/ai"
)

// DefaultPollInterval is the cadence for draining session output. Reply
// latency is bounded below by this, not by anything the session controls.
const DefaultPollInterval = 250 * time.Millisecond

type Chat struct {
	CLIPath      string
	Instruction  string
	PollInterval time.Duration

	Manager *ai.Manager
	In      io.Reader
	Out     io.Writer
}

// Do runs a read-send-poll loop until EOF or /quit. The first send after
// start is the bootstrap turn: it hands the session its system instruction
// and produces no reply.
func (n *Chat) Do(ctx context.Context) error {
	if n.Manager == nil {
		return errors.New("can not chat, no session manager")
	}

	id, err := n.Manager.Start(n.CLIPath)
	if err != nil {
		return err
	}
	defer func() { _, _ = n.Manager.Stop(id) }()

	if _, err := n.Manager.Send(id, n.Instruction); err != nil {
		return err
	}

	poll := n.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	scanner := bufio.NewScanner(n.In)
	fmt.Fprint(n.Out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			break
		}
		if line == "" {
			fmt.Fprint(n.Out, "> ")
			continue
		}

		if _, err := n.Manager.Send(id, line); err != nil {
			return err
		}
		if err := n.drain(ctx, id, poll); err != nil {
			return err
		}
		fmt.Fprint(n.Out, "> ")
	}
	return scanner.Err()
}

func (n *Chat) drain(ctx context.Context, id string, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			out, err := n.Manager.ReadOutput(id)
			if err != nil {
				return err
			}
			if out.Chunk != "" {
				fmt.Fprintln(n.Out, out.Chunk)
			}
			if !out.Busy {
				return nil
			}
		}
	}
}
