package watch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/daybook/pkg/store"
)

type Watch struct {
	Persistence store.Persistence
	Out         io.Writer
}

// Do streams day-file change notifications until the context is cancelled.
func (n *Watch) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not watch, no persistence")
	}

	ch, err := n.Persistence.Watch(ctx)
	if err != nil {
		return err
	}

	for ev := range ch {
		switch ev.Type {
		case store.EventDayChanged:
			fmt.Fprintf(n.Out, "changed %s\n", ev.Date)
		case store.EventStoreInvalidated:
			fmt.Fprintln(n.Out, "journal changed")
		}
	}
	return nil
}
