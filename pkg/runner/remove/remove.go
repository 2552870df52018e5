package remove

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/store"
)

type Remove struct {
	ID string

	Persistence store.Persistence
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not remove, no persistence")
	}

	ok, err := n.Persistence.Delete(ctx, n.ID)
	if err != nil {
		return err
	}

	f := color.New(color.Faint, color.Italic)
	if !ok {
		_, _ = f.Printf("no entry found with id %s\n", n.ID)
		return nil
	}
	_, _ = f.Printf("removed %s\n", n.ID)
	return nil
}
