package update

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/printers"
	"tableflip.dev/daybook/pkg/store"
)

type Update struct {
	ID   string
	Body string
	Tags []string

	Persistence store.Persistence
}

func (n *Update) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not update, no persistence")
	}

	ok, err := n.Persistence.Update(ctx, n.ID, n.Body, n.Tags)
	if err != nil {
		return err
	}
	if !ok {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Printf("no entry found with id %s\n", n.ID)
		return nil
	}

	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	for _, e := range n.Persistence.List(ctx) {
		if e.ID == n.ID {
			pp.Title(e.Date)
			pp.Day(e)
			break
		}
	}

	return nil
}
