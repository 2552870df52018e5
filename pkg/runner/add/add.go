package add

import (
	"context"
	"errors"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
	"tableflip.dev/daybook/pkg/store"
)

type Add struct {
	Body string
	Tags []string

	Persistence store.Persistence
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}

	e, err := n.Persistence.Add(ctx, n.Body, n.Tags)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Title(e.Date)

	day := make([]*entry.Entry, 0)
	for _, x := range n.Persistence.List(ctx) {
		if x.Date == e.Date {
			day = append(day, x)
		}
	}
	pp.Day(day...)

	return nil
}
