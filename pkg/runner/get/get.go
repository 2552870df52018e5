package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
	"tableflip.dev/daybook/pkg/store"
	"tableflip.dev/daybook/pkg/timeutil"
)

type Get struct {
	Tag    string
	Since  string
	ShowID bool
	Wide   bool

	Persistence store.Persistence
}

func (n *Get) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not get, no persistence")
	}

	all := n.Persistence.List(ctx)
	if n.Tag != "" {
		all = n.filtered(all)
	}
	if n.Since != "" {
		window, err := timeutil.ParseWindow(n.Since)
		if err != nil {
			return err
		}
		cutoff := time.Now().Add(-window).UnixMilli()
		recent := make([]*entry.Entry, 0, len(all))
		for _, e := range all {
			if e.CreatedAt >= cutoff {
				recent = append(recent, e)
			}
		}
		all = recent
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}

	if n.Wide {
		pp.Table(all...)
		return nil
	}

	fmt.Println("")

	// Entries arrive newest first; keep that order while grouping by day.
	days := make([]string, 0)
	byDay := make(map[string][]*entry.Entry)
	for _, e := range all {
		if _, ok := byDay[e.Date]; !ok {
			days = append(days, e.Date)
		}
		byDay[e.Date] = append(byDay[e.Date], e)
	}

	for _, d := range days {
		pp.TitleWithCount(d, len(byDay[d]))
		pp.Day(byDay[d]...)
	}
	if len(days) == 0 {
		pp.Title("journal")
		pp.Day()
	}

	return nil
}

func (n *Get) filtered(all []*entry.Entry) []*entry.Entry {
	want := entry.NormalizeTags([]string{n.Tag})
	if len(want) == 0 {
		return all
	}
	c := make([]*entry.Entry, 0, len(all))
	for _, e := range all {
		for _, t := range e.Tags {
			if t == want[0] {
				c = append(c, e)
				break
			}
		}
	}
	return c
}
