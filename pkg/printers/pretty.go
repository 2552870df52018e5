package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/daybook/pkg/entry"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69-f8b9-9dca-0000-000000000000  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" entry")
	default:
		_, _ = c.Println(" entries")
	}
}

// Day prints one day's entries, newest first as given.
func (pp *PrettyPrint) Day(entries ...*entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	ts := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Print(e.ID)
			_, _ = y.Print(strings.Repeat(" ", max(1, len(spacing)-len(e.ID))))
		}
		_, _ = ts.Print(e.Created)
		if len(e.Tags) > 0 {
			_, _ = y.Printf("  #%s", strings.Join(e.Tags, " #"))
		}
		_, _ = t.Println("")
		for _, line := range strings.Split(e.Body, "\n") {
			if pp.ShowID {
				_, _ = t.Print(spacing)
			}
			_, _ = t.Printf("  %s\n", line)
		}
	}
	_, _ = t.Println("")
}

// Table renders entries as a wide table, one row per entry.
func (pp *PrettyPrint) Table(entries ...*entry.Entry) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true

	table.AddRow("ID", "CREATED", "TAGS", "BODY")
	for _, e := range entries {
		table.AddRow(e.ID, e.Created, entry.JoinTags(e.Tags), e.Body)
	}
	fmt.Println(table)
}
