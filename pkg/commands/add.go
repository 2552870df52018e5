package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/add"
	"tableflip.dev/daybook/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TagOptions{}
	body := ""

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"new"},
		Short:   "Add an entry to today's day file",
		Example: `
daybook add fixed the flaky watcher test
daybook add -t work -t "#go" shipped the release
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires an entry body")
			}
			body = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := add.Add{
				Body:        body,
				Tags:        to.Tags,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddTagArgs(cmd, to)
	topLevel.AddCommand(cmd)
}
