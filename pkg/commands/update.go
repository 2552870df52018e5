package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/update"
	"tableflip.dev/daybook/pkg/store"
)

func addUpdate(topLevel *cobra.Command) {
	to := &options.TagOptions{}
	id := ""
	body := ""

	cmd := &cobra.Command{
		Use:     "update <id> <body...>",
		Aliases: []string{"edit"},
		Short:   "Replace an entry's body and tags",
		Example: `
daybook update 171dff69 the corrected text -t followup
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires an id and a new body")
			}
			id = args[0]
			body = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := update.Update{
				ID:          id,
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
