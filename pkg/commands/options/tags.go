// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// TagOptions captures the tag flags shared by add and update.
type TagOptions struct {
	Tags []string
}

// AddTagArgs wires tag flags on the provided command.
func AddTagArgs(cmd *cobra.Command, o *TagOptions) {
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Tag the entry. Repeatable; a leading # is optional.")
}
