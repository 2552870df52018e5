package options

import (
	"github.com/spf13/cobra"
)

// ListOptions captures filters for the get command.
type ListOptions struct {
	Tag   string
	Since string
	Wide  bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringVarP(&o.Tag, "tag", "t", "",
		"Only show entries carrying this tag.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		"Only show entries newer than this window, like 1w or 3d.")
	cmd.Flags().BoolVarP(&o.Wide, "wide", "w", false,
		"Render entries as a wide table.")
}
