package options

import (
	"github.com/spf13/cobra"
)

// ChatOptions captures AI session flags for the chat command.
type ChatOptions struct {
	CLIPath     string
	Instruction string
}

func AddChatArgs(cmd *cobra.Command, o *ChatOptions) {
	cmd.Flags().StringVar(&o.CLIPath, "cli", "",
		"Path to the AI CLI binary. Defaults to the configured aiCliPath.")
	cmd.Flags().StringVar(&o.Instruction, "instruction", "",
		"System instruction for the session. Defaults to the configured aiInstructionMarkdown.")
}
