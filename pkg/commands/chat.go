package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/ai"
	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/chat"
	"tableflip.dev/daybook/pkg/store"
)

func addChat(topLevel *cobra.Command) {
	co := &options.ChatOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Converse with the configured AI CLI",
		Long: "Starts a conversation session with an external AI CLI binary. " +
			"Type a message and wait for the reply; /quit or Ctrl-D ends the session.",
		Example: `
daybook chat
daybook chat --cli /usr/local/bin/claude
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			cliPath := co.CLIPath
			if cliPath == "" {
				cliPath = cfg.AICliPath
			}
			if cliPath == "" {
				return errors.New("no AI CLI configured; set aiCliPath or pass --cli")
			}
			instruction := co.Instruction
			if instruction == "" {
				instruction = cfg.AIInstructionMarkdown
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			m := ai.NewManager()
			defer m.Shutdown()

			s := chat.Chat{
				CLIPath:     cliPath,
				Instruction: instruction,
				Manager:     m,
				In:          os.Stdin,
				Out:         os.Stdout,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddChatArgs(cmd, co)
	topLevel.AddCommand(cmd)
}
