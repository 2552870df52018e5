package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/store"
)

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the settings document",
		Example: `
daybook config
daybook config save --data-dir ~/journal
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	dataDir := ""
	cliPath := ""
	instruction := ""
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the settings document to the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if cliPath != "" {
				cfg.AICliPath = cliPath
			}
			if instruction != "" {
				cfg.AIInstructionMarkdown = instruction
			}
			err = cfg.Save()
			return output.HandleError(err)
		},
	}
	save.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the day files.")
	save.Flags().StringVar(&cliPath, "ai-cli", "", "Path to the AI CLI binary.")
	save.Flags().StringVar(&instruction, "ai-instruction", "", "System instruction markdown for AI sessions.")
	cmd.AddCommand(save)

	topLevel.AddCommand(cmd)
}
