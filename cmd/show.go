package cmd

import (
	"errors"
	"fmt"

	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved conversation",
	Long:  `Print the full message history of a saved session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		messages, err := store.Load(args[0])
		if err != nil {
			var notFound *internal.NotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("no session named %q; run `sidetalk list`", args[0])
			}
			return fmt.Errorf("failed to load session: %w", err)
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d messages)", internal.SanitizeName(args[0]), len(messages))))
		fmt.Println()
		for _, msg := range messages {
			printTurn(msg)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
