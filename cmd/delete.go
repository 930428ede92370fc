package cmd

import (
	"errors"
	"fmt"

	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved session",
	Long:    `Remove a saved session and its stored history. Deleting a missing session is reported but not an error.`,
	Args:    cobra.ExactArgs(1),
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

		if err := store.Delete(args[0]); err != nil {
			var notFound *internal.NotFoundError
			if errors.As(err, &notFound) {
				internal.LogWarn("%v", err)
				fmt.Printf("No session named %q\n", internal.SanitizeName(args[0]))
				return nil
			}
			return fmt.Errorf("delete failed: %w", err)
		}

		fmt.Printf("Deleted %q\n", internal.SanitizeName(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
