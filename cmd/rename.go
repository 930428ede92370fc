package cmd

import (
	"errors"
	"fmt"

	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a saved session",
	Long: `Rename a saved session. The new name is sanitized to letters, digits,
spaces, underscores, hyphens and dots. Renaming to a name that already exists
is refused; renaming a session to its own name is a no-op.`,
	Args: cobra.ExactArgs(2),
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

		oldName, newName := args[0], internal.SanitizeName(args[1])
		if err := store.Rename(oldName, newName); err != nil {
			var collision *internal.NameCollisionError
			if errors.As(err, &collision) {
				return fmt.Errorf("a session named %q already exists; nothing was changed", newName)
			}
			var notFound *internal.NotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("no session named %q; run `sidetalk list`", oldName)
			}
			return fmt.Errorf("rename failed: %w", err)
		}

		fmt.Printf("Renamed %q to %q\n", internal.SanitizeName(oldName), newName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
