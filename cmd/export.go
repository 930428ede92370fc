package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sidetalk/sidetalk/internal"
	"github.com/sidetalk/sidetalk/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportOutput  string
	exportSession string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export saved sessions to various formats (jsonl, md, yaml, json).

By default every session is exported, one file per session. Use --session to
export a single session by name.`,
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

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		var names []string
		if exportSession != "" {
			names = []string{internal.SanitizeName(exportSession)}
		} else {
			infos, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			for _, info := range infos {
				names = append(names, info.Name)
			}
		}

		if len(names) == 0 {
			fmt.Println("No sessions to export")
			return nil
		}

		if err := os.MkdirAll(exportOutput, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, name := range names {
			messages, err := store.Load(name)
			if err != nil {
				internal.LogWarn("Skipping %q: %v", name, err)
				continue
			}
			session := &internal.Session{Name: name, Messages: messages}

			path := filepath.Join(exportOutput, name+"."+exporter.Extension())
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(session, f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export %q: %w", name, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			internal.LogInfo("Exported %q to %s", name, path)
			exported++
		}

		fmt.Printf("Exported %d session(s) to %s\n", exported, exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: jsonl, md, yaml, json")
	exportCmd.Flags().StringVar(&exportOutput, "output", "exports", "Output directory")
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Export a single session by name")
}
