package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	hostFlag   string
	modelFlag  string
	historyDir string
	storeKind  string
	langFlag   string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sidetalk",
	Short: "Chat with a local model, with saved sessions and document context",
	Long: `A CLI chat assistant backed by a locally-hosted model service.

Conversations are saved as named sessions you can list, resume, rename,
delete and export. Attach an image or PDF to a turn and its extracted text
is folded into the next question exactly once.

Quick Start:
  sidetalk chat                    # Start or resume a conversation
  sidetalk list                    # List saved sessions
  sidetalk show <name>             # Print a saved conversation
  sidetalk export --format md      # Export sessions as Markdown

Settings come from flags, then ~/.sidetalk.yaml, then built-in defaults.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.sidetalk.yaml)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Model service base URL (default http://localhost:11434)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model identifier (default llama2)")
	rootCmd.PersistentFlags().StringVar(&historyDir, "history", "", "Session history directory")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Session store backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "OCR language hint (default eng)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig merges command-line flags over the config file and defaults.
func loadConfig() (internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if hostFlag != "" {
		cfg.Host = hostFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if historyDir != "" {
		cfg.HistoryDir = historyDir
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	if langFlag != "" {
		cfg.OCRLanguage = langFlag
	}
	return cfg, nil
}

// openStore creates the configured session store backend.
func openStore(cfg internal.Config) (internal.SessionStore, func(), error) {
	switch cfg.Store {
	case "", "file":
		store, err := internal.NewFileStore(cfg.HistoryDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history directory: %w", err)
		}
		return store, func() {}, nil
	case "sqlite":
		if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		store, err := internal.OpenSQLiteStore(filepath.Join(cfg.HistoryDir, "sessions.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session database: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s (supported: file, sqlite)", cfg.Store)
	}
}
