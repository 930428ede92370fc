package cmd

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that sidetalk can reach its storage, model and extractors",
	Long: `Check the health of sidetalk by verifying:
  • Session store accessibility and session count
  • Model service reachability
  • OCR and PDF extraction binaries

Failures here explain degraded behavior: an unreachable model service turns
replies into visible error turns, and missing extractors make attachments
contribute no context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("sidetalk health check"))
		fmt.Println()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		healthy := true

		// Step 1: session store
		fmt.Println(infoStyle.Render("Step 1: Checking session store..."))
		store, closeStore, err := openStore(cfg)
		if err != nil {
			fmt.Println(errorStyle.Render("✗ Store unavailable:"), err)
			healthy = false
		} else {
			infos, err := store.List()
			closeStore()
			if err != nil {
				fmt.Println(errorStyle.Render("✗ Store listing failed:"), err)
				healthy = false
			} else {
				fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s store OK, %d session(s)", cfg.Store, len(infos))))
			}
		}
		fmt.Println()

		// Step 2: model service
		fmt.Println(infoStyle.Render("Step 2: Checking model service..."))
		client := internal.NewOllamaClient(cfg.Host, cfg.Model)
		if err := client.Ping(cmd.Context()); err != nil {
			fmt.Println(errorStyle.Render("✗ Model service:"), err)
			healthy = false
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ Model service reachable at %s", cfg.Host)))
		}
		fmt.Println()

		// Step 3: extractor binaries
		fmt.Println(infoStyle.Render("Step 3: Checking extraction binaries..."))
		for _, bin := range []string{"tesseract", "pdftotext"} {
			if _, err := exec.LookPath(bin); err != nil {
				fmt.Println(warningStyle.Render(fmt.Sprintf("⚠ %s not found; matching attachments will add no context", bin)))
			} else {
				fmt.Println(successStyle.Render("✓ " + bin + " available"))
			}
		}
		fmt.Println()

		if !healthy {
			return fmt.Errorf("health check found problems")
		}
		fmt.Println(successStyle.Render("All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
