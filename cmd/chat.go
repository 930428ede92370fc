package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sidetalk/sidetalk/internal"
	"github.com/spf13/cobra"
)

var (
	chatSession  string
	chatAttach   string
	chatNoStream bool
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the configured model.

Commands inside the session:
  /attach <path>   Attach an image or PDF; its text is injected into the
                   next question only
  /detach          Drop the pending attachment
  /new             Start a fresh session
  /sessions        List saved sessions
  /quit            Leave the chat

Use --session to resume a saved session by name.`,
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

		client := internal.NewOllamaClient(cfg.Host, cfg.Model)
		ctl := internal.NewController(store, client, internal.NewCommandExtractor(), cfg)

		if chatSession != "" {
			if err := ctl.Choose(chatSession); err != nil {
				return fmt.Errorf("failed to load session %q: %w", chatSession, err)
			}
			for _, msg := range ctl.Messages() {
				printTurn(msg)
			}
		} else {
			ctl.NewChat()
		}

		if chatAttach != "" {
			if err := attachFile(ctl, cfg, chatAttach); err != nil {
				return err
			}
		}

		fmt.Println(noticeStyle.Render(fmt.Sprintf("Session: %s (model %s at %s)", ctl.ActiveName(), cfg.Model, cfg.Host)))
		fmt.Println(noticeStyle.Render("Type a message, /attach <path>, or /quit"))

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print(promptStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			switch {
			case line == "":
				continue
			case line == "/quit", line == "/exit":
				return nil
			case line == "/new":
				session := ctl.NewChat()
				fmt.Println(noticeStyle.Render("Started " + session.Name))
				continue
			case line == "/detach":
				ctl.ClearAttachment()
				fmt.Println(noticeStyle.Render("Attachment cleared"))
				continue
			case line == "/sessions":
				infos, err := ctl.Sessions()
				if err != nil {
					internal.LogError("Failed to list sessions: %v", err)
					continue
				}
				for _, info := range infos {
					fmt.Println(noticeStyle.Render(fmt.Sprintf("  %s (%d messages)", info.Name, info.MessageCount)))
				}
				continue
			case strings.HasPrefix(line, "/attach "):
				path := strings.TrimSpace(strings.TrimPrefix(line, "/attach "))
				if err := attachFile(ctl, cfg, path); err != nil {
					internal.LogError("Attach failed: %v", err)
				}
				continue
			}

			if err := sendTurn(cmd, ctl, line); err != nil {
				return err
			}
		}
	},
}

func sendTurn(cmd *cobra.Command, ctl *internal.Controller, line string) error {
	fmt.Print(promptStyle.Render("assistant> "))
	var reply internal.Message
	var err error
	if chatNoStream {
		reply, err = ctl.Submit(cmd.Context(), line)
		if err == nil {
			fmt.Print(assistantStyle.Render(reply.Content))
		}
	} else {
		_, err = ctl.SubmitStream(cmd.Context(), line, func(fragment string) error {
			fmt.Print(assistantStyle.Render(fragment))
			return nil
		})
	}
	fmt.Println()

	if errors.Is(err, internal.ErrBusy) {
		fmt.Println(noticeStyle.Render("A reply is still pending, please wait"))
		return nil
	}
	if errors.Is(err, internal.ErrEmptyMessage) {
		return nil
	}
	return err
}

func attachFile(ctl *internal.Controller, cfg internal.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment: %w", err)
	}
	att := internal.NewAttachment(path, data, cfg.OCRLanguage)
	ctl.Attach(att)
	fmt.Println(noticeStyle.Render(fmt.Sprintf("Attached %s (%s); its text goes into your next question", path, att.Kind)))
	return nil
}

func printTurn(msg internal.Message) {
	switch msg.Role {
	case internal.RoleUser:
		fmt.Println(promptStyle.Render("you> ") + msg.Content)
	default:
		fmt.Println(promptStyle.Render("assistant> ") + assistantStyle.Render(msg.Content))
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSession, "session", "", "Resume a saved session by name")
	chatCmd.Flags().StringVar(&chatAttach, "attach", "", "Attach an image or PDF before the first message")
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "Wait for the full reply instead of streaming")
}
