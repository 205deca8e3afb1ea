package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Manage saved conversations",
	RunE:    runConversationsList,
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

func init() {
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	rootCmd.AddCommand(conversationsCmd)
}

func runConversationsList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.LoadIndex(cmd.Context()); err != nil {
		return fmt.Errorf("loading conversations: %w", err)
	}

	headers := chatService.Conversations()
	if len(headers) == 0 {
		cmd.Println("No saved conversations.")
		return nil
	}

	for _, h := range headers {
		cmd.Printf("  %s  %s  %s\n", h.ID, h.CreatedAt.Format("2006-01-02 15:04"), h.Title)
	}
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.Load(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("conversation %s not found", args[0])
		}
		return err
	}

	conv := chatService.Active()
	cmd.Printf("%s (%s)\n", conv.Title, conv.CreatedAt.Format("2006-01-02 15:04"))
	cmd.Println(strings.Repeat("=", len(conv.Title)))
	cmd.Println()

	for _, m := range conv.Messages {
		switch m.Role {
		case domain.RoleUser:
			cmd.Printf("You: %s\n\n", m.Text)
		case domain.RoleModel:
			cmd.Printf("Shuka: %s\n", m.Text)
			if len(m.Sources) > 0 {
				cmd.Println()
				for _, s := range m.Sources {
					if ref := s.DisplayRef(); ref != "" {
						cmd.Printf("  - %s (%s)\n", s.BookTitle, ref)
					} else {
						cmd.Printf("  - %s\n", s.BookTitle)
					}
				}
			}
			cmd.Println()
		}
	}
	return nil
}
