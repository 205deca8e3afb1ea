package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

var (
	askJSON  bool
	askSteps bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long: `Runs one retrieval-grounded turn without the interactive UI.

The answer is printed with its citation markers resolved to numbered
references, followed by the list of cited sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	askCmd.Flags().BoolVar(&askSteps, "steps", false, "print agent reasoning steps as they arrive")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	events := driving.TurnEvents{}
	if askSteps && !askJSON {
		events.OnStep = func(step domain.AgentStep) {
			cmd.Printf("  [%s] %s\n", step.Type, step.Content)
		}
	}

	conv, err := chatService.Submit(cmd.Context(), args[0], events)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return errors.New("no API key configured; run 'shuka settings set' first")
		}
		// Quota and agent failures still produced a visible error message
		// in the conversation; print it instead of a bare error.
		if conv != nil && len(conv.Messages) > 0 {
			cmd.Println(conv.Messages[len(conv.Messages)-1].Text)
			return nil
		}
		return err
	}

	answer := conv.Messages[len(conv.Messages)-1]

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	outputAskText(cmd, answer)
	return nil
}

// outputAskText prints the answer with citation markers rewritten as
// numbered references, then the numbered source list.
func outputAskText(cmd *cobra.Command, answer domain.Message) {
	refs := make(map[string]int)
	var order []domain.SourceChunk

	for _, seg := range domain.ParseCitations(answer.Text) {
		switch seg.Kind {
		case domain.SegmentText:
			cmd.Print(seg.Text)
		case domain.SegmentCitation:
			chunk, err := domain.ResolveCitation(seg.CitationID, answer.Sources)
			if err != nil {
				// Unresolvable markers degrade to plain text.
				cmd.Printf("[[%s]]", seg.CitationID)
				continue
			}
			n, ok := refs[chunk.ID]
			if !ok {
				n = len(order) + 1
				refs[chunk.ID] = n
				order = append(order, chunk)
			}
			cmd.Printf("[%d]", n)
		}
	}
	cmd.Println()

	if len(order) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, chunk := range order {
		ref := chunk.DisplayRef()
		if ref != "" {
			cmd.Printf("  [%d] %s (%s)\n", i+1, chunk.BookTitle, ref)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, chunk.BookTitle)
		}
	}
}

func outputAskJSON(cmd *cobra.Command, answer domain.Message) error {
	payload := struct {
		Answer  string               `json:"answer"`
		Sources []domain.SourceChunk `json:"sources"`
	}{
		Answer:  answer.Text,
		Sources: answer.Sources,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
