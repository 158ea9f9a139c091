package cli

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"study-buddy/internal/llmservice"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask AP US History questions",
	Long: `Starts an interactive tutoring chat. Answers draw on the course material
most relevant to each question and on the difficulties recorded in memory.

Type 'memory', 'practice', 'periods' or 'exit' at the question prompt.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	t, err := newTutor()
	if err != nil {
		return err
	}
	s := newSession(cmd, t)

	s.println("Welcome to AP US History Study Buddy!")
	s.println("\nCommands:")
	s.println("- Type 'exit' to quit")
	s.println("- Type 'memory' to see full memory")
	s.println("- Type 'practice' to enter practice mode")
	s.println("- Type 'periods' to see all AP periods")

	for {
		question, ok := s.prompt("\nYour question: ")
		if !ok {
			return nil
		}
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit":
			return nil
		case "memory":
			s.showMemory()
			continue
		case "practice":
			s.practice()
			continue
		case "periods":
			s.showPeriods()
			continue
		}
		s.converse(question)
	}
}

// converse answers question and its follow-ups, then records the exchange in memory
func (s *session) converse(question string) {
	var history []llms.MessageContent
	for {
		resp, err := s.tutor.Answer(s.ctx, question, history)
		if err != nil {
			log.Error().Err(err).Msg("Chat response failed")
			s.println("Sorry, I encountered an error. Please try again.")
			return
		}

		s.println("\nAI:")
		s.printMarkdown(resp.Content)
		if resp.Source != "" {
			s.printf("Sources: %s\n", resp.Source)
		}
		history = append(history, llmservice.Human(question), llmservice.AI(resp.Content))

		more, ok := s.prompt("\nDo you have any follow-up questions? (yes/no): ")
		if !ok || strings.ToLower(more) != "yes" {
			if _, err := s.tutor.RecordInteraction(s.ctx, question, resp.Content, ""); err != nil {
				log.Warn().Err(err).Msg("Could not update memory")
			}
			return
		}

		next, ok := s.prompt("\nYour follow-up question: ")
		if !ok || next == "" {
			return
		}
		question = next
	}
}
