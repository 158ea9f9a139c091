package cli

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-buddy/internal/models"
	"study-buddy/internal/tutor"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice with generated multiple choice questions",
	Long: `Starts practice mode. Pick a period and an optional topic, then answer
generated AP style multiple choice questions. Ask for a hint or skip to see
the solution; every answer gets feedback and is checked for learning patterns.`,
	Args: cobra.NoArgs,
	RunE: runPractice,
}

func init() {
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, _ []string) error {
	t, err := newTutor()
	if err != nil {
		return err
	}
	newSession(cmd, t).practice()
	return nil
}

func (s *session) practice() {
	s.println("\n=== AP US History Practice Mode ===")
	s.println("Type 'exit' to return to main chat")
	s.println("Type 'periods' to see all AP periods")
	s.println("Type 'problems' to see all practice problems")

	for {
		s.showPeriods()
		choice, ok := s.prompt("\nEnter the number of the period you want to practice (or 'exit'/'problems'): ")
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "exit":
			return
		case "problems":
			s.println("\nAll Practice Problems:")
			s.showMemory()
			continue
		case "periods", "":
			continue
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			s.println("Please enter a valid number.")
			continue
		}
		if n < 1 || n > models.NumPeriods {
			s.println("Invalid period number. Please try again.")
			continue
		}
		if !s.practiceQuestion(models.APPeriods[n-1]) {
			return
		}
	}
}

// practiceQuestion runs one question on period. It returns false once input is exhausted.
func (s *session) practiceQuestion(period string) bool {
	s.printf("\nYou've selected %s\n", period)
	if summary, err := s.tutor.RelevantPracticeProblems(s.ctx, period); err != nil {
		log.Warn().Err(err).Msg("Could not summarise past practice")
	} else if summary != "" {
		s.println("\nFrom your past practice:")
		s.printMarkdown(summary)
	}

	s.println("What specific topic would you like to practice?")
	s.println("Examples:")
	for _, ex := range []string{"Political developments", "Social movements", "Economic changes", "Key events", "Important figures", "Cultural changes"} {
		s.println("- " + ex)
	}
	s.println("Or any other topic you're interested in!")

	topic, ok := s.prompt("\nEnter your topic (or press Enter for a general question): ")
	if !ok {
		return false
	}

	q, err := s.tutor.GenerateQuestion(s.ctx, period, topic)
	if err != nil {
		log.Error().Err(err).Msg("Question generation failed")
		s.println("Sorry, I couldn't generate a practice question. Please try again.")
		return true
	}

	s.println("\nHere's your AP US History practice question:")
	s.println(q.Text)
	s.println("\nOptions:")
	for _, opt := range q.Options {
		s.println(opt)
	}

	selected, ok := s.readAnswer(q, period, topic)
	if !ok {
		return false
	}

	if selected == "" {
		s.printf("\nCorrect Answer: %s\n", q.Answer)
		if _, err := s.tutor.RecordSkip(s.ctx, q, period, topic); err != nil {
			log.Warn().Err(err).Msg("Could not update memory")
		}
	} else if q.IsCorrect(selected) {
		s.println("\nCorrect!")
	} else {
		s.printf("\nNot quite. The correct answer is %s.\n", q.Answer)
	}

	feedback, err := s.tutor.Feedback(s.ctx, q, period, topic, selected)
	if err != nil {
		log.Warn().Err(err).Msg("Could not generate feedback")
	} else if feedback != "" {
		s.println("\nFeedback:")
		s.printMarkdown(feedback)
		if selected != "" {
			if _, err := s.tutor.RecordAnswer(s.ctx, q, period, topic, selected, feedback); err != nil {
				log.Warn().Err(err).Msg("Could not update memory")
			}
		}
	}

	if sol := q.Solution(); sol != "" {
		s.println()
		s.println(sol)
	}

	if _, err := s.tutor.SavePracticeProblem(s.ctx, q, period); err != nil {
		log.Warn().Err(err).Msg("Could not save practice problem")
	}
	return true
}

// readAnswer loops until a valid option is chosen or the question is skipped, which
// returns "". The bool is false once input is exhausted.
func (s *session) readAnswer(q *tutor.Question, period, topic string) (string, bool) {
	for {
		attempt, ok := s.prompt("\nEnter the letter of your answer (A, B, C, or D) (or 'skip' to see solution, 'hint' for a hint): ")
		if !ok {
			return "", false
		}
		attempt = strings.ToUpper(attempt)

		switch attempt {
		case "SKIP":
			return "", true
		case "HINT":
			hint, err := s.tutor.Hint(s.ctx, q, period, topic)
			if err != nil {
				log.Warn().Err(err).Msg("Could not generate hint")
				continue
			}
			if hint != "" {
				s.printf("\nHint: %s\n", hint)
			}
		case "A", "B", "C", "D":
			if opt, found := q.Option(attempt); found {
				return opt, true
			}
			s.println("Invalid option. Please enter A, B, C, or D")
		default:
			s.println("Please enter a valid letter (A, B, C, or D)")
		}
	}
}
