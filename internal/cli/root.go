// Package cli holds the study-buddy command line interface.
package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-buddy/internal/config"
	"study-buddy/internal/llmservice"
	"study-buddy/internal/memory"
	"study-buddy/internal/rag"
	"study-buddy/internal/tutor"
)

var (
	cfgPath string
	verbose bool
	cfg     *config.Config
)

// newQuerier builds the chat completion client; tests replace it
var newQuerier = func(llmConfig *config.LLMConfig) (rag.Querier, error) {
	return llmservice.NewClient(llmConfig)
}

var rootCmd = &cobra.Command{
	Use:   "study-buddy",
	Short: "AP US History study assistant",
	Long: `Study Buddy answers AP US History questions with material from the
Course and Exam Description, runs multiple choice practice sessions and
remembers the topics you struggle with.

Run without a subcommand to start the interactive chat.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output, including every LLM call")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	cfg = c

	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil && l != zerolog.NoLevel {
		level = l
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func loadScorer() (*rag.Scorer, error) {
	corpus, err := rag.LoadCorpus(cfg.RAG.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return rag.NewScorer(corpus), nil
}

// newTutor wires the corpus, the model client and the memory store
func newTutor() (*tutor.Tutor, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	scorer, err := loadScorer()
	if err != nil {
		log.Warn().Err(err).Msg("Course material unavailable, answering without it")
		scorer = rag.NewScorer(nil)
	}
	llm, err := newQuerier(&cfg.LLM)
	if err != nil {
		return nil, err
	}
	store, err := memory.Open(cfg.Memory.Path)
	if err != nil {
		return nil, err
	}
	return tutor.NewTutor(rag.NewRAG(scorer, llm, cfg), llm, store, cfg), nil
}
