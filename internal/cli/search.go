package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"study-buddy/internal/helper"
	"study-buddy/internal/models"
	"study-buddy/internal/rag"
)

const snippetLen = 160

var (
	searchTopK    int
	searchJSON    bool
	searchContext bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the course material",
	Long: `Ranks course material chunks against a query by keyword overlap.
Chunks from the period named in the query ("period 3") and exam information
chunks for exam questions are boosted. Runs offline, no API key needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (default rag.top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchContext, "context", false, "print the context block sent to the model")
	rootCmd.AddCommand(searchCmd)
}

type searchResult struct {
	Rank   int             `json:"rank"`
	Score  float64         `json:"score"`
	Source string          `json:"source"`
	Text   string          `json:"text"`
	Meta   models.Metadata `json:"metadata"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	topK := searchTopK
	if topK <= 0 {
		topK = cfg.RAG.TopK
	}

	scorer, err := loadScorer()
	if err != nil {
		return err
	}
	ranked := scorer.Rank(query, topK)
	out := cmd.OutOrStdout()

	if searchContext {
		chunks := make([]models.Chunk, len(ranked))
		for i, r := range ranked {
			chunks[i] = r.Chunk
		}
		fmt.Fprint(out, rag.FormatContext(chunks))
		return nil
	}

	if searchJSON {
		results := make([]searchResult, len(ranked))
		for i, r := range ranked {
			results[i] = searchResult{
				Rank:   i + 1,
				Score:  r.Score,
				Source: strings.TrimPrefix(rag.PartitionLabel(r.Chunk), "From "),
				Text:   r.Chunk.Text,
				Meta:   r.Chunk.Metadata,
			}
		}
		helper.PrettyPrint(out, results)
		return nil
	}

	if len(ranked) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintln(out, "Results:")
	fmt.Fprintln(out)
	for i, r := range ranked {
		fmt.Fprintf(out, "  [%d] %s (%.2f)\n", i+1, strings.TrimPrefix(rag.PartitionLabel(r.Chunk), "From "), r.Score)
		fmt.Fprintf(out, "      %s\n\n", snippet(r.Chunk.Text))
	}
	return nil
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= snippetLen {
		return text
	}
	return string(runes[:snippetLen]) + "..."
}
