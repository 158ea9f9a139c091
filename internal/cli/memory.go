package cli

import (
	"github.com/spf13/cobra"

	"study-buddy/internal/helper"
	"study-buddy/internal/memory"
)

var memoryJSON bool

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show the recorded learning patterns",
	Long: `Prints every difficulty pattern recorded from past chats and practice,
oldest first. Runs offline, no API key needed.`,
	Args: cobra.NoArgs,
	RunE: runMemory,
}

func init() {
	memoryCmd.Flags().BoolVar(&memoryJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(memoryCmd)
}

func runMemory(cmd *cobra.Command, _ []string) error {
	store, err := memory.Open(cfg.Memory.Path)
	if err != nil {
		return err
	}
	if memoryJSON {
		helper.PrettyPrint(cmd.OutOrStdout(), store.Entries())
		return nil
	}
	printMemory(cmd.OutOrStdout(), store)
	return nil
}
