package cli

import (
	"github.com/spf13/cobra"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the AP US History periods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printPeriods(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(periodsCmd)
}
