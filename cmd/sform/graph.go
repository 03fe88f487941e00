package main

import (
	"fmt"
	"os"

	"github.com/aretw0/sform/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the form rules as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the form's fields and whole-form rules.
With --set the edits are applied first and invalid or edited fields are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		set, _ := cmd.Flags().GetStringArray("set")
		if err := cli.Graph(args[0], set, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringArray("set", nil, "Edit to apply before drawing, as id=value (repeatable)")
}
