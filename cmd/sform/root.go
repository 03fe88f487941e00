package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sform",
	Short: "sform is a declarative form-state engine",
	Long: `sform loads a form declared in YAML or JSON (fields, constraints and message rules)
and keeps its values and diagnostics settled after every edit. The same form can be
edited interactively, in batch, over HTTP or as MCP tools.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().StringArray("mask", nil, "Hide the values of fields whose id matches this regexp (repeatable); fields with the secret prop are always hidden")
}

func debugFlag(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

func maskFlag(cmd *cobra.Command) []string {
	mask, _ := cmd.Flags().GetStringArray("mask")
	return mask
}
